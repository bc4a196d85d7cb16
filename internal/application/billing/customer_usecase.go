package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/cartera-pro/internal/application/dto"
	"github.com/tu-usuario/cartera-pro/internal/domain"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

// CustomerUseCase casos de uso CRUD de clientes. El contrato refleja el de
// facturas; aquí no hay lógica de auditoría.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(customerRepo repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo, invoiceRepo: invoiceRepo}
}

// Create crea un cliente. name y email son obligatorios; external_id, si
// viene, debe ser único a nivel global.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ExternalID != "" {
		existing, err := uc.customerRepo.GetByExternalID(in.ExternalID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		ExternalID: in.ExternalID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes con acumulados de facturación, filtrando por nombre o
// email si search no está vacío.
func (uc *CustomerUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.customerRepo.List(search, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := uc.customerRepo.Count(search)
	if err != nil {
		return nil, err
	}
	resp := &dto.CustomerListResponse{
		Customers: make([]dto.CustomerListItem, 0, len(list)),
		Pagination: dto.Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      total,
			TotalPages: (total + int64(page.Limit) - 1) / int64(page.Limit),
		},
	}
	for _, c := range list {
		resp.Customers = append(resp.Customers, dto.CustomerListItem{
			CustomerResponse:  *toCustomerResponse(&c.Customer),
			InvoiceCount:      c.InvoiceCount,
			TotalAmount:       c.TotalAmount,
			OutstandingAmount: c.OutstandingAmount,
		})
	}
	return resp, nil
}

// Get obtiene un cliente con sus facturas (más recientes primero).
func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*dto.CustomerDetailResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	invoices, err := uc.invoiceRepo.ListByCustomer(id)
	if err != nil {
		return nil, err
	}
	resp := &dto.CustomerDetailResponse{
		CustomerResponse: *toCustomerResponse(customer),
		Invoices:         make([]dto.InvoiceResponse, 0, len(invoices)),
	}
	for _, inv := range invoices {
		resp.Invoices = append(resp.Invoices, *toInvoiceResponse(inv))
	}
	return resp, nil
}

// Update actualiza un cliente. Mismo contrato de obligatorios que Create.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if in.ExternalID != "" && in.ExternalID != customer.ExternalID {
		other, err := uc.customerRepo.GetByExternalID(in.ExternalID)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, domain.ErrDuplicate
		}
	}
	customer.Name = in.Name
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Address = in.Address
	customer.ExternalID = in.ExternalID
	customer.UpdatedAt = time.Now()
	if err := uc.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Delete elimina el cliente; sus facturas y logs de auditoría caen en
// cascada.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	return uc.customerRepo.Delete(id)
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		ExternalID: c.ExternalID,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
