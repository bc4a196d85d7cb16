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

// InvoiceUseCase casos de uso CRUD de facturas. Toda mutación persiste la
// factura y sus entradas de auditoría en una misma transacción.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	auditRepo    repository.AuditLogRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditLogRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		auditRepo:    auditRepo,
	}
}

// Create crea una factura con su entrada de auditoría "creation".
// amount y due_date son obligatorios; status por defecto PENDING.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.CustomerID == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.StatusPending
	}
	if !entity.ValidStatus(status) {
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	// external_id único dentro del cliente
	if in.ExternalID != "" {
		existing, err := uc.invoiceRepo.GetByCustomerAndExternalID(in.CustomerID, in.ExternalID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		CustomerID:  in.CustomerID,
		ExternalID:  in.ExternalID,
		Amount:      in.Amount,
		Status:      status,
		DueDate:     dueDate,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		return auditRepo.Create(CreationEntry(inv.ID, entity.CreationSourceManual, now))
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Get obtiene la factura con el resumen del cliente y su historial de
// auditoría (más reciente primero).
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceDetailResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(inv.CustomerID)
	if err != nil {
		return nil, err
	}
	logs, err := uc.auditRepo.ListByInvoice(id)
	if err != nil {
		return nil, err
	}
	resp := &dto.InvoiceDetailResponse{
		InvoiceResponse: *toInvoiceResponse(inv),
		AuditLogs:       make([]dto.AuditLogResponse, 0, len(logs)),
	}
	if customer != nil {
		resp.Customer = dto.InvoiceCustomerSummary{ID: customer.ID, Name: customer.Name, Email: customer.Email}
	}
	for _, l := range logs {
		resp.AuditLogs = append(resp.AuditLogs, toAuditLogResponse(l))
	}
	return resp, nil
}

// List lista facturas con filtros opcionales por cliente y estado.
func (uc *InvoiceUseCase) List(ctx context.Context, customerID, status string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	filter := repository.InvoiceFilter{
		CustomerID: customerID,
		Status:     status,
		Limit:      page.Limit,
		Offset:     page.Offset(),
	}
	list, err := uc.invoiceRepo.List(filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.invoiceRepo.Count(filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.InvoiceListResponse{
		Invoices: make([]dto.InvoiceResponse, 0, len(list)),
		Pagination: dto.Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      total,
			TotalPages: (total + int64(page.Limit) - 1) / int64(page.Limit),
		},
	}
	for _, inv := range list {
		resp.Invoices = append(resp.Invoices, *toInvoiceResponse(inv))
	}
	return resp, nil
}

// Update aplica los campos enviados, calcula el diff de auditoría contra los
// valores previos y persiste factura + entradas en una sola transacción.
// Reenviar el mismo payload no genera entradas nuevas.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	changes := FieldChanges{
		Amount:      in.Amount,
		Status:      in.Status,
		Description: in.Description,
		ExternalID:  in.ExternalID,
	}
	if in.Amount != nil && !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.Status != nil && *in.Status != "" && !entity.ValidStatus(*in.Status) {
		return nil, domain.ErrInvalidInput
	}
	if in.DueDate != nil {
		dueDate, err := parseDueDate(*in.DueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		changes.DueDate = &dueDate
	}

	// external_id no puede chocar con otra factura del mismo cliente
	if in.ExternalID != nil && *in.ExternalID != "" && *in.ExternalID != inv.ExternalID {
		other, err := uc.invoiceRepo.GetByCustomerAndExternalID(inv.CustomerID, *in.ExternalID)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != inv.ID {
			return nil, domain.ErrDuplicate
		}
	}

	now := time.Now()
	entries, err := DiffChanges(inv, changes, now)
	if err != nil {
		return nil, err
	}
	ApplyChanges(inv, changes, now)

	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return auditRepo.CreateBatch(entries)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Delete elimina la factura; los logs de auditoría caen en cascada.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	return uc.invoiceRepo.Delete(id)
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:            inv.ID,
		CustomerID:    inv.CustomerID,
		ExternalID:    inv.ExternalID,
		Amount:        inv.Amount,
		Status:        inv.Status,
		DisplayStatus: inv.DisplayStatus(),
		DueDate:       inv.DueDate,
		Description:   inv.Description,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toAuditLogResponse(l *entity.InvoiceAuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:            l.ID,
		InvoiceID:     l.InvoiceID,
		FieldChanged:  l.FieldChanged,
		PreviousValue: l.PreviousValue,
		NewValue:      l.NewValue,
		Timestamp:     l.Timestamp,
	}
}
