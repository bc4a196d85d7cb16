package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/cartera-pro/internal/application/dto"
	"github.com/tu-usuario/cartera-pro/internal/domain"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

// Acciones del resultado de la conciliación.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// ReconcileUseCase ingesta de facturas del partner: empareja el registro
// entrante con una factura existente por (cliente, external_id) y decide
// crear o actualizar. El sistema externo es la fuente de verdad para ese
// external_id; los clientes nunca se crean implícitamente.
type ReconcileUseCase struct {
	txRunner     BillingTxRunner
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(
	txRunner BillingTxRunner,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// Reconcile procesa un registro del partner. Idempotente bajo reintento: un
// payload idéntico repite action=updated con diff vacío y cero entradas de
// auditoría nuevas. Dos llamadas concurrentes para el mismo external_id no
// pueden crear dos facturas: el índice único por cliente hace fallar el
// insert perdedor y este se reintenta como actualización.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, in dto.ExternalInvoiceRequest) (*dto.ExternalInvoiceResponse, error) {
	if in.ExternalCustomerID == "" || in.ExternalInvoiceID == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.customerRepo.GetByExternalID(in.ExternalCustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.invoiceRepo.GetByCustomerAndExternalID(customer.ID, in.ExternalInvoiceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if existing != nil {
		inv, err := uc.update(ctx, existing, in, dueDate, now)
		if err != nil {
			return nil, err
		}
		return toExternalResponse(inv, ActionUpdated), nil
	}

	inv, err := uc.create(ctx, customer.ID, in, dueDate, now)
	if errors.Is(err, domain.ErrDuplicate) {
		// Perdimos la carrera del insert: otra conciliación creó la factura
		// primero. Se reintenta como actualización.
		existing, err = uc.invoiceRepo.GetByCustomerAndExternalID(customer.ID, in.ExternalInvoiceID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrDuplicate
		}
		inv, err = uc.update(ctx, existing, in, dueDate, now)
		if err != nil {
			return nil, err
		}
		return toExternalResponse(inv, ActionUpdated), nil
	}
	if err != nil {
		return nil, err
	}
	return toExternalResponse(inv, ActionCreated), nil
}

// update sobrescribe amount/dueDate/description (el partner siempre envía los
// tres) y persiste solo las entradas de auditoría de campos que cambiaron.
func (uc *ReconcileUseCase) update(ctx context.Context, existing *entity.Invoice, in dto.ExternalInvoiceRequest, dueDate, now time.Time) (*entity.Invoice, error) {
	description := in.Description
	changes := FieldChanges{
		Amount:      &in.Amount,
		DueDate:     &dueDate,
		Description: &description,
	}
	entries, err := DiffChanges(existing, changes, now)
	if err != nil {
		return nil, err
	}
	ApplyChanges(existing, changes, now)

	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		if err := invoiceRepo.Update(existing); err != nil {
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
	return existing, nil
}

func (uc *ReconcileUseCase) create(ctx context.Context, customerID string, in dto.ExternalInvoiceRequest, dueDate, now time.Time) (*entity.Invoice, error) {
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		ExternalID:  in.ExternalInvoiceID,
		Amount:      in.Amount,
		Status:      entity.StatusPending,
		DueDate:     dueDate,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		return auditRepo.Create(CreationEntry(inv.ID, entity.CreationSourceExternal, now))
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func toExternalResponse(inv *entity.Invoice, action string) *dto.ExternalInvoiceResponse {
	return &dto.ExternalInvoiceResponse{
		Success: true,
		Message: fmt.Sprintf("Invoice %s successfully", action),
		Action:  action,
		Invoice: dto.ExternalInvoiceSummary{
			ID:         inv.ID,
			ExternalID: inv.ExternalID,
			Amount:     inv.Amount,
			Status:     inv.Status,
			DueDate:    inv.DueDate,
		},
	}
}
