package billing

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

// OverdueUseCase barrida programada que transiciona a PAST_DUE las facturas
// PENDING vencidas.
type OverdueUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
}

// NewOverdueUseCase construye el caso de uso.
func NewOverdueUseCase(txRunner BillingTxRunner, invoiceRepo repository.InvoiceRepository) *OverdueUseCase {
	return &OverdueUseCase{txRunner: txRunner, invoiceRepo: invoiceRepo}
}

// Sweep selecciona las facturas PENDING con vencimiento anterior a la
// medianoche local de asOf y las pasa a PAST_DUE, con una entrada de
// auditoría PENDING→PAST_DUE por factura (misma transacción que el cambio de
// estado). La transición es condicional al estado PENDING actual, así que dos
// barridas concurrentes (o una edición de usuario en paralelo) no duplican el
// cambio: la que pierde la carrera omite la factura.
//
// Devuelve cuántas facturas transicionó. Si una factura falla por error de
// almacenamiento, se registra, se continúa con el resto y el primer error se
// propaga junto con el conteo parcial.
func (uc *OverdueUseCase) Sweep(ctx context.Context, asOf time.Time) (int, error) {
	cutoff := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())

	overdue, err := uc.invoiceRepo.ListOverduePending(cutoff)
	if err != nil {
		return 0, err
	}

	updated := 0
	var firstErr error
	for _, inv := range overdue {
		now := time.Now()
		transitioned := false
		err := uc.txRunner.RunBilling(ctx, func(
			invoiceRepo repository.InvoiceRepository,
			auditRepo repository.AuditLogRepository,
		) error {
			ok, err := invoiceRepo.MarkPastDueIfPending(inv.ID, now)
			if err != nil {
				return err
			}
			if !ok {
				// otra barrida o un usuario ya cambió el estado
				return nil
			}
			transitioned = true
			return auditRepo.Create(&entity.InvoiceAuditLog{
				InvoiceID:     inv.ID,
				FieldChanged:  fieldStatus,
				PreviousValue: entity.StatusPending,
				NewValue:      entity.StatusPastDue,
				Timestamp:     now,
			})
		})
		if err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID).Msg("barrida de vencidas: transición fallida")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if transitioned {
			updated++
		}
	}

	log.Info().Int("candidates", len(overdue)).Int("updated", updated).Time("cutoff", cutoff).
		Msg("barrida de facturas vencidas")
	return updated, firstErr
}
