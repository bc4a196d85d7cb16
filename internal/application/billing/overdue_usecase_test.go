package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/cartera-pro/internal/application/billing"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
)

func buildOverdueUC() (*billing.OverdueUseCase, *fakeInvoiceRepo, *fakeAuditRepo) {
	invoices := newFakeInvoiceRepo()
	audits := newFakeAuditRepo()
	tx := &fakeTxRunner{invoiceRepo: invoices, auditRepo: audits}
	return billing.NewOverdueUseCase(tx, invoices), invoices, audits
}

// asOf fijo para los tests: mediodía; el corte efectivo es la medianoche.
var sweepAsOf = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// Tests Sweep
// ──────────────────────────────────────────────────────────────────────────────

func TestSweep_PendienteVencida_TransicionaConAuditoria(t *testing.T) {
	uc, invoices, audits := buildOverdueUC()
	due := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, invoices.Create(newTestInvoice("inv-1", "cust-1", "100", entity.StatusPending, due)))

	updated, err := uc.Sweep(context.Background(), sweepAsOf)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	inv, err := invoices.GetByID("inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPastDue, inv.Status)
	assert.Equal(t, "PAST DUE", inv.DisplayStatus())

	logs, err := audits.ListByInvoice("inv-1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "status", logs[0].FieldChanged)
	assert.Equal(t, entity.StatusPending, logs[0].PreviousValue)
	assert.Equal(t, entity.StatusPastDue, logs[0].NewValue)
}

func TestSweep_VenceHoy_NoTransiciona(t *testing.T) {
	uc, invoices, _ := buildOverdueUC()
	// Vence hoy a las 10:00: no es anterior a la medianoche de hoy.
	due := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, invoices.Create(newTestInvoice("inv-1", "cust-1", "100", entity.StatusPending, due)))

	updated, err := uc.Sweep(context.Background(), sweepAsOf)
	require.NoError(t, err)
	assert.Zero(t, updated, "lo que vence hoy aún no está vencido")

	inv, _ := invoices.GetByID("inv-1")
	assert.Equal(t, entity.StatusPending, inv.Status)
}

func TestSweep_OtrosEstados_NoSeTocan(t *testing.T) {
	uc, invoices, audits := buildOverdueUC()
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, invoices.Create(newTestInvoice("inv-paid", "cust-1", "10", entity.StatusPaid, due)))
	require.NoError(t, invoices.Create(newTestInvoice("inv-cancelled", "cust-1", "20", entity.StatusCancelled, due)))
	require.NoError(t, invoices.Create(newTestInvoice("inv-pastdue", "cust-1", "30", entity.StatusPastDue, due)))

	updated, err := uc.Sweep(context.Background(), sweepAsOf)
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Empty(t, audits.entries)

	for id, want := range map[string]string{
		"inv-paid":      entity.StatusPaid,
		"inv-cancelled": entity.StatusCancelled,
		"inv-pastdue":   entity.StatusPastDue,
	} {
		inv, _ := invoices.GetByID(id)
		assert.Equal(t, want, inv.Status, id)
	}
}

// TestSweep_CandidataYaCambiada simula la carrera con otra barrida (o una
// edición de usuario): la candidata listada ya no está PENDING al momento de
// la transición condicional, así que se omite sin auditar ni contar.
func TestSweep_CandidataYaCambiada_SeOmite(t *testing.T) {
	uc, invoices, audits := buildOverdueUC()
	due := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	stillPending := newTestInvoice("inv-1", "cust-1", "100", entity.StatusPending, due)
	require.NoError(t, invoices.Create(stillPending))

	alreadyPaid := newTestInvoice("inv-2", "cust-1", "200", entity.StatusPaid, due)
	require.NoError(t, invoices.Create(alreadyPaid))

	// Lista de candidatas obsoleta: incluye inv-2 como si siguiera PENDING.
	stale := *alreadyPaid
	stale.Status = entity.StatusPending
	invoices.overdueOverride = []*entity.Invoice{stillPending, &stale}

	updated, err := uc.Sweep(context.Background(), sweepAsOf)
	require.NoError(t, err)
	assert.Equal(t, 1, updated, "solo cuenta la factura realmente transicionada")

	inv2, _ := invoices.GetByID("inv-2")
	assert.Equal(t, entity.StatusPaid, inv2.Status, "la factura pagada no se toca")

	logs, _ := audits.ListByInvoice("inv-2")
	assert.Empty(t, logs, "omitir la carrera no deja rastro de auditoría")
}

func TestSweep_FalloDeAuditoria_PropagaErrorYContinua(t *testing.T) {
	uc, invoices, audits := buildOverdueUC()
	due := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, invoices.Create(newTestInvoice("inv-1", "cust-1", "100", entity.StatusPending, due)))

	boom := errors.New("storage caído")
	audits.failErr = boom

	updated, err := uc.Sweep(context.Background(), sweepAsOf)
	assert.ErrorIs(t, err, boom, "el primer error se propaga")
	assert.Zero(t, updated, "una transición fallida no se cuenta")
}

func TestSweep_SinCandidatas_RetornaCero(t *testing.T) {
	uc, _, _ := buildOverdueUC()
	updated, err := uc.Sweep(context.Background(), sweepAsOf)
	require.NoError(t, err)
	assert.Zero(t, updated)
}
