package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/cartera-pro/internal/application/billing"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

// Ensure TxRunner implements billing.BillingTxRunner.
var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling inicia una transacción, ejecuta fn con los repos de factura y
// auditoría atados a la tx y hace Commit o Rollback. Así la mutación de la
// factura y sus entradas de auditoría se confirman o revierten juntas.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoiceRepo := NewInvoiceRepository(tx)
	auditRepo := NewAuditLogRepository(tx)

	if err := fn(invoiceRepo, auditRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
