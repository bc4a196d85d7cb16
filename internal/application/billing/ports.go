package billing

import (
	"context"

	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos
// de factura y auditoría atados a la tx. La mutación de la factura y sus
// entradas de auditoría son una sola escritura lógica: o se confirman juntas
// o se revierten juntas.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación gráfica (PDF) de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		customer *entity.Customer,
		auditLogs []*entity.InvoiceAuditLog,
	) ([]byte, error)
}
