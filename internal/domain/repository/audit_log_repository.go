package repository

import "github.com/tu-usuario/cartera-pro/internal/domain/entity"

// AuditLogRepository puerto del historial de cambios de facturas.
// Solo inserta y lee: las entradas nunca se editan ni borran.
type AuditLogRepository interface {
	Create(log *entity.InvoiceAuditLog) error
	// CreateBatch inserta varias entradas; el caller decide la transacción.
	CreateBatch(logs []*entity.InvoiceAuditLog) error
	// ListByInvoice entradas de una factura, más recientes primero.
	ListByInvoice(invoiceID string) ([]*entity.InvoiceAuditLog, error)
}
