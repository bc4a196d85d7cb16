package repository

import (
	"time"

	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas.
type InvoiceFilter struct {
	CustomerID string
	Status     string
	Limit      int
	Offset     int
}

// InvoiceRepository puerto de persistencia de facturas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	// GetByCustomerAndExternalID busca la factura del cliente con ese
	// identificador externo. Devuelve (nil, nil) si no existe.
	GetByCustomerAndExternalID(customerID, externalID string) (*entity.Invoice, error)
	List(filter InvoiceFilter) ([]*entity.Invoice, error)
	Count(filter InvoiceFilter) (int64, error)
	Update(invoice *entity.Invoice) error
	Delete(id string) error
	// ListByCustomer facturas de un cliente, más recientes primero.
	ListByCustomer(customerID string) ([]*entity.Invoice, error)
	// ListOverduePending facturas PENDING con due_date anterior a cutoff.
	ListOverduePending(cutoff time.Time) ([]*entity.Invoice, error)
	// MarkPastDueIfPending transiciona a PAST_DUE solo si la factura sigue en
	// PENDING. Devuelve false si otra operación ya cambió el estado (la
	// barrida concurrente pierde la carrera y simplemente omite la factura).
	MarkPastDueIfPending(id string, now time.Time) (bool, error)
}
