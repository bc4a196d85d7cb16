package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
)

// CustomerWithTotals cliente con los acumulados de sus facturas, para el
// listado del back-office.
type CustomerWithTotals struct {
	Customer          entity.Customer
	InvoiceCount      int64
	TotalAmount       decimal.Decimal
	OutstandingAmount decimal.Decimal // PENDING + PAST_DUE
}

// CustomerRepository puerto de persistencia de clientes.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	// GetByExternalID busca por el identificador externo (único global).
	// Devuelve (nil, nil) si no existe.
	GetByExternalID(externalID string) (*entity.Customer, error)
	// List lista clientes con acumulados de facturas, filtrando por nombre o
	// email si search no está vacío. Orden: created_at descendente.
	List(search string, limit, offset int) ([]*CustomerWithTotals, error)
	Count(search string) (int64, error)
	Update(customer *entity.Customer) error
	// Delete elimina el cliente; las facturas y sus logs de auditoría caen en
	// cascada (FK ON DELETE CASCADE).
	Delete(id string) error
}
