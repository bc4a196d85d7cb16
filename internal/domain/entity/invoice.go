package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una factura. Los valores son parte del
// contrato: se almacenan, comparan y devuelven tal cual.
const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusPastDue   = "PAST_DUE"
	StatusCancelled = "CANCELLED"
)

// ValidStatus indica si s es uno de los estados permitidos.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusPastDue, StatusCancelled:
		return true
	}
	return false
}

// Invoice representa una factura emitida a un cliente.
// ExternalID es el identificador en el sistema del partner; cuando no está
// vacío es único dentro del cliente (customer_id, external_id).
type Invoice struct {
	ID          string
	CustomerID  string
	ExternalID  string
	Amount      decimal.Decimal
	Status      string
	DueDate     time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayStatus devuelve el estado para mostrar en UI: PAST_DUE se presenta
// como "PAST DUE". El valor almacenado no cambia.
func (i *Invoice) DisplayStatus() string {
	return strings.ReplaceAll(i.Status, "_", " ")
}
