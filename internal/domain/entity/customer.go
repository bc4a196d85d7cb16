package entity

import "time"

// Customer representa un cliente al que se le emiten facturas.
// ExternalID es el identificador del cliente en el sistema externo (partner);
// cuando no está vacío es único a nivel global.
type Customer struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Address    string
	ExternalID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
