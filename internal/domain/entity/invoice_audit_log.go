package entity

import "time"

// FieldCreation es el valor centinela de FieldChanged para la entrada de
// auditoría que acompaña la creación de la factura.
const FieldCreation = "creation"

// Etiquetas de origen para la entrada "creation".
const (
	CreationSourceManual   = "Invoice created"
	CreationSourceExternal = "Invoice created via external API"
)

// InvoiceAuditLog registra el cambio de un campo de una factura.
// Es inmutable: solo se inserta, nunca se edita ni borra (salvo cascada al
// eliminar la factura).
type InvoiceAuditLog struct {
	ID            string
	InvoiceID     string
	FieldChanged  string
	PreviousValue string
	NewValue      string
	Timestamp     time.Time
}
