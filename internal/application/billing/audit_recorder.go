package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/cartera-pro/internal/domain"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
)

// Nombres de campo auditados, tal como se escriben en field_changed.
const (
	fieldAmount      = "amount"
	fieldStatus      = "status"
	fieldDueDate     = "dueDate"
	fieldDescription = "description"
	fieldExternalID  = "externalId"
)

// FieldChanges campos entrantes de una actualización de factura.
// Un puntero nil significa "sin cambio solicitado"; un puntero a string vacío
// es un cambio explícito a vacío (se normaliza a "" para comparar y guardar).
type FieldChanges struct {
	Amount      *decimal.Decimal
	Status      *string
	DueDate     *time.Time
	Description *string
	ExternalID  *string
}

// DiffChanges compara los campos entrantes contra la factura existente y
// devuelve una entrada de auditoría por cada campo cuyo valor difiere.
// Reglas de igualdad por campo:
//   - amount: igualdad numérica (decimal.Equal), nunca igualdad de strings.
//   - dueDate: igualdad de instante (time.Equal), normalizado a UTC al
//     serializar.
//   - status: igualdad de string.
//   - description/externalId: nil = sin cambio; vacío y ausente-en-DB se
//     comparan ambos como "".
//
// No tiene efectos secundarios: el caller persiste las entradas en la misma
// transacción que la escritura de la factura. Falla solo si la factura no
// tiene ID.
func DiffChanges(existing *entity.Invoice, in FieldChanges, now time.Time) ([]*entity.InvoiceAuditLog, error) {
	if existing == nil || existing.ID == "" {
		return nil, domain.ErrInvalidInput
	}

	var entries []*entity.InvoiceAuditLog
	add := func(field, prev, next string) {
		entries = append(entries, &entity.InvoiceAuditLog{
			InvoiceID:     existing.ID,
			FieldChanged:  field,
			PreviousValue: prev,
			NewValue:      next,
			Timestamp:     now,
		})
	}

	if in.Amount != nil && !in.Amount.Equal(existing.Amount) {
		add(fieldAmount, existing.Amount.String(), in.Amount.String())
	}
	if in.Status != nil && *in.Status != "" && *in.Status != existing.Status {
		add(fieldStatus, existing.Status, *in.Status)
	}
	if in.DueDate != nil && !in.DueDate.Equal(existing.DueDate) {
		add(fieldDueDate, formatInstant(existing.DueDate), formatInstant(*in.DueDate))
	}
	if in.Description != nil && *in.Description != existing.Description {
		add(fieldDescription, existing.Description, *in.Description)
	}
	if in.ExternalID != nil && *in.ExternalID != existing.ExternalID {
		add(fieldExternalID, existing.ExternalID, *in.ExternalID)
	}
	return entries, nil
}

// ApplyChanges copia los campos entrantes no nulos sobre la factura y marca
// updated_at. Se llama después de DiffChanges para que el diff vea los
// valores previos.
func ApplyChanges(inv *entity.Invoice, in FieldChanges, now time.Time) {
	if in.Amount != nil {
		inv.Amount = *in.Amount
	}
	if in.Status != nil && *in.Status != "" {
		inv.Status = *in.Status
	}
	if in.DueDate != nil {
		inv.DueDate = *in.DueDate
	}
	if in.Description != nil {
		inv.Description = *in.Description
	}
	if in.ExternalID != nil {
		inv.ExternalID = *in.ExternalID
	}
	inv.UpdatedAt = now
}

// CreationEntry entrada única que acompaña la creación de una factura:
// field_changed = "creation", previous_value vacío y new_value la etiqueta
// del origen (manual o API externa).
func CreationEntry(invoiceID, sourceLabel string, now time.Time) *entity.InvoiceAuditLog {
	return &entity.InvoiceAuditLog{
		InvoiceID:     invoiceID,
		FieldChanged:  entity.FieldCreation,
		PreviousValue: "",
		NewValue:      sourceLabel,
		Timestamp:     now,
	}
}

// formatInstant serializa un instante en RFC 3339 UTC; es la forma canónica
// usada en previous_value/new_value de dueDate.
func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
