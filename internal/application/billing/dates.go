package billing

import (
	"time"

	"github.com/tu-usuario/cartera-pro/internal/domain"
)

// Formatos aceptados para due_date en los bodies de la API.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDueDate normaliza la fecha de vencimiento a un instante UTC. Es el
// único punto de parseo: el mismo valor normalizado se usa para guardar y
// para el diff de auditoría, de modo que reenviar la misma fecha nunca
// produce un falso cambio.
func parseDueDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, domain.ErrInvalidInput
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.ErrInvalidInput
}
