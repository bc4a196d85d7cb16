package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación de AuditLogRepository (usable con pool o tx).
// La tabla es append-only: no hay Update ni Delete; las entradas desaparecen
// solo por cascada al borrar la factura.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create inserta una entrada de auditoría.
func (r *AuditLogRepo) Create(log *entity.InvoiceAuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_audit_logs (id, invoice_id, field_changed, previous_value, new_value, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.InvoiceID, log.FieldChanged, log.PreviousValue, log.NewValue, log.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// CreateBatch inserta varias entradas. El caller decide la transacción; si
// este repo está atado a una tx, el batch se confirma o revierte con ella.
func (r *AuditLogRepo) CreateBatch(logs []*entity.InvoiceAuditLog) error {
	for _, log := range logs {
		if err := r.Create(log); err != nil {
			return err
		}
	}
	return nil
}

// ListByInvoice entradas de una factura, más recientes primero.
func (r *AuditLogRepo) ListByInvoice(invoiceID string) ([]*entity.InvoiceAuditLog, error) {
	query := `
		SELECT id, invoice_id, field_changed, previous_value, new_value, timestamp
		FROM invoice_audit_logs WHERE invoice_id = $1 ORDER BY timestamp DESC`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceAuditLog
	for rows.Next() {
		var l entity.InvoiceAuditLog
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.FieldChanged, &l.PreviousValue, &l.NewValue, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
