package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/cartera-pro/internal/domain"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, customer_id, external_id, amount, status, due_date, description, created_at, updated_at`

// Create persiste una factura nueva. El índice único (customer_id,
// external_id) convierte la colisión en domain.ErrDuplicate.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, customer_id, external_id, amount, status, due_date, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.CustomerID, nullIfEmpty(invoice.ExternalID),
		invoice.Amount, invoice.Status, invoice.DueDate, invoice.Description,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID. Devuelve (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByCustomerAndExternalID busca la factura del cliente con ese external_id.
// Devuelve (nil, nil) si no existe.
func (r *InvoiceRepo) GetByCustomerAndExternalID(customerID, externalID string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE customer_id = $1 AND external_id = $2`
	inv, err := r.scanOne(r.q.QueryRow(context.Background(), query, customerID, externalID))
	if err != nil {
		return nil, fmt.Errorf("get invoice by external_id: %w", err)
	}
	return inv, nil
}

// List lista facturas con filtros opcionales, más recientes primero.
func (r *InvoiceRepo) List(filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	where, args := filterClauses(filter)
	query += where
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Count cuenta facturas con los mismos filtros que List.
func (r *InvoiceRepo) Count(filter repository.InvoiceFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM invoices`
	where, args := filterClauses(filter)
	query += where
	var total int64
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return total, nil
}

// ListByCustomer facturas de un cliente, más recientes primero.
func (r *InvoiceRepo) ListByCustomer(customerID string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE customer_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list invoices by customer: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Update actualiza todos los campos mutables de la factura.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET external_id = $2,
		    amount      = $3,
		    status      = $4,
		    due_date    = $5,
		    description = $6,
		    updated_at  = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, nullIfEmpty(invoice.ExternalID), invoice.Amount,
		invoice.Status, invoice.DueDate, invoice.Description, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// Delete elimina la factura; los logs de auditoría caen por FK en cascada.
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// ListOverduePending facturas PENDING con due_date anterior a cutoff.
func (r *InvoiceRepo) ListOverduePending(cutoff time.Time) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status = $1 AND due_date < $2`
	rows, err := r.q.Query(context.Background(), query, entity.StatusPending, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list overdue invoices: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// MarkPastDueIfPending transición condicional PENDING -> PAST_DUE. El WHERE
// sobre el estado actual hace la operación segura ante barridas concurrentes:
// solo una gana; las demás ven 0 filas afectadas.
func (r *InvoiceRepo) MarkPastDueIfPending(id string, now time.Time) (bool, error) {
	query := `
		UPDATE invoices SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4`
	tag, err := r.q.Exec(context.Background(), query, id, entity.StatusPastDue, now, entity.StatusPending)
	if err != nil {
		return false, fmt.Errorf("mark invoice past due: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func filterClauses(filter repository.InvoiceFilter) (string, []any) {
	var clauses []string
	var args []any
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	where := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

func (r *InvoiceRepo) scanOne(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var externalID *string
	err := row.Scan(
		&inv.ID, &inv.CustomerID, &externalID, &inv.Amount, &inv.Status,
		&inv.DueDate, &inv.Description, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	inv.ExternalID = derefStr(externalID)
	return &inv, nil
}

func (r *InvoiceRepo) scanAll(rows pgx.Rows) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		var externalID *string
		if err := rows.Scan(
			&inv.ID, &inv.CustomerID, &externalID, &inv.Amount, &inv.Status,
			&inv.DueDate, &inv.Description, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.ExternalID = derefStr(externalID)
		list = append(list, &inv)
	}
	return list, rows.Err()
}
