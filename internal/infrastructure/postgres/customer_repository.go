package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/cartera-pro/internal/domain"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, name, email, phone, address, external_id, created_at, updated_at`

// Create persiste un nuevo cliente. El índice único sobre external_id
// convierte la colisión en domain.ErrDuplicate.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO customers (id, name, email, phone, address, external_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.Email, customer.Phone, customer.Address,
		nullIfEmpty(customer.ExternalID), customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID. Devuelve (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByExternalID obtiene un cliente por su identificador externo (único
// global). Devuelve (nil, nil) si no existe.
func (r *CustomerRepo) GetByExternalID(externalID string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE external_id = $1`
	c, err := r.scanOne(r.q.QueryRow(context.Background(), query, externalID))
	if err != nil {
		return nil, fmt.Errorf("get customer by external_id: %w", err)
	}
	return c, nil
}

// List lista clientes con los acumulados de sus facturas, filtrando por
// nombre o email (case-insensitive) si search no está vacío.
func (r *CustomerRepo) List(search string, limit, offset int) ([]*repository.CustomerWithTotals, error) {
	query := `
		SELECT c.id, c.name, c.email, c.phone, c.address, c.external_id, c.created_at, c.updated_at,
		       COUNT(i.id)                                                                  AS invoice_count,
		       COALESCE(SUM(i.amount), 0)                                                   AS total_amount,
		       COALESCE(SUM(i.amount) FILTER (WHERE i.status IN ('PENDING', 'PAST_DUE')), 0) AS outstanding_amount
		FROM customers c
		LEFT JOIN invoices i ON i.customer_id = c.id
		WHERE $1 = '' OR c.name ILIKE '%' || $1 || '%' OR c.email ILIKE '%' || $1 || '%'
		GROUP BY c.id, c.name, c.email, c.phone, c.address, c.external_id, c.created_at, c.updated_at
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var list []*repository.CustomerWithTotals
	for rows.Next() {
		var item repository.CustomerWithTotals
		var externalID *string
		if err := rows.Scan(
			&item.Customer.ID, &item.Customer.Name, &item.Customer.Email,
			&item.Customer.Phone, &item.Customer.Address, &externalID,
			&item.Customer.CreatedAt, &item.Customer.UpdatedAt,
			&item.InvoiceCount, &item.TotalAmount, &item.OutstandingAmount,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		item.Customer.ExternalID = derefStr(externalID)
		list = append(list, &item)
	}
	return list, rows.Err()
}

// Count cuenta clientes con el mismo filtro de búsqueda que List.
func (r *CustomerRepo) Count(search string) (int64, error) {
	query := `
		SELECT COUNT(*) FROM customers
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'`
	var total int64
	if err := r.q.QueryRow(context.Background(), query, search).Scan(&total); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return total, nil
}

// Update actualiza un cliente.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, address = $5, external_id = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.Email, customer.Phone, customer.Address,
		nullIfEmpty(customer.ExternalID), customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// Delete elimina un cliente; sus facturas y los logs de auditoría de estas
// caen por FK en cascada.
func (r *CustomerRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) scanOne(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var externalID *string
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &externalID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.ExternalID = derefStr(externalID)
	return &c, nil
}
