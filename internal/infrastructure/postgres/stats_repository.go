package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de solo lectura para el dashboard.
type StatsRepo struct {
	pool *pgxpool.Pool
}

// NewStatsRepository construye el adaptador de estadísticas.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// CountCustomers total de clientes registrados.
func (r *StatsRepo) CountCustomers(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("stats.CountCustomers: %w", err)
	}
	return total, nil
}

// TotalsByStatus agrupa facturas por estado con conteo y suma de montos.
// Usa COALESCE para devolver cero si el grupo no tiene montos.
func (r *StatsRepo) TotalsByStatus(ctx context.Context) ([]repository.StatusTotal, error) {
	const query = `
	SELECT status,
	       COUNT(*)                 AS count,
	       COALESCE(SUM(amount), 0) AS amount
	FROM invoices
	GROUP BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats.TotalsByStatus: %w", err)
	}
	defer rows.Close()

	var results []repository.StatusTotal
	for rows.Next() {
		var row repository.StatusTotal
		if err := rows.Scan(&row.Status, &row.Count, &row.Amount); err != nil {
			return nil, fmt.Errorf("stats.TotalsByStatus scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// MonthlyRevenue serie mensual de ingresos por fecha de creación de la
// factura, ascendente. Los meses sin facturas no devuelven fila.
func (r *StatsRepo) MonthlyRevenue(ctx context.Context, since time.Time) ([]repository.MonthlyRevenue, error) {
	const query = `
	SELECT DATE_TRUNC('month', created_at) AS month,
	       COALESCE(SUM(amount), 0)        AS revenue,
	       COUNT(*)                        AS count
	FROM invoices
	WHERE created_at >= $1
	GROUP BY DATE_TRUNC('month', created_at)
	ORDER BY month ASC`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("stats.MonthlyRevenue: %w", err)
	}
	defer rows.Close()

	var results []repository.MonthlyRevenue
	for rows.Next() {
		var row repository.MonthlyRevenue
		if err := rows.Scan(&row.Month, &row.Revenue, &row.Count); err != nil {
			return nil, fmt.Errorf("stats.MonthlyRevenue scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
