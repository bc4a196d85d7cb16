package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusTotal conteo y suma de montos de un estado de factura.
type StatusTotal struct {
	Status string
	Count  int64
	Amount decimal.Decimal
}

// MonthlyRevenue ingresos de un mes calendario (por fecha de creación de la
// factura). Los meses sin facturas no aparecen.
type MonthlyRevenue struct {
	Month   time.Time
	Revenue decimal.Decimal
	Count   int64
}

// StatsRepository consultas de solo lectura para el dashboard.
type StatsRepository interface {
	CountCustomers(ctx context.Context) (int64, error)
	// TotalsByStatus agrupa facturas por estado (conteo + suma de amount).
	TotalsByStatus(ctx context.Context) ([]StatusTotal, error)
	// MonthlyRevenue serie mensual desde `since`, ascendente por mes.
	MonthlyRevenue(ctx context.Context, since time.Time) ([]MonthlyRevenue, error)
}
