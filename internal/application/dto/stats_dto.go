package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatsResponse respuesta de GET /api/stats: KPIs del dashboard.
// totalRevenue suma solo PAID, pendingRevenue solo PENDING y overdueRevenue
// solo PAST_DUE; CANCELLED queda fuera de los tres.
type StatsResponse struct {
	TotalCustomers   int64               `json:"total_customers"`
	TotalInvoices    int64               `json:"total_invoices"`
	TotalRevenue     decimal.Decimal     `json:"total_revenue"`
	PendingRevenue   decimal.Decimal     `json:"pending_revenue"`
	OverdueRevenue   decimal.Decimal     `json:"overdue_revenue"`
	InvoicesByStatus map[string]int64    `json:"invoices_by_status"`
	MonthlyRevenue   []MonthlyRevenueDTO `json:"monthly_revenue"`
}

// MonthlyRevenueDTO un mes de la serie de ingresos (últimos seis meses
// calendario, por fecha de creación; los meses sin facturas se omiten).
type MonthlyRevenueDTO struct {
	Month   time.Time       `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int64           `json:"count"`
}
