package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/cartera-pro/internal/application/dto"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

// StatsUseCase rollups de solo lectura para el dashboard.
type StatsUseCase struct {
	statsRepo repository.StatsRepository
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(statsRepo repository.StatsRepository) *StatsUseCase {
	return &StatsUseCase{statsRepo: statsRepo}
}

// Aggregate calcula los KPIs del dashboard:
//   - total_revenue suma solo facturas PAID, pending_revenue solo PENDING y
//     overdue_revenue solo PAST_DUE; CANCELLED cuenta en los conteos pero no
//     en ninguno de los tres ingresos.
//   - monthly_revenue cubre los últimos seis meses calendario por fecha de
//     creación de la factura; los meses sin facturas se omiten.
func (uc *StatsUseCase) Aggregate(ctx context.Context) (*dto.StatsResponse, error) {
	totalCustomers, err := uc.statsRepo.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := uc.statsRepo.TotalsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.StatsResponse{
		TotalCustomers:   totalCustomers,
		TotalRevenue:     decimal.Zero,
		PendingRevenue:   decimal.Zero,
		OverdueRevenue:   decimal.Zero,
		InvoicesByStatus: make(map[string]int64, len(totals)),
	}
	for _, t := range totals {
		resp.TotalInvoices += t.Count
		resp.InvoicesByStatus[t.Status] = t.Count
		switch t.Status {
		case entity.StatusPaid:
			resp.TotalRevenue = resp.TotalRevenue.Add(t.Amount)
		case entity.StatusPending:
			resp.PendingRevenue = resp.PendingRevenue.Add(t.Amount)
		case entity.StatusPastDue:
			resp.OverdueRevenue = resp.OverdueRevenue.Add(t.Amount)
		}
	}

	since := time.Now().AddDate(0, -6, 0)
	months, err := uc.statsRepo.MonthlyRevenue(ctx, since)
	if err != nil {
		return nil, err
	}
	resp.MonthlyRevenue = make([]dto.MonthlyRevenueDTO, 0, len(months))
	for _, m := range months {
		resp.MonthlyRevenue = append(resp.MonthlyRevenue, dto.MonthlyRevenueDTO{
			Month:   m.Month,
			Revenue: m.Revenue,
			Count:   m.Count,
		})
	}
	return resp, nil
}
