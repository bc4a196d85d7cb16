package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/cartera-pro/internal/application/analytics"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

// fakeStatsRepo devuelve datos precargados.
type fakeStatsRepo struct {
	customers int64
	totals    []repository.StatusTotal
	monthly   []repository.MonthlyRevenue
	since     time.Time
}

func (r *fakeStatsRepo) CountCustomers(_ context.Context) (int64, error) {
	return r.customers, nil
}

func (r *fakeStatsRepo) TotalsByStatus(_ context.Context) ([]repository.StatusTotal, error) {
	return r.totals, nil
}

func (r *fakeStatsRepo) MonthlyRevenue(_ context.Context, since time.Time) ([]repository.MonthlyRevenue, error) {
	r.since = since
	return r.monthly, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Tests Aggregate
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_RepartoDeIngresosPorEstado(t *testing.T) {
	month := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeStatsRepo{
		customers: 4,
		totals: []repository.StatusTotal{
			{Status: "PAID", Count: 2, Amount: dec("100")},
			{Status: "PENDING", Count: 3, Amount: dec("50")},
			{Status: "PAST_DUE", Count: 1, Amount: dec("25")},
			{Status: "CANCELLED", Count: 1, Amount: dec("10")},
		},
		monthly: []repository.MonthlyRevenue{
			{Month: month, Revenue: dec("185"), Count: 7},
		},
	}
	uc := analytics.NewStatsUseCase(repo)

	resp, err := uc.Aggregate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), resp.TotalCustomers)
	assert.Equal(t, int64(7), resp.TotalInvoices, "el total cuenta todos los estados, CANCELLED incluido")
	assert.True(t, resp.TotalRevenue.Equal(dec("100")), "total_revenue suma solo PAID")
	assert.True(t, resp.PendingRevenue.Equal(dec("50")), "pending_revenue suma solo PENDING")
	assert.True(t, resp.OverdueRevenue.Equal(dec("25")), "overdue_revenue suma solo PAST_DUE")

	assert.Equal(t, map[string]int64{
		"PAID": 2, "PENDING": 3, "PAST_DUE": 1, "CANCELLED": 1,
	}, resp.InvoicesByStatus)

	require.Len(t, resp.MonthlyRevenue, 1)
	assert.Equal(t, month, resp.MonthlyRevenue[0].Month)
	assert.True(t, resp.MonthlyRevenue[0].Revenue.Equal(dec("185")))
	assert.Equal(t, int64(7), resp.MonthlyRevenue[0].Count)
}

func TestAggregate_VentanaDeSeisMeses(t *testing.T) {
	repo := &fakeStatsRepo{}
	uc := analytics.NewStatsUseCase(repo)

	_, err := uc.Aggregate(context.Background())
	require.NoError(t, err)

	want := time.Now().AddDate(0, -6, 0)
	assert.WithinDuration(t, want, repo.since, time.Minute,
		"la serie mensual arranca seis meses calendario atrás")
}

func TestAggregate_SinFacturas_TodoEnCero(t *testing.T) {
	uc := analytics.NewStatsUseCase(&fakeStatsRepo{customers: 2})

	resp, err := uc.Aggregate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.TotalCustomers)
	assert.Zero(t, resp.TotalInvoices)
	assert.True(t, resp.TotalRevenue.IsZero())
	assert.True(t, resp.PendingRevenue.IsZero())
	assert.True(t, resp.OverdueRevenue.IsZero())
	assert.Empty(t, resp.MonthlyRevenue)
	assert.Empty(t, resp.InvoicesByStatus)
}
