package dashboard_test

import (
	"context"
	"testing"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/catalog/catalogtest"
	"dinesight-backend/internal/dashboard"
	"dinesight-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, ch func(date, category string, qty int, total float64)) {
	t.Helper()
	ch("2026-10-19", "Bakery", 2, 6)
	ch("2026-10-19", "Drinks", 1, 2)
	ch("2026-10-16", "Bakery", 1, 3)
	ch("2026-10-05", "Drinks", 4, 8)
	ch("2026-08-30", "Bakery", 1, 3)
}

func newChart(t *testing.T) *dashboard.Chart {
	t.Helper()
	s, clk := catalogtest.NewStore(t)
	n := 0
	seed(t, func(date, category string, qty int, total float64) {
		n++
		require.NoError(t, s.CreateSale(context.Background(), &models.Sale{
			ReceiptID:   "r" + string(rune('a'+n)),
			ItemName:    "x",
			Category:    category,
			Quantity:    qty,
			TotalAmount: total,
			OrderedAt:   catalogtest.Epoch,
			OrderDate:   date,
			OrderTime:   "12:00:00",
		}))
	})
	return dashboard.NewChart(s, clk)
}

func TestSalesChart_DailyDefaults(t *testing.T) {
	ch := newChart(t)

	resp, err := ch.SalesChart(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, dashboard.PeriodDaily, resp.Period)
	assert.Equal(t, "2026-10-13", resp.From)
	assert.Equal(t, "2026-10-19", resp.To)
	require.Len(t, resp.Points, 7)

	last := resp.Points[6]
	assert.Equal(t, "2026-10-19", last.Label)
	assert.EqualValues(t, 2, last.Orders)
	assert.EqualValues(t, 3, last.ItemsSold)
	assert.Equal(t, 8.0, last.Revenue)
	assert.Equal(t, map[string]float64{"Bakery": 6, "Drinks": 2}, last.ByCategory)

	assert.Equal(t, "2026-10-16", resp.Points[3].Label)
	assert.Equal(t, 3.0, resp.Points[3].Revenue)
	assert.Zero(t, resp.Points[0].Orders)

	assert.EqualValues(t, 3, resp.GrandTotals.Orders)
	assert.Equal(t, 11.0, resp.GrandTotals.Revenue)
}

func TestSalesChart_Weekly(t *testing.T) {
	ch := newChart(t)

	resp, err := ch.SalesChart(context.Background(), dashboard.PeriodWeekly, 3)
	require.NoError(t, err)
	require.Len(t, resp.Points, 3)
	assert.Equal(t, "2026-10-05", resp.Points[0].Label)
	assert.Equal(t, 8.0, resp.Points[0].Revenue)
	assert.Equal(t, "2026-10-12", resp.Points[1].Label)
	assert.Equal(t, 3.0, resp.Points[1].Revenue)
	assert.Equal(t, "2026-10-19", resp.Points[2].Label)
	assert.Equal(t, 8.0, resp.Points[2].Revenue)
	assert.Equal(t, 19.0, resp.GrandTotals.Revenue)
}

func TestSalesChart_Monthly(t *testing.T) {
	ch := newChart(t)

	resp, err := ch.SalesChart(context.Background(), dashboard.PeriodMonthly, 3)
	require.NoError(t, err)
	require.Len(t, resp.Points, 3)
	assert.Equal(t, "2026-08-01", resp.Points[0].Label)
	assert.Equal(t, 3.0, resp.Points[0].Revenue)
	assert.Equal(t, "2026-09-01", resp.Points[1].Label)
	assert.Zero(t, resp.Points[1].Revenue)
	assert.Equal(t, "2026-10-01", resp.Points[2].Label)
	assert.Equal(t, 19.0, resp.Points[2].Revenue)
	assert.EqualValues(t, 5, resp.GrandTotals.Orders)
}

func TestSalesChart_Rejects(t *testing.T) {
	ch := newChart(t)

	_, err := ch.SalesChart(context.Background(), "yearly", 2)
	assert.True(t, apperr.IsValidation(err))

	_, err = ch.SalesChart(context.Background(), dashboard.PeriodDaily, -1)
	assert.True(t, apperr.IsValidation(err))
}
