// Package dashboard builds the bucketed sales chart shown on the back-office home page.
package dashboard

import (
	"context"
	"sort"
	"time"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/clock"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

const dateLayout = "2006-01-02"

type SalesChartPoint struct {
	Label      string             `json:"label"` // gün / hafta başlangıcı (pazartesi) / ay başlangıcı
	Orders     int64              `json:"orders"`
	ItemsSold  int64              `json:"items_sold"`
	Revenue    float64            `json:"revenue"`
	ByCategory map[string]float64 `json:"by_category"`
}

type SalesChartGrandTotals struct {
	Orders    int64   `json:"orders"`
	ItemsSold int64   `json:"items_sold"`
	Revenue   float64 `json:"revenue"`
}

type SalesChartResponse struct {
	Period      string                `json:"period"` // daily | weekly | monthly
	From        string                `json:"from"`
	To          string                `json:"to"`
	Points      []SalesChartPoint     `json:"points"`
	GrandTotals SalesChartGrandTotals `json:"grand_totals"`
}

type Chart struct {
	store *catalog.Store
	clock clock.Clock
}

func NewChart(store *catalog.Store, clk clock.Clock) *Chart {
	return &Chart{store: store, clock: clk}
}

// defaultCount: period verilip count verilmezse kullanılan nokta sayısı
func defaultCount(period string) int {
	switch period {
	case PeriodWeekly:
		return 8
	case PeriodMonthly:
		return 12
	default:
		return 7
	}
}

// window returns the first and last day (inclusive) covered by count buckets ending today.
func window(period string, count int, now time.Time) (time.Time, time.Time) {
	today := clock.StartOfDay(now)
	switch period {
	case PeriodWeekly:
		end := startOfWeek(today)
		return end.AddDate(0, 0, -7*(count-1)), today
	case PeriodMonthly:
		end := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return end.AddDate(0, -(count - 1), 0), today
	default:
		return today.AddDate(0, 0, -(count - 1)), today
	}
}

func startOfWeek(t time.Time) time.Time {
	// pazartesi = 0
	offset := (int(t.Weekday()) + 6) % 7
	return clock.StartOfDay(t).AddDate(0, 0, -offset)
}

func bucketOf(period string, day time.Time) time.Time {
	switch period {
	case PeriodWeekly:
		return startOfWeek(day)
	case PeriodMonthly:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	default:
		return day
	}
}

// SalesChart groups sales into count consecutive buckets ending with the
// current one. Buckets without sales are present with zero totals.
func (ch *Chart) SalesChart(ctx context.Context, period string, count int) (*SalesChartResponse, error) {
	switch period {
	case "":
		period = PeriodDaily
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		return nil, apperr.Validation("period", "must be daily, weekly or monthly")
	}
	if count == 0 {
		count = defaultCount(period)
	}
	if count < 0 {
		return nil, apperr.Validation("count", "must be greater than zero")
	}

	now := ch.clock.Now()
	start, end := window(period, count, now)

	sales, err := ch.store.ListSales(ctx, catalog.SaleFilter{
		From: start.Format(dateLayout),
		To:   end.Format(dateLayout),
	})
	if err != nil {
		return nil, err
	}

	type bucketAgg struct {
		orders     int64
		items      int64
		revenue    decimal.Decimal
		byCategory map[string]decimal.Decimal
	}

	buckets := make(map[string]*bucketAgg, count)
	labels := make([]string, 0, count)
	for i := 0; i < count; i++ {
		var b time.Time
		switch period {
		case PeriodWeekly:
			b = start.AddDate(0, 0, 7*i)
		case PeriodMonthly:
			b = start.AddDate(0, i, 0)
		default:
			b = start.AddDate(0, 0, i)
		}
		label := b.Format(dateLayout)
		labels = append(labels, label)
		buckets[label] = &bucketAgg{byCategory: map[string]decimal.Decimal{}}
	}

	for _, s := range sales {
		day, err := time.ParseInLocation(dateLayout, s.OrderDate, now.Location())
		if err != nil {
			continue
		}
		agg, ok := buckets[bucketOf(period, day).Format(dateLayout)]
		if !ok {
			continue
		}
		amt := decimal.NewFromFloat(s.TotalAmount)
		agg.orders++
		agg.items += int64(s.Quantity)
		agg.revenue = agg.revenue.Add(amt)
		agg.byCategory[s.Category] = agg.byCategory[s.Category].Add(amt)
	}

	sort.Strings(labels)

	resp := &SalesChartResponse{
		Period: period,
		From:   start.Format(dateLayout),
		To:     end.Format(dateLayout),
		Points: make([]SalesChartPoint, 0, len(labels)),
	}
	grand := decimal.Zero
	for _, label := range labels {
		agg := buckets[label]
		byCat := make(map[string]float64, len(agg.byCategory))
		for cat, v := range agg.byCategory {
			byCat[cat] = v.Round(2).InexactFloat64()
		}
		resp.Points = append(resp.Points, SalesChartPoint{
			Label:      label,
			Orders:     agg.orders,
			ItemsSold:  agg.items,
			Revenue:    agg.revenue.Round(2).InexactFloat64(),
			ByCategory: byCat,
		})
		resp.GrandTotals.Orders += agg.orders
		resp.GrandTotals.ItemsSold += agg.items
		grand = grand.Add(agg.revenue)
	}
	resp.GrandTotals.Revenue = grand.Round(2).InexactFloat64()

	return resp, nil
}

// GET /api/dashboard/sales-chart?period=daily&count=7
func SalesChartHandler(ch *Chart) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count := c.QueryInt("count", 0)
		if c.Query("count") != "" && count <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "count geçersiz")
		}

		resp, err := ch.SalesChart(c.UserContext(), c.Query("period", PeriodDaily), count)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(resp)
	}
}
