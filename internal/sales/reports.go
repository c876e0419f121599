package sales

import (
	"context"
	"sort"
	"strconv"
	"time"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/clock"
	"dinesight-backend/internal/models"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// NoPopularItem is reported when the ledger is empty.
const NoPopularItem = "N/A"

type PeriodTotals struct {
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type Summary struct {
	Today       PeriodTotals `json:"today"`
	Month       PeriodTotals `json:"month"`
	PopularItem string       `json:"popular_item"`
}

type CategoryPerformance struct {
	Category  string  `json:"category"`
	Orders    int64   `json:"orders"`
	ItemsSold int64   `json:"items_sold"`
	Revenue   float64 `json:"revenue"`
}

type HourlyBucket struct {
	Hour    int     `json:"hour"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type DailyBucket struct {
	Date    string  `json:"date"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type Insights struct {
	PeakHour          string    `json:"peak_hour"`
	BestDay           string    `json:"best_day"`
	AverageOrderValue float64   `json:"average_order_value"`
	GrowthPercent     float64   `json:"growth_percent"`
	WeekBestDay       *DayTotal `json:"week_best_day,omitempty"`
	WeekSlowestDay    *DayTotal `json:"week_slowest_day,omitempty"`
}

// Reports answers read-only questions about the sales ledger.
type Reports struct {
	store *catalog.Store
	clock clock.Clock
}

func NewReports(store *catalog.Store, clk clock.Clock) *Reports {
	return &Reports{store: store, clock: clk}
}

func (r *Reports) List(ctx context.Context, f catalog.SaleFilter) ([]models.Sale, error) {
	if f.From != "" {
		if _, err := time.Parse(DateLayout, f.From); err != nil {
			return nil, apperr.Validation("from", "must be YYYY-MM-DD")
		}
	}
	if f.To != "" {
		if _, err := time.Parse(DateLayout, f.To); err != nil {
			return nil, apperr.Validation("to", "must be YYYY-MM-DD")
		}
	}
	return r.store.ListSales(ctx, f)
}

// Summary reports today's and this month's totals and the item sold in the largest quantity.
func (r *Reports) Summary(ctx context.Context) (*Summary, error) {
	now := r.clock.Now()
	db := r.store.DB(ctx)

	var out Summary
	if err := db.Model(&models.Sale{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("order_date = ?", now.Format(DateLayout)).
		Scan(&out.Today).Error; err != nil {
		return nil, apperr.Storage("today summary", err)
	}
	if err := db.Model(&models.Sale{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("order_date LIKE ?", now.Format("2006-01")+"-%").
		Scan(&out.Month).Error; err != nil {
		return nil, apperr.Storage("month summary", err)
	}

	popular, err := r.popularItem(ctx)
	if err != nil {
		return nil, err
	}
	out.PopularItem = popular
	out.Today.Revenue = money(out.Today.Revenue)
	out.Month.Revenue = money(out.Month.Revenue)
	return &out, nil
}

// popularItem names the item sold in the largest total quantity, ties going to
// the alphabetically first name.
func (r *Reports) popularItem(ctx context.Context) (string, error) {
	var popular []struct {
		ItemName  string
		TotalSold int64
	}
	if err := r.store.DB(ctx).Model(&models.Sale{}).
		Select("item_name, SUM(quantity) AS total_sold").
		Group("item_name").
		Order("total_sold desc, item_name asc").
		Limit(1).
		Scan(&popular).Error; err != nil {
		return "", apperr.Storage("popular item", err)
	}
	if len(popular) == 0 {
		return NoPopularItem, nil
	}
	return popular[0].ItemName, nil
}

func (r *Reports) CategoryPerformance(ctx context.Context) ([]CategoryPerformance, error) {
	var rows []CategoryPerformance
	err := r.store.DB(ctx).Model(&models.Sale{}).
		Select("category, COUNT(*) AS orders, COALESCE(SUM(quantity), 0) AS items_sold, COALESCE(SUM(total_amount), 0) AS revenue").
		Group("category").
		Order("revenue desc").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("category performance", err)
	}
	for i := range rows {
		rows[i].Revenue = money(rows[i].Revenue)
	}
	return rows, nil
}

// HourlyPattern groups every sale by the hour of its order time.
func (r *Reports) HourlyPattern(ctx context.Context) ([]HourlyBucket, error) {
	var rows []struct {
		Hour    string
		Orders  int64
		Revenue float64
	}
	err := r.store.DB(ctx).Model(&models.Sale{}).
		Select("SUBSTR(order_time, 1, 2) AS hour, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue").
		Group("SUBSTR(order_time, 1, 2)").
		Order("hour asc").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("hourly pattern", err)
	}

	out := make([]HourlyBucket, 0, len(rows))
	for _, row := range rows {
		h, err := strconv.Atoi(row.Hour)
		if err != nil {
			continue
		}
		out = append(out, HourlyBucket{Hour: h, Orders: row.Orders, Revenue: money(row.Revenue)})
	}
	return out, nil
}

// DailyTrend returns one bucket per day with sales over the last days days, oldest first.
func (r *Reports) DailyTrend(ctx context.Context, days int) ([]DailyBucket, error) {
	if days <= 0 {
		return nil, apperr.Validation("days", "must be greater than zero")
	}
	since := clock.StartOfDay(r.clock.Now()).AddDate(0, 0, -days).Format(DateLayout)

	var rows []DailyBucket
	err := r.store.DB(ctx).Model(&models.Sale{}).
		Select("order_date AS date, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("order_date >= ?", since).
		Group("order_date").
		Order("order_date asc").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("daily trend", err)
	}
	for i := range rows {
		rows[i].Revenue = money(rows[i].Revenue)
	}
	return rows, nil
}

// Insights derives the peak hour, the best weekday, the average order value, the
// revenue growth of the last 30 days against the 30 days before them and the
// best and slowest dates of the past week.
func (r *Reports) Insights(ctx context.Context) (*Insights, error) {
	out := &Insights{PeakHour: NoPopularItem, BestDay: NoPopularItem}

	hourly, err := r.HourlyPattern(ctx)
	if err != nil {
		return nil, err
	}
	if len(hourly) > 0 {
		best := hourly[0]
		for _, h := range hourly[1:] {
			if h.Orders > best.Orders {
				best = h
			}
		}
		out.PeakHour = FormatHour(best.Hour)
	}

	all, err := r.store.ListSales(ctx, catalog.SaleFilter{})
	if err != nil {
		return nil, err
	}
	if len(all) > 0 {
		byDay := map[string]decimal.Decimal{}
		total := decimal.Zero
		for _, s := range all {
			amt := decimal.NewFromFloat(s.TotalAmount)
			byDay[s.DayOfWeek] = byDay[s.DayOfWeek].Add(amt)
			total = total.Add(amt)
		}
		days := make([]string, 0, len(byDay))
		for d := range byDay {
			days = append(days, d)
		}
		sort.Strings(days)
		best := days[0]
		for _, d := range days[1:] {
			if byDay[d].GreaterThan(byDay[best]) {
				best = d
			}
		}
		out.BestDay = best
		out.AverageOrderValue = total.Div(decimal.NewFromInt(int64(len(all)))).Round(2).InexactFloat64()
	}

	today := clock.StartOfDay(r.clock.Now())
	recent, err := r.revenueBetween(ctx, today.AddDate(0, 0, -29), today)
	if err != nil {
		return nil, err
	}
	previous, err := r.revenueBetween(ctx, today.AddDate(0, 0, -59), today.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	if previous.IsPositive() {
		out.GrowthPercent = recent.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}

	out.WeekBestDay, out.WeekSlowestDay, err = r.weekHighlights(ctx)
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *Reports) revenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total float64
	err := r.store.DB(ctx).Model(&models.Sale{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("order_date BETWEEN ? AND ?", from.Format(DateLayout), to.Format(DateLayout)).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, apperr.Storage("revenue between", err)
	}
	return decimal.NewFromFloat(total), nil
}

// FormatHour renders 0..23 as a 12 hour clock label, e.g. 13 -> "1 PM".
func FormatHour(h int) string {
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return strconv.Itoa(h12) + " " + suffix
}

func money(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
