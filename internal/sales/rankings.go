package sales

import (
	"context"
	"time"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/clock"
	"dinesight-backend/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultTopItems is how many items TopItems returns when no limit is given.
const DefaultTopItems = 5

type TopItem struct {
	Rank      int     `json:"rank"`
	ItemName  string  `json:"item_name"`
	Category  string  `json:"category"`
	TotalSold int64   `json:"total_sold"`
	Revenue   float64 `json:"revenue"`
}

type WeekdayBucket struct {
	Day     string  `json:"day"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
	Best    bool    `json:"best"`
}

type DayTotal struct {
	Date      string  `json:"date"`
	DayOfWeek string  `json:"day_of_week"`
	Revenue   float64 `json:"revenue"`
}

type MenuStats struct {
	TotalItems     int64   `json:"total_items"`
	AvailableItems int64   `json:"available_items"`
	Categories     int64   `json:"categories"`
	AveragePrice   float64 `json:"average_price"`
	MostPopular    string  `json:"most_popular"`
}

// weekdays is the Monday-first order of the weekly pattern.
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// TopItems ranks items by total quantity sold, ties by name. n must be positive.
func (r *Reports) TopItems(ctx context.Context, n int) ([]TopItem, error) {
	if n <= 0 {
		return nil, apperr.Validation("limit", "must be greater than zero")
	}

	var rows []TopItem
	err := r.store.DB(ctx).Model(&models.Sale{}).
		Select("item_name, MIN(category) AS category, SUM(quantity) AS total_sold, COALESCE(SUM(total_amount), 0) AS revenue").
		Group("item_name").
		Order("total_sold desc, item_name asc").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("top items", err)
	}
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].Revenue = money(rows[i].Revenue)
	}
	return rows, nil
}

// WeekdayPattern returns revenue per weekday, Monday first, with all seven days
// present. The highest-revenue day is flagged; ties go to the earlier day.
func (r *Reports) WeekdayPattern(ctx context.Context) ([]WeekdayBucket, error) {
	var rows []struct {
		DayOfWeek string
		Orders    int64
		Revenue   float64
	}
	err := r.store.DB(ctx).Model(&models.Sale{}).
		Select("day_of_week, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue").
		Group("day_of_week").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("weekday pattern", err)
	}

	byDay := make(map[string]WeekdayBucket, len(rows))
	for _, row := range rows {
		byDay[row.DayOfWeek] = WeekdayBucket{Day: row.DayOfWeek, Orders: row.Orders, Revenue: money(row.Revenue)}
	}

	out := make([]WeekdayBucket, 0, len(weekdays))
	best := -1
	for i, d := range weekdays {
		b, ok := byDay[d.String()]
		if !ok {
			b = WeekdayBucket{Day: d.String()}
		}
		if b.Orders > 0 && (best < 0 || b.Revenue > out[best].Revenue) {
			best = i
		}
		out = append(out, b)
	}
	if best >= 0 {
		out[best].Best = true
	}
	return out, nil
}

// weekHighlights picks the best and slowest dates by revenue from the seven
// days before today through today. Both are nil unless at least two dates had
// sales and their totals differ.
func (r *Reports) weekHighlights(ctx context.Context) (best, slowest *DayTotal, err error) {
	today := clock.StartOfDay(r.clock.Now())

	var rows []DayTotal
	err = r.store.DB(ctx).Model(&models.Sale{}).
		Select("order_date AS date, MIN(day_of_week) AS day_of_week, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("order_date BETWEEN ? AND ?", today.AddDate(0, 0, -7).Format(DateLayout), today.Format(DateLayout)).
		Group("order_date").
		Order("order_date asc").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, apperr.Storage("week highlights", err)
	}
	if len(rows) < 2 {
		return nil, nil, nil
	}

	hi, lo := 0, 0
	for i := 1; i < len(rows); i++ {
		if decimal.NewFromFloat(rows[i].Revenue).GreaterThan(decimal.NewFromFloat(rows[hi].Revenue)) {
			hi = i
		}
		if decimal.NewFromFloat(rows[i].Revenue).LessThan(decimal.NewFromFloat(rows[lo].Revenue)) {
			lo = i
		}
	}
	if hi == lo || rows[hi].Revenue == rows[lo].Revenue {
		return nil, nil, nil
	}

	b, s := rows[hi], rows[lo]
	b.Revenue = money(b.Revenue)
	s.Revenue = money(s.Revenue)
	return &b, &s, nil
}

// MenuStats summarizes the menu: item counts, distinct non-empty categories,
// the mean price and the best seller.
func (r *Reports) MenuStats(ctx context.Context) (*MenuStats, error) {
	var row struct {
		TotalItems     int64
		AvailableItems int64
		Categories     int64
		AveragePrice   float64
	}
	err := r.store.DB(ctx).Model(&models.MenuItem{}).
		Select("COUNT(*) AS total_items, " +
			"COALESCE(SUM(CASE WHEN is_available THEN 1 ELSE 0 END), 0) AS available_items, " +
			"COUNT(DISTINCT NULLIF(category, '')) AS categories, " +
			"COALESCE(AVG(price), 0) AS average_price").
		Scan(&row).Error
	if err != nil {
		return nil, apperr.Storage("menu stats", err)
	}

	popular, err := r.popularItem(ctx)
	if err != nil {
		return nil, err
	}

	return &MenuStats{
		TotalItems:     row.TotalItems,
		AvailableItems: row.AvailableItems,
		Categories:     row.Categories,
		AveragePrice:   money(row.AveragePrice),
		MostPopular:    popular,
	}, nil
}
