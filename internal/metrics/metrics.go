package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors updated by the availability engine and sale coordinator.
type Metrics struct {
	SalesRecorded     *prometheus.CounterVec
	Revenue           *prometheus.CounterVec
	SalesRejected     *prometheus.CounterVec
	RecomputeDuration prometheus.Histogram
	AvailabilityFlips *prometheus.CounterVec
	LowStockItems     prometheus.Gauge
	UnavailableItems  prometheus.Gauge
}

// New creates the collectors and registers them on reg. A nil reg skips registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SalesRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dinesight_sales_recorded_total",
				Help: "Number of sales written to the ledger",
			},
			[]string{"category"},
		),
		Revenue: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dinesight_sales_revenue_total",
				Help: "Sum of sale totals",
			},
			[]string{"category"},
		),
		SalesRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dinesight_sales_rejected_total",
				Help: "Sales refused before touching the ledger",
			},
			[]string{"reason"},
		),
		RecomputeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dinesight_availability_recompute_duration_seconds",
				Help:    "Time spent recomputing menu availability",
				Buckets: prometheus.DefBuckets,
			},
		),
		AvailabilityFlips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dinesight_availability_flips_total",
				Help: "Availability flags rewritten by a recompute",
			},
			[]string{"to"},
		),
		LowStockItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dinesight_low_stock_ingredients",
				Help: "Ingredients at or below their minimum threshold after the last recompute",
			},
		),
		UnavailableItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dinesight_unavailable_menu_items",
				Help: "Menu items that cannot be sold after the last recompute",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.SalesRecorded,
			m.Revenue,
			m.SalesRejected,
			m.RecomputeDuration,
			m.AvailabilityFlips,
			m.LowStockItems,
			m.UnavailableItems,
		)
	}
	return m
}
