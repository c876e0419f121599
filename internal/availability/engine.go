// Package availability decides whether menu items can be sold from current stock
// and keeps the stored availability flags in line with that decision.
package availability

import (
	"context"
	"errors"
	"time"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/metrics"
	"dinesight-backend/internal/recipe"
	"dinesight-backend/internal/stock"
	"dinesight-backend/pkg/logger"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("availability-engine")

type Engine struct {
	store    *catalog.Store
	ledger   *stock.Ledger
	resolver *recipe.Resolver
	metrics  *metrics.Metrics
}

func NewEngine(store *catalog.Store, ledger *stock.Ledger, resolver *recipe.Resolver, m *metrics.Metrics) *Engine {
	return &Engine{store: store, ledger: ledger, resolver: resolver, metrics: m}
}

// WithStore rebinds the engine and its collaborators to s.
func (e *Engine) WithStore(s *catalog.Store) *Engine {
	return &Engine{
		store:    s,
		ledger:   e.ledger.WithStore(s),
		resolver: e.resolver.WithStore(s),
		metrics:  e.metrics,
	}
}

// CanFulfill reports whether quantity units of the menu item can be made from
// current stock. A missing menu item or a recipe line pointing at a deleted
// ingredient makes the item infeasible. Stock exactly equal to the requirement
// is enough.
func (e *Engine) CanFulfill(ctx context.Context, menuItemID uint, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, apperr.Validation("quantity", "must be greater than zero")
	}

	if _, err := e.store.GetMenuItem(ctx, menuItemID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return e.canFulfill(ctx, menuItemID, quantity)
}

func (e *Engine) canFulfill(ctx context.Context, menuItemID uint, quantity int) (bool, error) {
	reqs, err := e.resolver.RequirementsFor(ctx, menuItemID)
	if err != nil {
		return false, err
	}
	if len(reqs) == 0 {
		return true, nil
	}

	// Lines sharing an ingredient are summed so a sale can never drive stock below zero.
	ids, required := recipe.Totals(reqs, quantity)
	for _, id := range ids {
		current, err := e.ledger.StockOf(ctx, id)
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if decimal.NewFromFloat(current).LessThan(required[id]) {
			return false, nil
		}
	}
	return true, nil
}

// Outcome counts what one recompute pass wrote and saw.
type Outcome struct {
	Changed       int
	ToAvailable   int
	ToUnavailable int
	Unavailable   int
	LowStock      int
}

// RecomputeAll re-evaluates every menu item for a single unit and writes the
// flag only where it changed. It returns the number of flags written, so a
// second call with no state change in between returns 0. All writes of one
// call commit together. Metrics are published only when the engine owns the
// transaction; inside a caller's transaction use Recompute and Publish after
// the caller commits.
func (e *Engine) RecomputeAll(ctx context.Context) (int, error) {
	out, err := e.Recompute(ctx)
	if err != nil {
		return 0, err
	}
	if !e.store.InTx() {
		e.Publish(out)
	}
	return out.Changed, nil
}

// Recompute does the work of RecomputeAll without touching the flip counter or
// the gauges.
func (e *Engine) Recompute(ctx context.Context) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "availability.Recompute")
	defer span.End()

	start := time.Now()
	var out Outcome
	err := e.store.Transaction(ctx, func(tx *catalog.Store) error {
		var err error
		out, err = e.WithStore(tx).recompute(ctx, span)
		return err
	})
	if e.metrics != nil {
		e.metrics.RecomputeDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error(ctx).Err(err).Msg("availability recompute failed")
		return Outcome{}, err
	}

	span.SetAttributes(attribute.Int("availability.changed", out.Changed))
	return out, nil
}

// Publish records a committed outcome on the flip counter and the gauges.
func (e *Engine) Publish(out Outcome) {
	if e.metrics == nil {
		return
	}
	e.metrics.AvailabilityFlips.WithLabelValues("available").Add(float64(out.ToAvailable))
	e.metrics.AvailabilityFlips.WithLabelValues("unavailable").Add(float64(out.ToUnavailable))
	e.metrics.LowStockItems.Set(float64(out.LowStock))
	e.metrics.UnavailableItems.Set(float64(out.Unavailable))
}

func (e *Engine) recompute(ctx context.Context, span trace.Span) (Outcome, error) {
	var out Outcome

	items, err := e.store.ListMenuItems(ctx, false)
	if err != nil {
		return out, err
	}

	for _, item := range items {
		makeable, err := e.canFulfill(ctx, item.ID, 1)
		if err != nil {
			return out, err
		}
		if !makeable {
			out.Unavailable++
		}
		if makeable == item.Available {
			continue
		}

		if err := e.store.SetAvailability(ctx, item.ID, makeable); err != nil {
			return out, err
		}
		out.Changed++
		if makeable {
			out.ToAvailable++
		} else {
			out.ToUnavailable++
		}
		logger.Debug(ctx).
			Uint(logger.FieldMenuItemID, item.ID).
			Str("name", item.Name).
			Bool("available", makeable).
			Msg("availability changed")
	}

	low, err := e.ledger.LowStock(ctx)
	if err != nil {
		return out, err
	}
	out.LowStock = len(low)

	span.SetAttributes(attribute.Int("availability.items", len(items)))
	return out, nil
}
