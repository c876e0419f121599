// Package sales records sales against stock and answers ledger reporting queries.
package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/availability"
	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/clock"
	"dinesight-backend/internal/metrics"
	"dinesight-backend/internal/models"
	"dinesight-backend/internal/recipe"
	"dinesight-backend/internal/stock"
	"dinesight-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("sale-coordinator")

// SaleRequest describes one line sold at the till. ItemName and Category are the
// snapshot kept on the ledger; when empty they are copied from the menu item.
type SaleRequest struct {
	MenuItemID uint
	ItemName   string
	Category   string
	Quantity   int
	UnitPrice  float64
}

type Coordinator struct {
	store    *catalog.Store
	engine   *availability.Engine
	ledger   *stock.Ledger
	resolver *recipe.Resolver
	clock    clock.Clock
	metrics  *metrics.Metrics
}

func NewCoordinator(
	store *catalog.Store,
	engine *availability.Engine,
	ledger *stock.Ledger,
	resolver *recipe.Resolver,
	clk clock.Clock,
	m *metrics.Metrics,
) *Coordinator {
	return &Coordinator{
		store:    store,
		engine:   engine,
		ledger:   ledger,
		resolver: resolver,
		clock:    clk,
		metrics:  m,
	}
}

// RecordSale checks stock, appends the sale, deducts every recipe ingredient and
// recomputes menu availability, all in one transaction. When stock is short it
// returns ErrInsufficientStock and nothing is written.
func (c *Coordinator) RecordSale(ctx context.Context, req SaleRequest) (*models.Sale, error) {
	ctx, span := tracer.Start(ctx, "sales.RecordSale", trace.WithAttributes(
		attribute.Int("sale.menu_item_id", int(req.MenuItemID)),
		attribute.Int("sale.quantity", req.Quantity),
	))
	defer span.End()

	if err := validate(req); err != nil {
		c.reject("validation")
		return nil, err
	}

	req.ItemName = strings.TrimSpace(req.ItemName)
	req.Category = strings.TrimSpace(req.Category)

	var (
		sale    *models.Sale
		outcome availability.Outcome
	)
	err := c.store.Transaction(ctx, func(tx *catalog.Store) error {
		engine := c.engine.WithStore(tx)

		ok, err := engine.CanFulfill(ctx, req.MenuItemID, req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("menu item %d x%d: %w", req.MenuItemID, req.Quantity, apperr.ErrInsufficientStock)
		}

		if req.ItemName == "" || req.Category == "" {
			item, err := tx.GetMenuItem(ctx, req.MenuItemID)
			if err != nil {
				return err
			}
			if req.ItemName == "" {
				req.ItemName = item.Name
			}
			if req.Category == "" {
				req.Category = item.Category
			}
		}

		sale = newSale(req, c.clock.Now())
		if err := tx.CreateSale(ctx, sale); err != nil {
			return err
		}

		reqs, err := c.resolver.WithStore(tx).RequirementsFor(ctx, req.MenuItemID)
		if err != nil {
			return err
		}
		ledger := c.ledger.WithStore(tx)
		ids, amounts := recipe.Totals(reqs, req.Quantity)
		for _, id := range ids {
			if err := ledger.Deduct(ctx, id, amounts[id]); err != nil {
				return err
			}
		}

		outcome, err = engine.Recompute(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, apperr.ErrInsufficientStock) {
			c.reject("insufficient_stock")
			logger.Info(ctx).Uint(logger.FieldMenuItemID, req.MenuItemID).Int("quantity", req.Quantity).Msg("sale rejected: insufficient stock")
		} else {
			c.reject("error")
			logger.Error(ctx).Err(err).Uint(logger.FieldMenuItemID, req.MenuItemID).Msg("sale failed")
		}
		return nil, err
	}

	c.engine.Publish(outcome)
	if c.metrics != nil {
		c.metrics.SalesRecorded.WithLabelValues(sale.Category).Inc()
		c.metrics.Revenue.WithLabelValues(sale.Category).Add(sale.TotalAmount)
	}
	span.SetAttributes(attribute.String("sale.receipt_id", sale.ReceiptID))
	logger.Info(ctx).
		Str(logger.FieldReceiptID, sale.ReceiptID).
		Str("item", sale.ItemName).
		Int("quantity", sale.Quantity).
		Float64("total", sale.TotalAmount).
		Msg("sale recorded")

	return sale, nil
}

func (c *Coordinator) reject(reason string) {
	if c.metrics != nil {
		c.metrics.SalesRejected.WithLabelValues(reason).Inc()
	}
}

func validate(req SaleRequest) error {
	if req.MenuItemID == 0 {
		return apperr.Validation("menu_item_id", "is required")
	}
	if req.Quantity <= 0 {
		return apperr.Validation("quantity", "must be greater than zero")
	}
	if req.UnitPrice < 0 {
		return apperr.Validation("unit_price", "must not be negative")
	}
	return nil
}

// newSale stamps the sale with the date parts reports group by.
func newSale(req SaleRequest, now time.Time) *models.Sale {
	total := decimal.NewFromFloat(req.UnitPrice).Mul(decimal.NewFromInt(int64(req.Quantity)))

	return &models.Sale{
		ReceiptID:   uuid.NewString(),
		MenuItemID:  req.MenuItemID,
		ItemName:    req.ItemName,
		Category:    req.Category,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		TotalAmount: total.InexactFloat64(),
		OrderedAt:   now,
		OrderDate:   now.Format(DateLayout),
		OrderTime:   now.Format("15:04:05"),
		DayOfWeek:   now.Weekday().String(),
		Month:       now.Month().String(),
		Year:        now.Year(),
	}
}
