// Package stock owns ingredient quantities: lookups, deductions and restocks.
package stock

import (
	"context"
	"time"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/clock"
	"dinesight-backend/internal/models"
	"dinesight-backend/pkg/logger"

	"github.com/shopspring/decimal"
)

type Ledger struct {
	store *catalog.Store
	clock clock.Clock
}

func NewLedger(store *catalog.Store, clk clock.Clock) *Ledger {
	return &Ledger{store: store, clock: clk}
}

// WithStore returns a ledger bound to s, typically a transaction.
func (l *Ledger) WithStore(s *catalog.Store) *Ledger {
	return &Ledger{store: s, clock: l.clock}
}

// StockOf returns the current stock. A deleted ingredient yields ErrNotFound.
func (l *Ledger) StockOf(ctx context.Context, ingredientID uint) (float64, error) {
	ing, err := l.store.GetIngredient(ctx, ingredientID)
	if err != nil {
		return 0, err
	}
	return ing.CurrentStock, nil
}

// Deduct subtracts amount without checking the result. Callers verify feasibility first.
func (l *Ledger) Deduct(ctx context.Context, ingredientID uint, amount decimal.Decimal) error {
	return l.store.DecrementStock(ctx, ingredientID, amount)
}

// Restock replaces the stock level. The restock date moves to today only when the
// new amount is above the previous one; a downward correction keeps the old date.
func (l *Ledger) Restock(ctx context.Context, ingredientID uint, newAmount float64) (*models.Ingredient, error) {
	if newAmount < 0 {
		return nil, apperr.Validation("current_stock", "must not be negative")
	}

	ing, err := l.store.GetIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}

	var restockedAt *time.Time
	if newAmount > ing.CurrentStock {
		today := clock.StartOfDay(l.clock.Now())
		restockedAt = &today
		ing.LastRestocked = &today
	}

	if err := l.store.SetStock(ctx, ingredientID, newAmount, restockedAt); err != nil {
		return nil, err
	}

	logger.Debug(ctx).
		Uint(logger.FieldIngredientID, ingredientID).
		Float64("previous", ing.CurrentStock).
		Float64("current", newAmount).
		Bool("restocked", restockedAt != nil).
		Msg("stock replaced")

	ing.CurrentStock = newAmount
	return ing, nil
}

func (l *Ledger) List(ctx context.Context, lowOnly bool) ([]models.Ingredient, error) {
	return l.store.ListIngredients(ctx, lowOnly)
}

// LowStock lists ingredients with current stock at or below their minimum threshold.
func (l *Ledger) LowStock(ctx context.Context) ([]models.Ingredient, error) {
	return l.store.ListIngredients(ctx, true)
}
