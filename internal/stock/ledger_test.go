package stock_test

import (
	"context"
	"testing"
	"time"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/catalog/catalogtest"
	"dinesight-backend/internal/clock"
	"dinesight-backend/internal/stock"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockOf(t *testing.T) {
	s, clk := catalogtest.NewStore(t)
	l := stock.NewLedger(s, clk)
	flour := catalogtest.Ingredient(t, s, "Flour", 12.5, 1)

	got, err := l.StockOf(context.Background(), flour.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got)

	_, err = l.StockOf(context.Background(), 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeduct_MayGoNegative(t *testing.T) {
	s, clk := catalogtest.NewStore(t)
	l := stock.NewLedger(s, clk)
	flour := catalogtest.Ingredient(t, s, "Flour", 1, 0)

	require.NoError(t, l.Deduct(context.Background(), flour.ID, decimal.NewFromFloat(1.5)))
	assert.Equal(t, -0.5, catalogtest.Stock(t, s, flour.ID))
}

func TestDeduct_FractionalAmountLeavesExactRemainder(t *testing.T) {
	s, clk := catalogtest.NewStore(t)
	l := stock.NewLedger(s, clk)
	milk := catalogtest.Ingredient(t, s, "Milk", 1, 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Deduct(context.Background(), milk.ID, decimal.NewFromFloat(0.1)))
	}
	assert.Equal(t, 0.7, catalogtest.Stock(t, s, milk.ID))
}

func TestRestock_IncreaseMovesDate(t *testing.T) {
	s, clk := catalogtest.NewStore(t)
	l := stock.NewLedger(s, clk)
	flour := catalogtest.Ingredient(t, s, "Flour", 5, 1)

	clk.Advance(3 * 24 * time.Hour)
	got, err := l.Restock(context.Background(), flour.ID, 8)
	require.NoError(t, err)

	want := clock.StartOfDay(clk.Now())
	assert.Equal(t, 8.0, got.CurrentStock)
	require.NotNil(t, got.LastRestocked)
	assert.True(t, got.LastRestocked.Equal(want))

	stored, err := s.GetIngredient(context.Background(), flour.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastRestocked)
	assert.True(t, stored.LastRestocked.Equal(want))
}

func TestRestock_DecreaseKeepsDate(t *testing.T) {
	s, clk := catalogtest.NewStore(t)
	l := stock.NewLedger(s, clk)
	flour := catalogtest.Ingredient(t, s, "Flour", 5, 1)

	first, err := l.Restock(context.Background(), flour.ID, 9)
	require.NoError(t, err)
	restocked := *first.LastRestocked

	clk.Advance(48 * time.Hour)
	for _, amount := range []float64{4, 4} {
		got, err := l.Restock(context.Background(), flour.ID, amount)
		require.NoError(t, err)
		assert.Equal(t, amount, got.CurrentStock)
		require.NotNil(t, got.LastRestocked)
		assert.True(t, got.LastRestocked.Equal(restocked), "date moved on a non-increase")
	}
}

func TestRestock_Rejects(t *testing.T) {
	s, clk := catalogtest.NewStore(t)
	l := stock.NewLedger(s, clk)
	flour := catalogtest.Ingredient(t, s, "Flour", 5, 1)

	_, err := l.Restock(context.Background(), flour.ID, -1)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, 5.0, catalogtest.Stock(t, s, flour.ID))

	_, err = l.Restock(context.Background(), 404, 3)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLowStock_IncludesEqual(t *testing.T) {
	s, clk := catalogtest.NewStore(t)
	l := stock.NewLedger(s, clk)
	catalogtest.Ingredient(t, s, "Flour", 10, 1)
	catalogtest.Ingredient(t, s, "Butter", 2, 2)

	low, err := l.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Butter", low[0].Name)
	assert.True(t, low[0].IsLowStock())
}
