package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/availability"
	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/catalog/catalogtest"
	"dinesight-backend/internal/clock"
	"dinesight-backend/internal/metrics"
	"dinesight-backend/internal/recipe"
	"dinesight-backend/internal/sales"
	"dinesight-backend/internal/stock"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	store   *catalog.Store
	clock   *clock.Manual
	engine  *availability.Engine
	coord   *sales.Coordinator
	reports *sales.Reports
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewManual(catalogtest.Epoch)
	db := catalogtest.OpenDB(t, clk)
	s := catalog.NewStore(db)
	m := metrics.New(prometheus.NewRegistry())
	ledger := stock.NewLedger(s, clk)
	resolver := recipe.NewResolver(s)
	engine := availability.NewEngine(s, ledger, resolver, m)
	return &fixture{
		db:      db,
		store:   s,
		clock:   clk,
		engine:  engine,
		coord:   sales.NewCoordinator(s, engine, ledger, resolver, clk, m),
		reports: sales.NewReports(s, clk),
		metrics: m,
	}
}

func (f *fixture) sell(t *testing.T, itemID uint, qty int, price float64) error {
	t.Helper()
	_, err := f.coord.RecordSale(context.Background(), sales.SaleRequest{
		MenuItemID: itemID,
		Quantity:   qty,
		UnitPrice:  price,
	})
	return err
}

func TestRecordSale_DeductsRecipeTimesQuantity(t *testing.T) {
	f := newFixture(t)
	flour := catalogtest.Ingredient(t, f.store, "Flour", 10, 1)
	butter := catalogtest.Ingredient(t, f.store, "Butter", 4, 1)
	sugar := catalogtest.Ingredient(t, f.store, "Sugar", 7, 1)
	bread := catalogtest.MenuItem(t, f.store, "Bread", "Bakery", 3)
	catalogtest.RecipeLine(t, f.store, bread, flour, 0.5)
	catalogtest.RecipeLine(t, f.store, bread, butter, 0.25)

	sale, err := f.coord.RecordSale(context.Background(), sales.SaleRequest{
		MenuItemID: bread.ID,
		Quantity:   4,
		UnitPrice:  3.1,
	})
	require.NoError(t, err)

	assert.Equal(t, 8.0, catalogtest.Stock(t, f.store, flour.ID))
	assert.Equal(t, 3.0, catalogtest.Stock(t, f.store, butter.ID))
	assert.Equal(t, 7.0, catalogtest.Stock(t, f.store, sugar.ID))

	assert.Equal(t, "Bread", sale.ItemName)
	assert.Equal(t, "Bakery", sale.Category)
	assert.Equal(t, 12.4, sale.TotalAmount)
	_, err = uuid.Parse(sale.ReceiptID)
	assert.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SalesRecorded.WithLabelValues("Bakery")))
}

func TestRecordSale_StampsDateParts(t *testing.T) {
	f := newFixture(t)
	tea := catalogtest.MenuItem(t, f.store, "Tea", "Drinks", 2)
	f.clock.Set(time.Date(2026, time.March, 7, 18, 5, 9, 0, time.UTC))

	sale, err := f.coord.RecordSale(context.Background(), sales.SaleRequest{
		MenuItemID: tea.ID,
		ItemName:   "Green Tea",
		Category:   "Hot Drinks",
		Quantity:   1,
		UnitPrice:  2,
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-07", sale.OrderDate)
	assert.Equal(t, "18:05:09", sale.OrderTime)
	assert.Equal(t, "Saturday", sale.DayOfWeek)
	assert.Equal(t, "March", sale.Month)
	assert.Equal(t, 2026, sale.Year)
	assert.Equal(t, "Green Tea", sale.ItemName)
	assert.Equal(t, "Hot Drinks", sale.Category)
}

func TestRecordSale_InsufficientStockChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	flour := catalogtest.Ingredient(t, f.store, "Flour", 1, 0)
	butter := catalogtest.Ingredient(t, f.store, "Butter", 10, 0)
	bread := catalogtest.MenuItem(t, f.store, "Bread", "Bakery", 3)
	catalogtest.RecipeLine(t, f.store, bread, butter, 0.1)
	catalogtest.RecipeLine(t, f.store, bread, flour, 0.5)

	err := f.sell(t, bread.ID, 3, 3)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	n, err := f.store.CountSales(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1.0, catalogtest.Stock(t, f.store, flour.ID))
	assert.Equal(t, 10.0, catalogtest.Stock(t, f.store, butter.ID))
	assert.True(t, catalogtest.Available(t, f.store, bread.ID))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SalesRejected.WithLabelValues("insufficient_stock")))
}

func TestRecordSale_Validation(t *testing.T) {
	f := newFixture(t)
	tea := catalogtest.MenuItem(t, f.store, "Tea", "Drinks", 2)

	cases := []sales.SaleRequest{
		{MenuItemID: tea.ID, Quantity: 0, UnitPrice: 2},
		{MenuItemID: tea.ID, Quantity: -2, UnitPrice: 2},
		{MenuItemID: 0, Quantity: 1, UnitPrice: 2},
		{MenuItemID: tea.ID, Quantity: 1, UnitPrice: -1},
	}
	for _, req := range cases {
		_, err := f.coord.RecordSale(context.Background(), req)
		assert.True(t, apperr.IsValidation(err), "%+v", req)
	}

	n, err := f.store.CountSales(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecordSale_UnknownItemIsRejected(t *testing.T) {
	f := newFixture(t)

	err := f.sell(t, 777, 1, 1)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
}

func TestRecordSale_SellsOutAndFlipsAvailability(t *testing.T) {
	f := newFixture(t)
	flour := catalogtest.Ingredient(t, f.store, "Flour", 1.0, 0.2)
	bread := catalogtest.MenuItem(t, f.store, "Bread", "Bakery", 3)
	catalogtest.RecipeLine(t, f.store, bread, flour, 0.5)

	require.NoError(t, f.sell(t, bread.ID, 2, 3))
	assert.Equal(t, 0.0, catalogtest.Stock(t, f.store, flour.ID))
	assert.False(t, catalogtest.Available(t, f.store, bread.ID))

	err := f.sell(t, bread.ID, 1, 3)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
}

func TestRecordSale_SharedIngredientAffectsOtherItems(t *testing.T) {
	f := newFixture(t)
	flour := catalogtest.Ingredient(t, f.store, "Flour", 1.0, 0)
	bread := catalogtest.MenuItem(t, f.store, "Bread", "Bakery", 3)
	cake := catalogtest.MenuItem(t, f.store, "Cake", "Bakery", 8)
	catalogtest.RecipeLine(t, f.store, bread, flour, 0.5)
	catalogtest.RecipeLine(t, f.store, cake, flour, 0.8)

	require.NoError(t, f.sell(t, bread.ID, 1, 3))

	assert.True(t, catalogtest.Available(t, f.store, bread.ID))
	assert.False(t, catalogtest.Available(t, f.store, cake.ID))
}

func TestRecordSale_ItemWithoutRecipe(t *testing.T) {
	f := newFixture(t)
	flour := catalogtest.Ingredient(t, f.store, "Flour", 3, 0)
	water := catalogtest.MenuItem(t, f.store, "Water", "Drinks", 1)

	require.NoError(t, f.sell(t, water.ID, 50, 1))
	assert.Equal(t, 3.0, catalogtest.Stock(t, f.store, flour.ID))
	assert.True(t, catalogtest.Available(t, f.store, water.ID))
}

func TestRecordSale_StorageFailureMidDeductionRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	flour := catalogtest.Ingredient(t, f.store, "Flour", 10, 0)
	butter := catalogtest.Ingredient(t, f.store, "Butter", 10, 0)
	bread := catalogtest.MenuItem(t, f.store, "Bread", "Bakery", 3)
	catalogtest.RecipeLine(t, f.store, bread, flour, 0.5)
	catalogtest.RecipeLine(t, f.store, bread, butter, 0.25)

	inventoryUpdates := 0
	err := f.db.Callback().Update().Before("gorm:update").Register("test:fail_second_deduction", func(tx *gorm.DB) {
		if tx.Statement.Table != "inventory" {
			return
		}
		inventoryUpdates++
		if inventoryUpdates == 2 {
			_ = tx.AddError(errors.New("boom"))
		}
	})
	require.NoError(t, err)

	err = f.sell(t, bread.ID, 2, 3)
	var se *apperr.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, inventoryUpdates)

	n, err := f.store.CountSales(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 10.0, catalogtest.Stock(t, f.store, flour.ID))
	assert.Equal(t, 10.0, catalogtest.Stock(t, f.store, butter.ID))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SalesRejected.WithLabelValues("error")))
}

func TestRecordSale_FlourLowStockBreadStillAvailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	flour := catalogtest.Ingredient(t, f.store, "Flour", 10, 5)
	bread := catalogtest.MenuItem(t, f.store, "Bread", "Bakery", 3)
	catalogtest.RecipeLine(t, f.store, bread, flour, 2)

	require.NoError(t, f.sell(t, bread.ID, 4, 3))

	assert.Equal(t, 2.0, catalogtest.Stock(t, f.store, flour.ID))
	assert.True(t, catalogtest.Available(t, f.store, bread.ID))

	low, err := stock.NewLedger(f.store, f.clock).LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, flour.ID, low[0].ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LowStockItems))
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.UnavailableItems))
}

func TestRecordSale_FractionalRecipeSellsDownToZero(t *testing.T) {
	f := newFixture(t)
	syrup := catalogtest.Ingredient(t, f.store, "Syrup", 0.3, 0)
	latte := catalogtest.MenuItem(t, f.store, "Latte", "Drinks", 4)
	catalogtest.RecipeLine(t, f.store, latte, syrup, 0.1)

	require.NoError(t, f.sell(t, latte.ID, 3, 4))
	assert.Equal(t, 0.0, catalogtest.Stock(t, f.store, syrup.ID))
	assert.False(t, catalogtest.Available(t, f.store, latte.ID))
}

func TestRecordSale_WhitespaceSnapshotFallsBackToMenuItem(t *testing.T) {
	f := newFixture(t)
	tea := catalogtest.MenuItem(t, f.store, "Tea", "Drinks", 2)

	sale, err := f.coord.RecordSale(context.Background(), sales.SaleRequest{
		MenuItemID: tea.ID,
		ItemName:   "   ",
		Category:   "\t",
		Quantity:   1,
		UnitPrice:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Tea", sale.ItemName)
	assert.Equal(t, "Drinks", sale.Category)
}
