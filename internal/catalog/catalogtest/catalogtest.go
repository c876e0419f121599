// Package catalogtest opens throwaway in-memory stores and seeds fixtures for tests.
package catalogtest

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/clock"
	"dinesight-backend/internal/config"
	"dinesight-backend/internal/database"
	"dinesight-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Epoch is the default time of the manual clock: Monday 2026-10-19 12:30:00 UTC.
var Epoch = time.Date(2026, time.October, 19, 12, 30, 0, 0, time.UTC)

// OpenDB returns a migrated private in-memory sqlite database.
func OpenDB(t *testing.T, clk clock.Clock) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DriverSQLite, "file::memory:?_pragma=foreign_keys(1)", clk)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewStore returns a store over a fresh database and the manual clock driving it.
func NewStore(t *testing.T) (*catalog.Store, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(Epoch)
	return catalog.NewStore(OpenDB(t, clk)), clk
}

// WriteCounter counts UPDATE statements issued through db.
type WriteCounter struct {
	n atomic.Int64
}

func CountUpdates(t *testing.T, db *gorm.DB) *WriteCounter {
	t.Helper()
	wc := &WriteCounter{}
	err := db.Callback().Update().After("gorm:update").Register("catalogtest:count_updates", func(tx *gorm.DB) {
		if tx.Error == nil && tx.RowsAffected > 0 {
			wc.n.Add(1)
		}
	})
	require.NoError(t, err)
	return wc
}

func (wc *WriteCounter) Count() int64 { return wc.n.Load() }
func (wc *WriteCounter) Reset()       { wc.n.Store(0) }

func Ingredient(t *testing.T, s *catalog.Store, name string, stock, threshold float64) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{
		Name:             name,
		CurrentStock:     stock,
		Unit:             models.UnitKg,
		MinimumThreshold: threshold,
	}
	require.NoError(t, s.CreateIngredient(context.Background(), ing))
	return ing
}

func MenuItem(t *testing.T, s *catalog.Store, name, category string, price float64) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		Name:      name,
		Category:  category,
		Price:     price,
		Available: true,
	}
	require.NoError(t, s.CreateMenuItem(context.Background(), item))
	return item
}

func RecipeLine(t *testing.T, s *catalog.Store, item *models.MenuItem, ing *models.Ingredient, qty float64) *models.RecipeLine {
	t.Helper()
	line := &models.RecipeLine{MenuItemID: item.ID, IngredientID: ing.ID, QuantityUsed: qty}
	require.NoError(t, s.CreateRecipeLine(context.Background(), line))
	return line
}

func Stock(t *testing.T, s *catalog.Store, id uint) float64 {
	t.Helper()
	ing, err := s.GetIngredient(context.Background(), id)
	require.NoError(t, err)
	return ing.CurrentStock
}

func Available(t *testing.T, s *catalog.Store, id uint) bool {
	t.Helper()
	item, err := s.GetMenuItem(context.Background(), id)
	require.NoError(t, err)
	return item.Available
}
