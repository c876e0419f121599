// Package inventory manages ingredients. Every mutation recomputes menu
// availability inside the same transaction.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/audit"
	"dinesight-backend/internal/availability"
	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/clock"
	"dinesight-backend/internal/models"
	"dinesight-backend/internal/stock"
	"dinesight-backend/pkg/logger"
)

const entityIngredient = "ingredient"

// IngredientInput carries a full ingredient record. CurrentStock and
// MinimumThreshold are pointers so a missing value can be told from zero.
type IngredientInput struct {
	Name             string
	CurrentStock     *float64
	Unit             models.Unit
	MinimumThreshold *float64
	CostPerUnit      float64
	Supplier         string
	ExpiryDate       *time.Time
}

func (in *IngredientInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Supplier = strings.TrimSpace(in.Supplier)
	in.Unit = models.Unit(strings.ToLower(strings.TrimSpace(string(in.Unit))))

	if in.Name == "" {
		return apperr.Validation("name", "is required")
	}
	if in.CurrentStock == nil {
		return apperr.Validation("current_stock", "is required")
	}
	if *in.CurrentStock < 0 {
		return apperr.Validation("current_stock", "must not be negative")
	}
	if in.MinimumThreshold == nil {
		return apperr.Validation("minimum_threshold", "is required")
	}
	if *in.MinimumThreshold < 0 {
		return apperr.Validation("minimum_threshold", "must not be negative")
	}
	if in.Unit == "" {
		in.Unit = models.UnitKg
	}
	if !in.Unit.Valid() {
		return apperr.Validation("unit", fmt.Sprintf("unknown unit %q", in.Unit))
	}
	if in.CostPerUnit < 0 {
		return apperr.Validation("cost_per_unit", "must not be negative")
	}
	return nil
}

type Service struct {
	store  *catalog.Store
	ledger *stock.Ledger
	engine *availability.Engine
	clock  clock.Clock
}

func NewService(store *catalog.Store, ledger *stock.Ledger, engine *availability.Engine, clk clock.Clock) *Service {
	return &Service{store: store, ledger: ledger, engine: engine, clock: clk}
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Ingredient, error) {
	return s.store.GetIngredient(ctx, id)
}

func (s *Service) List(ctx context.Context, lowOnly bool) ([]models.Ingredient, error) {
	return s.ledger.List(ctx, lowOnly)
}

// Add creates the ingredient with today as its restock date.
func (s *Service) Add(ctx context.Context, in IngredientInput) (*models.Ingredient, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	today := clock.StartOfDay(s.clock.Now())
	ing := &models.Ingredient{
		Name:             in.Name,
		CurrentStock:     *in.CurrentStock,
		Unit:             in.Unit,
		MinimumThreshold: *in.MinimumThreshold,
		CostPerUnit:      in.CostPerUnit,
		Supplier:         in.Supplier,
		LastRestocked:    &today,
		ExpiryDate:       in.ExpiryDate,
	}

	var outcome availability.Outcome
	err := s.store.Transaction(ctx, func(tx *catalog.Store) error {
		if err := tx.CreateIngredient(ctx, ing); err != nil {
			return err
		}
		if err := audit.WriteLog(ctx, tx, audit.LogOptions{
			EntityType:  entityIngredient,
			EntityID:    ing.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Malzeme eklendi: %s - %.2f %s", ing.Name, ing.CurrentStock, ing.Unit),
			After:       ing,
		}); err != nil {
			return apperr.Storage("audit", err)
		}
		var err error
		outcome, err = s.engine.WithStore(tx).Recompute(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.engine.Publish(outcome)

	logger.Info(ctx).Uint(logger.FieldIngredientID, ing.ID).Str("name", ing.Name).Msg("ingredient added")
	return ing, nil
}

// Update replaces every field of the ingredient. The stock change goes through
// the ledger so the restock date only moves when stock goes up.
func (s *Service) Update(ctx context.Context, id uint, in IngredientInput) (*models.Ingredient, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var (
		updated *models.Ingredient
		outcome availability.Outcome
	)
	err := s.store.Transaction(ctx, func(tx *catalog.Store) error {
		before, err := tx.GetIngredient(ctx, id)
		if err != nil {
			return err
		}

		next := *before
		next.Name = in.Name
		next.Unit = in.Unit
		next.MinimumThreshold = *in.MinimumThreshold
		next.CostPerUnit = in.CostPerUnit
		next.Supplier = in.Supplier
		next.ExpiryDate = in.ExpiryDate
		if err := tx.UpdateIngredientDetails(ctx, &next); err != nil {
			return err
		}

		updated, err = s.ledger.WithStore(tx).Restock(ctx, id, *in.CurrentStock)
		if err != nil {
			return err
		}

		if err := audit.WriteLog(ctx, tx, audit.LogOptions{
			EntityType:  entityIngredient,
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Malzeme güncellendi: %s (%.2f -> %.2f %s)", updated.Name, before.CurrentStock, updated.CurrentStock, updated.Unit),
			Before:      before,
			After:       updated,
		}); err != nil {
			return apperr.Storage("audit", err)
		}

		outcome, err = s.engine.WithStore(tx).Recompute(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.engine.Publish(outcome)

	logger.Info(ctx).Uint(logger.FieldIngredientID, id).Float64("current_stock", updated.CurrentStock).Msg("ingredient updated")
	return updated, nil
}

// Delete removes the ingredient. Recipe lines that used it stay behind and make
// their menu items unavailable.
func (s *Service) Delete(ctx context.Context, id uint) error {
	var outcome availability.Outcome
	err := s.store.Transaction(ctx, func(tx *catalog.Store) error {
		before, err := tx.GetIngredient(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteIngredient(ctx, id); err != nil {
			return err
		}
		if err := audit.WriteLog(ctx, tx, audit.LogOptions{
			EntityType:  entityIngredient,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Malzeme silindi: %s", before.Name),
			Before:      before,
		}); err != nil {
			return apperr.Storage("audit", err)
		}
		outcome, err = s.engine.WithStore(tx).Recompute(ctx)
		return err
	})
	if err != nil {
		return err
	}
	s.engine.Publish(outcome)

	logger.Info(ctx).Uint(logger.FieldIngredientID, id).Msg("ingredient deleted")
	return nil
}
