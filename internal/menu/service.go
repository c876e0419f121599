// Package menu manages menu items and their recipe lines.
package menu

import (
	"context"
	"fmt"
	"strings"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/audit"
	"dinesight-backend/internal/availability"
	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/models"
	"dinesight-backend/pkg/logger"
)

const (
	entityMenuItem   = "menu_item"
	entityRecipeLine = "recipe_line"
)

// MenuItemInput is the user editable part of a menu item. Availability is not part of it.
type MenuItemInput struct {
	Name        string
	Category    string
	Description string
	Price       *float64
	Cost        float64
	PrepTime    int
}

func (in *MenuItemInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" {
		return apperr.Validation("name", "is required")
	}
	if in.Price == nil {
		return apperr.Validation("price", "is required")
	}
	if *in.Price < 0 {
		return apperr.Validation("price", "must not be negative")
	}
	if in.Cost < 0 {
		return apperr.Validation("cost", "must not be negative")
	}
	if in.PrepTime < 0 {
		return apperr.Validation("prep_time", "must not be negative")
	}
	return nil
}

type Service struct {
	store  *catalog.Store
	engine *availability.Engine
}

func NewService(store *catalog.Store, engine *availability.Engine) *Service {
	return &Service{store: store, engine: engine}
}

func (s *Service) Get(ctx context.Context, id uint) (*models.MenuItem, error) {
	return s.store.GetMenuItem(ctx, id)
}

func (s *Service) List(ctx context.Context, availableOnly bool) ([]models.MenuItem, error) {
	return s.store.ListMenuItems(ctx, availableOnly)
}

// Add creates a menu item. It starts available: with no recipe lines nothing constrains it.
func (s *Service) Add(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Price:       *in.Price,
		Cost:        in.Cost,
		PrepTime:    in.PrepTime,
		Available:   true,
	}

	err := s.store.Transaction(ctx, func(tx *catalog.Store) error {
		if err := tx.CreateMenuItem(ctx, item); err != nil {
			return err
		}
		return writeAudit(ctx, tx, audit.LogOptions{
			EntityType:  entityMenuItem,
			EntityID:    item.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Menüye eklendi: %s (%.2f)", item.Name, item.Price),
			After:       item,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).Uint(logger.FieldMenuItemID, item.ID).Str("name", item.Name).Msg("menu item added")
	return item, nil
}

// Update rewrites the editable fields. The stored availability flag is kept.
func (s *Service) Update(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var item *models.MenuItem
	err := s.store.Transaction(ctx, func(tx *catalog.Store) error {
		before, err := tx.GetMenuItem(ctx, id)
		if err != nil {
			return err
		}

		next := *before
		next.Name = in.Name
		next.Category = in.Category
		next.Description = in.Description
		next.Price = *in.Price
		next.Cost = in.Cost
		next.PrepTime = in.PrepTime
		if err := tx.UpdateMenuItem(ctx, &next); err != nil {
			return err
		}
		item = &next

		return writeAudit(ctx, tx, audit.LogOptions{
			EntityType:  entityMenuItem,
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Menü ürünü güncellendi: %s", next.Name),
			Before:      before,
			After:       next,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the item and its recipe lines. Sales keep their snapshot.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *catalog.Store) error {
		before, err := tx.GetMenuItem(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteMenuItem(ctx, id); err != nil {
			return err
		}
		return writeAudit(ctx, tx, audit.LogOptions{
			EntityType:  entityMenuItem,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Menüden silindi: %s", before.Name),
			Before:      before,
		})
	})
}

func (s *Service) Recipe(ctx context.Context, menuItemID uint) ([]catalog.RecipeEntry, error) {
	if _, err := s.store.GetMenuItem(ctx, menuItemID); err != nil {
		return nil, err
	}
	return s.store.ListRecipeEntries(ctx, menuItemID)
}

// AddRecipeLine links an ingredient to a menu item and recomputes availability,
// since a new requirement can make the item unsellable.
func (s *Service) AddRecipeLine(ctx context.Context, menuItemID, ingredientID uint, quantity float64) (*models.RecipeLine, error) {
	if ingredientID == 0 {
		return nil, apperr.Validation("ingredient_id", "is required")
	}
	if quantity <= 0 {
		return nil, apperr.Validation("quantity_used", "must be greater than zero")
	}

	line := &models.RecipeLine{MenuItemID: menuItemID, IngredientID: ingredientID, QuantityUsed: quantity}
	var outcome availability.Outcome
	err := s.store.Transaction(ctx, func(tx *catalog.Store) error {
		item, err := tx.GetMenuItem(ctx, menuItemID)
		if err != nil {
			return err
		}
		ing, err := tx.GetIngredient(ctx, ingredientID)
		if err != nil {
			return err
		}
		if err := tx.CreateRecipeLine(ctx, line); err != nil {
			return err
		}
		if err := writeAudit(ctx, tx, audit.LogOptions{
			EntityType:  entityRecipeLine,
			EntityID:    line.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Tarif: %s için %.3f %s %s", item.Name, quantity, ing.Unit, ing.Name),
			After:       line,
		}); err != nil {
			return err
		}
		outcome, err = s.engine.WithStore(tx).Recompute(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.engine.Publish(outcome)
	return line, nil
}

// DeleteRecipeLine removes one edge and recomputes availability.
func (s *Service) DeleteRecipeLine(ctx context.Context, lineID uint) error {
	var outcome availability.Outcome
	err := s.store.Transaction(ctx, func(tx *catalog.Store) error {
		before, err := tx.GetRecipeLine(ctx, lineID)
		if err != nil {
			return err
		}
		if err := tx.DeleteRecipeLine(ctx, lineID); err != nil {
			return err
		}
		if err := writeAudit(ctx, tx, audit.LogOptions{
			EntityType:  entityRecipeLine,
			EntityID:    lineID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Tarif satırı silindi: menü %d, malzeme %d", before.MenuItemID, before.IngredientID),
			Before:      before,
		}); err != nil {
			return err
		}
		outcome, err = s.engine.WithStore(tx).Recompute(ctx)
		return err
	})
	if err != nil {
		return err
	}
	s.engine.Publish(outcome)
	return nil
}

// CanFulfill is the read-only feasibility check for quantity units.
func (s *Service) CanFulfill(ctx context.Context, menuItemID uint, quantity int) (bool, error) {
	if _, err := s.store.GetMenuItem(ctx, menuItemID); err != nil {
		return false, err
	}
	return s.engine.CanFulfill(ctx, menuItemID, quantity)
}

func writeAudit(ctx context.Context, tx *catalog.Store, opts audit.LogOptions) error {
	if err := audit.WriteLog(ctx, tx, opts); err != nil {
		return apperr.Storage("audit", err)
	}
	return nil
}
