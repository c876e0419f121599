package catalog

import (
	"context"
	"time"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/models"

	"github.com/shopspring/decimal"
)

func (s *Store) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	return apperr.Storage("create ingredient", s.db.WithContext(ctx).Create(ing).Error)
}

func (s *Store) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, "id = ?", id).Error; err != nil {
		return nil, apperr.Storage("get ingredient", err)
	}
	return &ing, nil
}

// ListIngredients orders by name. lowOnly keeps rows with current_stock <= minimum_threshold.
func (s *Store) ListIngredients(ctx context.Context, lowOnly bool) ([]models.Ingredient, error) {
	dbq := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if lowOnly {
		dbq = dbq.Where("current_stock <= minimum_threshold")
	}

	var items []models.Ingredient
	if err := dbq.Order("ingredient_name asc, id asc").Find(&items).Error; err != nil {
		return nil, apperr.Storage("list ingredients", err)
	}
	return items, nil
}

// UpdateIngredientDetails writes every column except current_stock and last_restocked,
// which belong to the stock ledger.
func (s *Store) UpdateIngredientDetails(ctx context.Context, ing *models.Ingredient) error {
	res := s.db.WithContext(ctx).Model(ing).
		Select("ingredient_name", "unit", "minimum_threshold", "cost_per_unit", "supplier", "expiry_date", "updated_at").
		Updates(ing)
	if res.Error != nil {
		return apperr.Storage("update ingredient", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("ingredient", ing.ID)
	}
	return nil
}

// SetStock replaces the stock level and, when restockedAt is non-nil, the restock date.
func (s *Store) SetStock(ctx context.Context, id uint, stock float64, restockedAt *time.Time) error {
	values := map[string]interface{}{"current_stock": stock}
	if restockedAt != nil {
		values["last_restocked"] = *restockedAt
	}
	res := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id = ?", id).UpdateColumns(values)
	if res.Error != nil {
		return apperr.Storage("set stock", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("ingredient", id)
	}
	return nil
}

// DecrementStock subtracts amount from the stored level with decimal arithmetic,
// so 0.3 - 0.1 - 0.2 lands on 0. It does not check the result sign.
func (s *Store) DecrementStock(ctx context.Context, id uint, amount decimal.Decimal) error {
	return s.Transaction(ctx, func(tx *Store) error {
		var ing models.Ingredient
		if err := tx.db.WithContext(ctx).Select("id", "current_stock").First(&ing, "id = ?", id).Error; err != nil {
			return apperr.Storage("decrement stock", err)
		}

		next := decimal.NewFromFloat(ing.CurrentStock).Sub(amount)
		res := tx.db.WithContext(ctx).Model(&models.Ingredient{}).
			Where("id = ?", id).
			UpdateColumn("current_stock", next.InexactFloat64())
		if res.Error != nil {
			return apperr.Storage("decrement stock", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("ingredient", id)
		}
		return nil
	})
}

// DeleteIngredient leaves recipe lines pointing at the ingredient in place so the
// menu items that need it become unsellable instead of silently unconstrained.
func (s *Store) DeleteIngredient(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Ingredient{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Storage("delete ingredient", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("ingredient", id)
	}
	return nil
}
