package catalog

import (
	"context"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/models"
)

func (s *Store) CreateRecipeLine(ctx context.Context, line *models.RecipeLine) error {
	return apperr.Storage("create recipe line", s.db.WithContext(ctx).Create(line).Error)
}

func (s *Store) GetRecipeLine(ctx context.Context, id uint) (*models.RecipeLine, error) {
	var line models.RecipeLine
	if err := s.db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		return nil, apperr.Storage("get recipe line", err)
	}
	return &line, nil
}

// ListRecipeLines returns the raw edges of a menu item in insertion order, including
// lines whose ingredient no longer exists.
func (s *Store) ListRecipeLines(ctx context.Context, menuItemID uint) ([]models.RecipeLine, error) {
	var lines []models.RecipeLine
	err := s.db.WithContext(ctx).
		Where("menu_item_id = ?", menuItemID).
		Order("id asc").
		Find(&lines).Error
	if err != nil {
		return nil, apperr.Storage("list recipe lines", err)
	}
	return lines, nil
}

// RecipeEntry is a recipe line joined with its ingredient for display.
// IngredientName and Unit are empty when the ingredient has been deleted.
type RecipeEntry struct {
	ID             uint
	MenuItemID     uint
	IngredientID   uint
	IngredientName string
	Unit           string
	QuantityUsed   float64
	Missing        bool
}

func (s *Store) ListRecipeEntries(ctx context.Context, menuItemID uint) ([]RecipeEntry, error) {
	type row struct {
		ID             uint    `gorm:"column:id"`
		MenuItemID     uint    `gorm:"column:menu_item_id"`
		IngredientID   uint    `gorm:"column:ingredient_id"`
		QuantityUsed   float64 `gorm:"column:quantity_used"`
		InventoryID    *uint   `gorm:"column:inventory_id"`
		IngredientName *string `gorm:"column:ingredient_name"`
		Unit           *string `gorm:"column:unit"`
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Table("recipes AS r").
		Select("r.id, r.menu_item_id, r.ingredient_id, r.quantity_used, i.id AS inventory_id, i.ingredient_name, i.unit").
		Joins("LEFT JOIN inventory AS i ON i.id = r.ingredient_id").
		Where("r.menu_item_id = ?", menuItemID).
		Order("r.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("list recipe entries", err)
	}

	entries := make([]RecipeEntry, 0, len(rows))
	for _, r := range rows {
		e := RecipeEntry{
			ID:           r.ID,
			MenuItemID:   r.MenuItemID,
			IngredientID: r.IngredientID,
			QuantityUsed: r.QuantityUsed,
			Missing:      r.InventoryID == nil,
		}
		if r.IngredientName != nil {
			e.IngredientName = *r.IngredientName
		}
		if r.Unit != nil {
			e.Unit = *r.Unit
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Store) DeleteRecipeLine(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.RecipeLine{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Storage("delete recipe line", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("recipe line", id)
	}
	return nil
}
