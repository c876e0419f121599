package catalog

import (
	"context"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/models"
)

func (s *Store) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return apperr.Storage("create menu item", s.db.WithContext(ctx).Create(item).Error)
}

func (s *Store) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, apperr.Storage("get menu item", err)
	}
	return &item, nil
}

// ListMenuItems orders by category then name.
func (s *Store) ListMenuItems(ctx context.Context, availableOnly bool) ([]models.MenuItem, error) {
	dbq := s.db.WithContext(ctx).Model(&models.MenuItem{})
	if availableOnly {
		dbq = dbq.Where("is_available = ?", true)
	}

	var items []models.MenuItem
	if err := dbq.Order("category asc, name asc, id asc").Find(&items).Error; err != nil {
		return nil, apperr.Storage("list menu items", err)
	}
	return items, nil
}

// UpdateMenuItem writes every user editable column. The availability flag is not one of them.
func (s *Store) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	res := s.db.WithContext(ctx).Model(item).
		Select("name", "category", "description", "price", "cost", "preparation_time", "updated_at").
		Updates(item)
	if res.Error != nil {
		return apperr.Storage("update menu item", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("menu item", item.ID)
	}
	return nil
}

// SetAvailability writes only the flag, leaving updated_at alone.
func (s *Store) SetAvailability(ctx context.Context, id uint, available bool) error {
	res := s.db.WithContext(ctx).Model(&models.MenuItem{}).
		Where("id = ?", id).
		UpdateColumn("is_available", available)
	if res.Error != nil {
		return apperr.Storage("set availability", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("menu item", id)
	}
	return nil
}

// DeleteMenuItem removes the item together with its recipe lines.
// Historical sales keep their own copy of the name and are not touched.
func (s *Store) DeleteMenuItem(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.db.WithContext(ctx).Where("menu_item_id = ?", id).Delete(&models.RecipeLine{}).Error; err != nil {
			return apperr.Storage("delete recipe lines", err)
		}
		res := tx.db.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id)
		if res.Error != nil {
			return apperr.Storage("delete menu item", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("menu item", id)
		}
		return nil
	})
}
