package catalog

import (
	"context"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/models"
)

func (s *Store) CreateFeedback(ctx context.Context, fb *models.CustomerFeedback) error {
	return apperr.Storage("create feedback", s.db.WithContext(ctx).Create(fb).Error)
}

func (s *Store) ListFeedback(ctx context.Context, itemName string) ([]models.CustomerFeedback, error) {
	dbq := s.db.WithContext(ctx).Model(&models.CustomerFeedback{})
	if itemName != "" {
		dbq = dbq.Where("item_name = ?", itemName)
	}
	var out []models.CustomerFeedback
	if err := dbq.Order("feedback_date desc, id desc").Find(&out).Error; err != nil {
		return nil, apperr.Storage("list feedback", err)
	}
	return out, nil
}
