// Package feedback stores customer ratings. Nothing in stock or availability reads it.
package feedback

import (
	"context"
	"strings"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/clock"
	"dinesight-backend/internal/models"
)

type Service struct {
	store *catalog.Store
	clock clock.Clock
}

func NewService(store *catalog.Store, clk clock.Clock) *Service {
	return &Service{store: store, clock: clk}
}

func (s *Service) Add(ctx context.Context, itemName string, rating int, comment string) (*models.CustomerFeedback, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil, apperr.Validation("item_name", "is required")
	}
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating", "must be between 1 and 5")
	}

	fb := &models.CustomerFeedback{
		ItemName:     itemName,
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
		FeedbackDate: s.clock.Now(),
	}
	if err := s.store.CreateFeedback(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *Service) List(ctx context.Context, itemName string) ([]models.CustomerFeedback, error) {
	return s.store.ListFeedback(ctx, strings.TrimSpace(itemName))
}
