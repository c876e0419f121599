package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"dinesight-backend/internal/catalog"
	"dinesight-backend/internal/models"

	"github.com/google/uuid"
)

type correlationKey struct{}

// WithCorrelationID tags ctx so every audit row written for one request shares an id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func correlationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

type LogOptions struct {
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog appends an audit row through s, so it commits or rolls back with the
// mutation it describes.
func WriteLog(ctx context.Context, s *catalog.Store, opts LogOptions) error {
	beforeStr, err := snapshot(opts.Before)
	if err != nil {
		return fmt.Errorf("audit before verisi serileştirilemedi: %w", err)
	}
	afterStr, err := snapshot(opts.After)
	if err != nil {
		return fmt.Errorf("audit after verisi serileştirilemedi: %w", err)
	}

	log := models.AuditLog{
		CorrelationID: correlationID(ctx),
		EntityType:    opts.EntityType,
		EntityID:      opts.EntityID,
		Action:        opts.Action,
		Description:   opts.Description,
		BeforeData:    beforeStr,
		AfterData:     afterStr,
	}

	if err := s.DB(ctx).Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}
	return nil
}

// boş string yerine "null" JSON string'i
func snapshot(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type ListFilter struct {
	EntityType string
	EntityID   uint
	Limit      int
}

func List(ctx context.Context, s *catalog.Store, f ListFilter) ([]models.AuditLog, error) {
	dbq := s.DB(ctx).Model(&models.AuditLog{})
	if f.EntityType != "" {
		dbq = dbq.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID > 0 {
		dbq = dbq.Where("entity_id = ?", f.EntityID)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.AuditLog
	if err := dbq.Order("created_at desc, id desc").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("audit loglar listelenemedi: %w", err)
	}
	return logs, nil
}
