package catalog

import (
	"context"

	"dinesight-backend/internal/apperr"
	"dinesight-backend/internal/models"
)

// SaleFilter narrows ListSales. From and To are inclusive 2006-01-02 dates; empty means open.
type SaleFilter struct {
	From     string
	To       string
	Category string
	Limit    int
}

// CreateSale appends to the ledger. Sales are never updated or deleted.
func (s *Store) CreateSale(ctx context.Context, sale *models.Sale) error {
	return apperr.Storage("create sale", s.db.WithContext(ctx).Create(sale).Error)
}

// ListSales returns the newest sales first.
func (s *Store) ListSales(ctx context.Context, f SaleFilter) ([]models.Sale, error) {
	dbq := s.db.WithContext(ctx).Model(&models.Sale{})
	if f.From != "" {
		dbq = dbq.Where("order_date >= ?", f.From)
	}
	if f.To != "" {
		dbq = dbq.Where("order_date <= ?", f.To)
	}
	if f.Category != "" {
		dbq = dbq.Where("category = ?", f.Category)
	}
	if f.Limit > 0 {
		dbq = dbq.Limit(f.Limit)
	}

	var sales []models.Sale
	if err := dbq.Order("order_date desc, order_time desc, id desc").Find(&sales).Error; err != nil {
		return nil, apperr.Storage("list sales", err)
	}
	return sales, nil
}

func (s *Store) CountSales(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Sale{}).Count(&n).Error; err != nil {
		return 0, apperr.Storage("count sales", err)
	}
	return n, nil
}
