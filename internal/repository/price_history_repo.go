package repository

import (
	"context"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceHistoryRepository interface {
	Create(ctx context.Context, h *model.PriceHistory) error
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.PriceHistory, int64, error)
}

type priceHistoryRepository struct{ db *gorm.DB }

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

func (r *priceHistoryRepository) Create(ctx context.Context, h *model.PriceHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

// ListByProduct returns paginated price-change records for one product,
// ordered newest-first.
func (r *priceHistoryRepository) ListByProduct(
	ctx context.Context,
	productID uuid.UUID,
	page, limit int,
) ([]model.PriceHistory, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.PriceHistory{}).
		Where("product_id = ?", productID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.PriceHistory
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
