package repository

import (
	"context"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"

	"gorm.io/gorm"
)

// SagaLogRepository persists failed multi-step operations for manual
// reconciliation.
type SagaLogRepository interface {
	Create(ctx context.Context, l *model.SagaLog) error
	List(ctx context.Context, limit int) ([]model.SagaLog, error)
}

type sagaLogRepository struct{ db *gorm.DB }

func NewSagaLogRepository(db *gorm.DB) SagaLogRepository {
	return &sagaLogRepository{db: db}
}

func (r *sagaLogRepository) Create(ctx context.Context, l *model.SagaLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *sagaLogRepository) List(ctx context.Context, limit int) ([]model.SagaLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var rows []model.SagaLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
