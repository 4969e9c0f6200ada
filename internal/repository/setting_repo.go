package repository

import (
	"context"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	List(ctx context.Context) ([]model.Setting, error)
	Get(ctx context.Context, key string) (*model.Setting, error)
	Upsert(ctx context.Context, s *model.Setting) error
}

type settingRepository struct{ db *gorm.DB }

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) List(ctx context.Context) ([]model.Setting, error) {
	var list []model.Setting
	err := r.db.WithContext(ctx).Order("key asc").Find(&list).Error
	return list, err
}

func (r *settingRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	var s model.Setting
	if err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingRepository) Upsert(ctx context.Context, s *model.Setting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(s).Error
}
