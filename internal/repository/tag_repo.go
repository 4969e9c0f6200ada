package repository

import (
	"context"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagRepository interface {
	Create(ctx context.Context, t *model.Tag) error
	List(ctx context.Context) ([]model.Tag, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	FindByName(ctx context.Context, name string) (*model.Tag, error)
	Update(ctx context.Context, t *model.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type tagRepository struct{ db *gorm.DB }

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, t *model.Tag) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tagRepository) List(ctx context.Context) ([]model.Tag, error) {
	var list []model.Tag
	err := r.db.WithContext(ctx).Order("lower(name) asc").Find(&list).Error
	return list, err
}

func (r *tagRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepository) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).Where("lower(name) = lower(?)", name).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepository) Update(ctx context.Context, t *model.Tag) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete keeps the product_tags links; they stop resolving to a tag.
func (r *tagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Tag{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
