package repository

import (
	"context"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuoteRepository interface {
	Create(ctx context.Context, q *model.Quote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Quote, error)
	List(ctx context.Context, status model.QuoteStatus) ([]model.Quote, error)
	// Update saves the header; when replaceItems is set the item lines are
	// rewritten from q.Items.
	Update(ctx context.Context, q *model.Quote, replaceItems bool) error
	// UpdateStatus sets the status and, when saleID is non-nil, the converted sale.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuoteStatus, saleID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type quoteRepo struct{ db *gorm.DB }

func NewQuoteRepository(db *gorm.DB) QuoteRepository { return &quoteRepo{db: db} }

func (r *quoteRepo) Create(ctx context.Context, q *model.Quote) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *quoteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	var q model.Quote
	if err := r.db.WithContext(ctx).Preload("Items").First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quoteRepo) List(ctx context.Context, status model.QuoteStatus) ([]model.Quote, error) {
	var list []model.Quote
	q := r.db.WithContext(ctx).Preload("Items")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("date DESC").Find(&list).Error
	return list, err
}

func (r *quoteRepo) Update(ctx context.Context, q *model.Quote, replaceItems bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(q).Error; err != nil {
			return err
		}
		if !replaceItems {
			return nil
		}
		if err := tx.Where("quote_id = ?", q.ID).Delete(&model.QuoteItem{}).Error; err != nil {
			return err
		}
		for i := range q.Items {
			q.Items[i].ID = uuid.Nil
			q.Items[i].QuoteID = q.ID
		}
		if len(q.Items) == 0 {
			return nil
		}
		return tx.Create(&q.Items).Error
	})
}

func (r *quoteRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuoteStatus, saleID *uuid.UUID) error {
	fields := map[string]any{"status": status}
	if saleID != nil {
		fields["converted_sale_id"] = *saleID
	}
	res := r.db.WithContext(ctx).Model(&model.Quote{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *quoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&model.QuoteItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Quote{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
