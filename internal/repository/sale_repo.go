package repository

import (
	"context"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleQuery filters sales by date (zero bounds are open) and payment method.
// Limit 0 returns every match.
type SaleQuery struct {
	From          time.Time
	To            time.Time
	PaymentMethod string
	Page          int
	Limit         int
}

type SaleRepository interface {
	// Create inserts the sale together with its items.
	Create(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, q SaleQuery) ([]model.Sale, int64, error)
	// ListWithoutCashTransaction returns sales that have no sale-typed ledger row.
	ListWithoutCashTransaction(ctx context.Context) ([]model.Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) Create(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, q SaleQuery) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Sale{})
	if !q.From.IsZero() {
		tx = tx.Where("date >= ?", q.From)
	}
	if !q.To.IsZero() {
		tx = tx.Where("date <= ?", q.To)
	}
	if q.PaymentMethod != "" {
		tx = tx.Where("payment_method = ?", q.PaymentMethod)
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	tx = tx.Preload("Items").Order("date DESC")
	if q.Limit > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		tx = tx.Limit(q.Limit).Offset((page - 1) * q.Limit)
	}
	err := tx.Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) ListWithoutCashTransaction(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM cash_transactions ct WHERE ct.reference_id = sales.id AND ct.type = ?)", model.CashSale).
		Order("date ASC").
		Find(&sales).Error
	return sales, err
}

// Delete removes the sale and its items. Ledger rows and stock are handled by
// the caller.
func (r *saleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&model.SaleItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Sale{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
