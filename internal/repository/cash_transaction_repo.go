package repository

import (
	"context"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CashTransactionRepository is the ledger store. Rows are created and
// deleted, never updated.
type CashTransactionRepository interface {
	Create(ctx context.Context, tx *model.CashTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashTransaction, error)
	// List returns rows of the given type (empty = all) dated within
	// [from, to]; zero bounds are open.
	List(ctx context.Context, typ model.CashTransactionType, from, to time.Time) ([]model.CashTransaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteSaleReference removes the sale-typed row referencing saleID and
	// reports how many rows went away (0 or 1).
	DeleteSaleReference(ctx context.Context, saleID uuid.UUID) (int64, error)
}

type cashTransactionRepo struct{ db *gorm.DB }

func NewCashTransactionRepository(db *gorm.DB) CashTransactionRepository {
	return &cashTransactionRepo{db: db}
}

func (r *cashTransactionRepo) Create(ctx context.Context, tx *model.CashTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *cashTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashTransaction, error) {
	var t model.CashTransaction
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *cashTransactionRepo) List(ctx context.Context, typ model.CashTransactionType, from, to time.Time) ([]model.CashTransaction, error) {
	var rows []model.CashTransaction
	q := r.db.WithContext(ctx).Model(&model.CashTransaction{})
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to)
	}
	err := q.Order("date DESC").Find(&rows).Error
	return rows, err
}

func (r *cashTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.CashTransaction{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cashTransactionRepo) DeleteSaleReference(ctx context.Context, saleID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("reference_id = ? AND type = ?", saleID, model.CashSale).
		Delete(&model.CashTransaction{})
	return res.RowsAffected, res.Error
}
