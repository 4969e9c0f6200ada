package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Price change reasons.
const (
	PriceReasonManual = "manual"
	PriceReasonBulk   = "bulk_category_update"
)

// PriceHistory records every price change of a product.
// Rows are append-only: never updated or deleted.
type PriceHistory struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostBefore    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostAfter     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingBefore decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MarginBefore  decimal.Decimal `gorm:"type:decimal(9,2);not null"`
	MarginAfter   decimal.Decimal `gorm:"type:decimal(9,2);not null"`
	Reason        string          `gorm:"type:varchar(32);not null;default:'manual'"`
	CreatedAt     time.Time
}

func (h *PriceHistory) BeforeCreate(_ *gorm.DB) error {
	ensureID(&h.ID)
	return nil
}

// TableName keeps the plural stable regardless of GORM's inflection rules.
func (PriceHistory) TableName() string { return "price_histories" }
