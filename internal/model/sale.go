package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a completed checkout. Item names and prices are captured at sale
// time, so later catalog edits or deletions do not rewrite history.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Date          time.Time       `gorm:"not null;index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(32);not null"`
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

func (s *Sale) BeforeCreate(_ *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// SaleItem is one line of a Sale. Subtotal = UnitPrice * Quantity.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (i *SaleItem) BeforeCreate(_ *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
