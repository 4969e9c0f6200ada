package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuoteStatus: pending, approved and rejected move freely between each other;
// converted is terminal and only reachable through conversion to a sale.
type QuoteStatus string

const (
	QuotePending   QuoteStatus = "pending"
	QuoteApproved  QuoteStatus = "approved"
	QuoteRejected  QuoteStatus = "rejected"
	QuoteConverted QuoteStatus = "converted"
)

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuotePending, QuoteApproved, QuoteRejected, QuoteConverted:
		return true
	}
	return false
}

type Quote struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerName string          `gorm:"not null"`
	Date         time.Time       `gorm:"not null;index"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status       QuoteStatus     `gorm:"type:varchar(16);not null;default:'pending';index"`
	ValidUntil   *time.Time
	Notes        *string
	// ConvertedSaleID is set once, by the conversion that produced the sale.
	ConvertedSaleID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []QuoteItem `gorm:"foreignKey:QuoteID"`
}

func (q *Quote) BeforeCreate(_ *gorm.DB) error {
	ensureID(&q.ID)
	return nil
}

type QuoteItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	QuoteID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (i *QuoteItem) BeforeCreate(_ *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
