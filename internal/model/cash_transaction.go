package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashTransactionType classifies a ledger row. The sign of Amount is implied
// by the type and never stored.
type CashTransactionType string

const (
	CashSale       CashTransactionType = "sale"
	CashExpense    CashTransactionType = "expense"
	CashDeposit    CashTransactionType = "deposit"
	CashWithdrawal CashTransactionType = "withdrawal"
)

func (t CashTransactionType) Valid() bool {
	switch t {
	case CashSale, CashExpense, CashDeposit, CashWithdrawal:
		return true
	}
	return false
}

// CashTransaction is one row of the cash register ledger.
// ReferenceID points at the originating Sale when Type is CashSale; at most
// one sale-typed row may exist per sale.
type CashTransaction struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Date        time.Time           `gorm:"not null;index"`
	Type        CashTransactionType `gorm:"type:varchar(16);not null;index"`
	Amount      decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Description string              `gorm:"not null;default:''"`
	ReferenceID *uuid.UUID          `gorm:"type:uuid;index"`
	CreatedAt   time.Time
}

func (c *CashTransaction) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
