package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultLowStockThreshold applies when a product is created without an explicit threshold.
const DefaultLowStockThreshold = 5

// Product is a catalog entry. CostPrice, SellingPrice and ProfitMargin form a
// triangle where any one is derivable from the other two; the relation is
// enforced by the pricing package on write, not by the database.
type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"index;not null"`
	Quantity     int             `gorm:"not null;default:0"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ProfitMargin is a percentage over cost; negative when selling below cost.
	ProfitMargin      decimal.Decimal `gorm:"type:decimal(9,2);not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:5"`
	// CategoryID is a soft reference: deleting the category leaves it dangling.
	CategoryID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// TagIDs is hydrated from product_tags by the repository.
	TagIDs []uuid.UUID `gorm:"-"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// IsLowStock reports whether the quantity is under the product's threshold,
// falling back to def when the stored threshold is not positive.
func (p Product) IsLowStock(def int) bool {
	threshold := p.LowStockThreshold
	if threshold <= 0 {
		threshold = def
	}
	return p.Quantity < threshold
}

// ProductTag links a product to a tag. No foreign keys: a deleted tag simply
// stops resolving.
type ProductTag struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagID     uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}
