package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products. Name uniqueness is case-insensitive (see
// infra.applySchemaPatches for the lower(name) index).
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Color     string    `gorm:"type:varchar(16);not null;default:'#808080'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Category) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Tag is a free-form product label.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Color     string    `gorm:"type:varchar(16);not null;default:'#808080'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Tag) BeforeCreate(_ *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
