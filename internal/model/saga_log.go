package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SagaLog stores a multi-step operation that stopped partway. There is no
// automatic compensation; operators reconcile from these rows.
type SagaLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Operation      string    `gorm:"type:varchar(64);not null;index"`
	Reference      string    `gorm:"type:varchar(64);not null"`
	CompletedSteps string    `gorm:"not null;default:''"` // comma separated, in execution order
	FailedStep     string    `gorm:"type:varchar(64);not null"`
	Error          string    `gorm:"not null"`
	CreatedAt      time.Time
}

func (l *SagaLog) BeforeCreate(_ *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
