package model

import "time"

// Setting is a key/value pair of business preferences (name, currency, ...).
type Setting struct {
	Key       string `gorm:"type:varchar(64);primaryKey"`
	Value     string `gorm:"not null;default:''"`
	UpdatedAt time.Time
}
