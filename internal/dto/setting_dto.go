package dto

import "time"

type UpsertSettingRequest struct {
	Value string `json:"value" validate:"max=4096"`
}

type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
