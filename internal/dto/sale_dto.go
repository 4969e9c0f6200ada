package dto

import (
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dates"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SaleItemRequest: unit_price defaults to the product's current selling price.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity"   validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type CreateSaleRequest struct {
	Date          *dates.Flexible   `json:"date"`
	Items         []SaleItemRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,max=32"`
	Notes         *string           `json:"notes"          validate:"omitempty,max=500"`
}

type SaleFilter struct {
	RangeQuery
	PaymentMethod string `form:"payment_method"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	Date          time.Time          `json:"date"`
	Items         []SaleItemResponse `json:"items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaymentMethod string             `json:"payment_method"`
	Notes         *string            `json:"notes"`
}

type SaleListResponse struct {
	Data       []SaleResponse `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}
