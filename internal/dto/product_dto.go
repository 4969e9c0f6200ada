package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateProductRequest carries no validate tags on the prices: zero or
// negative prices are rejected by the pricing rules with field-specific
// messages.
type CreateProductRequest struct {
	Name              string          `json:"name"                validate:"required,min=1,max=120"`
	Quantity          int             `json:"quantity"            validate:"min=0"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	LowStockThreshold *int            `json:"low_stock_threshold" validate:"omitempty,min=0"`
	CategoryID        *string         `json:"category_id"         validate:"omitempty,uuid"`
	TagIDs            []string        `json:"tag_ids"             validate:"omitempty,dive,uuid"`
	ConfirmBelowCost  bool            `json:"confirm_below_cost"`
}

// UpdateProductRequest: nil fields are left unchanged. An empty category_id
// clears the category; a present tag_ids replaces the whole set.
type UpdateProductRequest struct {
	Name              *string          `json:"name"                validate:"omitempty,min=1,max=120"`
	Quantity          *int             `json:"quantity"            validate:"omitempty,min=0"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	SellingPrice      *decimal.Decimal `json:"selling_price"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
	CategoryID        *string          `json:"category_id"         validate:"omitempty,uuid"`
	TagIDs            *[]string        `json:"tag_ids"`
	ConfirmBelowCost  bool             `json:"confirm_below_cost"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id" validate:"omitempty,uuid"`
	TagID      string `form:"tag_id"      validate:"omitempty,uuid"`
	LowStock   bool   `form:"low_stock"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Quantity          int             `json:"quantity"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	ProfitMargin      decimal.Decimal `json:"profit_margin"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	CategoryID        *string         `json:"category_id"`
	TagIDs            []string        `json:"tag_ids"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type PriceHistoryResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	CostBefore    decimal.Decimal `json:"cost_before"`
	CostAfter     decimal.Decimal `json:"cost_after"`
	SellingBefore decimal.Decimal `json:"selling_before"`
	SellingAfter  decimal.Decimal `json:"selling_after"`
	MarginBefore  decimal.Decimal `json:"margin_before"`
	MarginAfter   decimal.Decimal `json:"margin_after"`
	Reason        string          `json:"reason"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PriceHistoryListResponse outlives the product: rows stay after a delete.
type PriceHistoryListResponse struct {
	Data  []PriceHistoryResponse `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}
