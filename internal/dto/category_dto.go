package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name  string `json:"name"  validate:"required,min=1,max=60"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1,max=60"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

type CreateTagRequest struct {
	Name  string `json:"name"  validate:"required,min=1,max=60"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type UpdateTagRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1,max=60"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// BulkPriceUpdateRequest applies percentage changes to every product in a
// category. Cost and selling percentages multiply; the margin percentage is
// added to the margin.
type BulkPriceUpdateRequest struct {
	CostPricePercentage    *decimal.Decimal `json:"cost_price_percentage"`
	SellingPricePercentage *decimal.Decimal `json:"selling_price_percentage"`
	ProfitMarginPercentage *decimal.Decimal `json:"profit_margin_percentage"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type TagResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type BulkPriceUpdateResponse struct {
	CategoryID   string `json:"category_id"`
	UpdatedCount int    `json:"updated_count"`
}
