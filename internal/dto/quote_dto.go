package dto

import (
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dates"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type QuoteItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity"   validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type CreateQuoteRequest struct {
	CustomerName string             `json:"customer_name" validate:"required,min=1,max=120"`
	Date         *dates.Flexible    `json:"date"`
	Items        []QuoteItemRequest `json:"items"         validate:"required,min=1,dive"`
	ValidUntil   *dates.Flexible    `json:"valid_until"`
	Notes        *string            `json:"notes"         validate:"omitempty,max=500"`
}

// UpdateQuoteRequest: a present items list replaces every line.
type UpdateQuoteRequest struct {
	CustomerName *string            `json:"customer_name" validate:"omitempty,min=1,max=120"`
	Items        []QuoteItemRequest `json:"items"         validate:"omitempty,min=1,dive"`
	ValidUntil   *dates.Flexible    `json:"valid_until"`
	Notes        *string            `json:"notes"         validate:"omitempty,max=500"`
}

type ChangeQuoteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

type ConvertQuoteRequest struct {
	PaymentMethod string          `json:"payment_method" validate:"required,max=32"`
	Date          *dates.Flexible `json:"date"`
}

type QuoteFilter struct {
	Status string `form:"status" validate:"omitempty,oneof=pending approved rejected converted"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type QuoteItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type QuoteResponse struct {
	ID              string              `json:"id"`
	CustomerName    string              `json:"customer_name"`
	Date            time.Time           `json:"date"`
	Items           []QuoteItemResponse `json:"items"`
	Total           decimal.Decimal     `json:"total"`
	Status          string              `json:"status"`
	ValidUntil      *time.Time          `json:"valid_until"`
	Notes           *string             `json:"notes"`
	ConvertedSaleID *string             `json:"converted_sale_id"`
}

type ConvertQuoteResponse struct {
	Quote QuoteResponse `json:"quote"`
	Sale  SaleResponse  `json:"sale"`
}
