package dto

import "github.com/shopspring/decimal"

// ResolvePriceRequest is the product form state plus the field just edited.
type ResolvePriceRequest struct {
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	Field        string          `json:"field" validate:"required,oneof=cost_price selling_price profit_margin"`
	Value        decimal.Decimal `json:"value"`
}

type ResolvePriceResponse struct {
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	Advisory     string          `json:"advisory,omitempty"`
}
