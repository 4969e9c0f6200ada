package service

import (
	"errors"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/pricing"
)

// PricingService resolves the price triangle of a product form as the user
// edits one field. Nothing is persisted.
type PricingService interface {
	Resolve(req dto.ResolvePriceRequest) (*dto.ResolvePriceResponse, error)
}

type pricingService struct{}

func NewPricingService() PricingService { return pricingService{} }

func (pricingService) Resolve(req dto.ResolvePriceRequest) (*dto.ResolvePriceResponse, error) {
	t := pricing.Triangle{Cost: req.CostPrice, Selling: req.SellingPrice, Margin: req.ProfitMargin}
	out, err := t.Edit(pricing.Field(req.Field), req.Value)
	if errors.Is(err, pricing.ErrUnknownField) {
		return nil, invalid("field", err.Error())
	}
	if err != nil {
		return nil, err
	}
	return &dto.ResolvePriceResponse{
		CostPrice:    out.Cost,
		SellingPrice: out.Selling,
		ProfitMargin: out.Margin,
		Advisory:     string(out.Advisory()),
	}, nil
}
