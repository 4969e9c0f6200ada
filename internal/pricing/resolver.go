// Package pricing keeps cost price, selling price and profit margin
// consistent. Margin is a percentage markup over cost:
//
//	margin  = (selling - cost) / cost * 100
//	selling = cost * (1 + margin/100)
//
// Functions here are pure; persistence and confirmation flows live in the
// service layer.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
	one     = decimal.NewFromInt(1)
)

var (
	ErrCostPriceRequired    = errors.New("cost price must be greater than zero")
	ErrSellingPriceRequired = errors.New("selling price must be greater than zero")
	ErrUnknownField         = errors.New("unknown price field")
)

// Advisory is a non-blocking condition the caller must confirm.
type Advisory string

const (
	AdvisoryNone      Advisory = ""
	AdvisoryBelowCost Advisory = "selling_below_cost"
)

// Round2 rounds half-up on the value scaled by 100: floor(x*100 + 0.5) / 100.
func Round2(x decimal.Decimal) decimal.Decimal {
	return x.Mul(hundred).Add(half).Floor().Div(hundred)
}

// MarginFromPrices derives the margin from cost and selling price. ok is
// false when cost <= 0: the margin is undefined and must be left unchanged.
func MarginFromPrices(cost, selling decimal.Decimal) (margin decimal.Decimal, ok bool) {
	if !cost.IsPositive() {
		return decimal.Zero, false
	}
	return selling.Sub(cost).Div(cost).Mul(hundred), true
}

// SellingFromCostAndMargin derives the selling price. ok is false when
// cost <= 0 or margin < 0; the selling price must be left unchanged.
func SellingFromCostAndMargin(cost, margin decimal.Decimal) (selling decimal.Decimal, ok bool) {
	if !cost.IsPositive() || margin.IsNegative() {
		return decimal.Zero, false
	}
	return cost.Mul(factor(margin)), true
}

// BelowCost reports the advisory condition selling < cost.
func BelowCost(cost, selling decimal.Decimal) bool {
	return selling.LessThan(cost)
}

// ValidateSave checks the prices of a product about to be persisted.
// Errors block the save; a non-empty Advisory needs explicit confirmation.
func ValidateSave(cost, selling decimal.Decimal) (Advisory, error) {
	if !cost.IsPositive() {
		return AdvisoryNone, ErrCostPriceRequired
	}
	if !selling.IsPositive() {
		return AdvisoryNone, ErrSellingPriceRequired
	}
	if BelowCost(cost, selling) {
		return AdvisoryBelowCost, nil
	}
	return AdvisoryNone, nil
}

// Field names one corner of the price triangle.
type Field string

const (
	FieldCost    Field = "cost_price"
	FieldSelling Field = "selling_price"
	FieldMargin  Field = "profit_margin"
)

// Triangle is the editable {cost, selling, margin} triple of a product form.
type Triangle struct {
	Cost    decimal.Decimal `json:"cost_price"`
	Selling decimal.Decimal `json:"selling_price"`
	Margin  decimal.Decimal `json:"profit_margin"`
}

// Edit sets one field and recomputes the dependent one: editing cost or
// margin re-derives the selling price, editing the selling price re-derives
// the margin. Derivations that are undefined leave the old value in place.
func (t Triangle) Edit(field Field, value decimal.Decimal) (Triangle, error) {
	switch field {
	case FieldCost:
		t.Cost = value
		if s, ok := SellingFromCostAndMargin(t.Cost, t.Margin); ok {
			t.Selling = Round2(s)
		}
	case FieldMargin:
		t.Margin = value
		if s, ok := SellingFromCostAndMargin(t.Cost, t.Margin); ok {
			t.Selling = Round2(s)
		}
	case FieldSelling:
		t.Selling = value
		if m, ok := MarginFromPrices(t.Cost, t.Selling); ok {
			t.Margin = Round2(m)
		}
	default:
		return t, ErrUnknownField
	}
	return t, nil
}

// Advisory returns AdvisoryBelowCost when the triangle sells under cost.
func (t Triangle) Advisory() Advisory {
	if BelowCost(t.Cost, t.Selling) {
		return AdvisoryBelowCost
	}
	return AdvisoryNone
}

func factor(pct decimal.Decimal) decimal.Decimal {
	return one.Add(pct.Div(hundred))
}
