package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoUpdateSelected is returned when a bulk update names no field at all.
var ErrNoUpdateSelected = errors.New("no update type selected")

// PercentageError lists every provided percentage that is unusable, keyed by
// its request field name.
type PercentageError struct {
	Fields map[string]string
}

func (e *PercentageError) Error() string { return "invalid percentage" }

// Prices is the pricing snapshot of one product.
type Prices struct {
	Cost    decimal.Decimal
	Selling decimal.Decimal
	Margin  decimal.Decimal
}

// Change holds only the fields whose value differs from the snapshot.
type Change struct {
	Cost    *decimal.Decimal
	Selling *decimal.Decimal
	Margin  *decimal.Decimal
}

func (c Change) Empty() bool {
	return c.Cost == nil && c.Selling == nil && c.Margin == nil
}

// Merge returns p with the changed fields applied.
func (c Change) Merge(p Prices) Prices {
	if c.Cost != nil {
		p.Cost = *c.Cost
	}
	if c.Selling != nil {
		p.Selling = *c.Selling
	}
	if c.Margin != nil {
		p.Margin = *c.Margin
	}
	return p
}

// BulkUpdate is a category-wide percentage adjustment. Cost and selling
// percentages are multiplicative; the margin percentage is added to the
// margin itself.
type BulkUpdate struct {
	CostPricePercentage    *decimal.Decimal `json:"cost_price_percentage"`
	SellingPricePercentage *decimal.Decimal `json:"selling_price_percentage"`
	ProfitMarginPercentage *decimal.Decimal `json:"profit_margin_percentage"`
}

func (b BulkUpdate) Validate() error {
	if b.CostPricePercentage == nil && b.SellingPricePercentage == nil && b.ProfitMarginPercentage == nil {
		return ErrNoUpdateSelected
	}
	fields := map[string]string{}
	check := func(name string, pct *decimal.Decimal) {
		if pct != nil && pct.IsZero() {
			fields[name] = "invalid percentage"
		}
	}
	check("cost_price_percentage", b.CostPricePercentage)
	check("selling_price_percentage", b.SellingPricePercentage)
	check("profit_margin_percentage", b.ProfitMarginPercentage)
	if len(fields) > 0 {
		return &PercentageError{Fields: fields}
	}
	return nil
}

// Apply resolves the update against one product. Later rules override values
// derived by earlier ones:
//
//  1. cost%    → cost    = round2(cost * (1 + pct/100))
//  2. margin%  → margin  = round2(margin + pct)
//  3. selling% → selling = round2(selling * (1 + pct/100))
//  4. else if the margin moved and a cost is known → selling from cost and new margin
//  5. else if only the cost moved and the product has a margin → selling from new cost and old margin
//  6. if the selling price moved and the margin was not set explicitly → margin re-derived
func (b BulkUpdate) Apply(p Prices) Change {
	newCost := p.Cost
	costChanged := false
	if b.CostPricePercentage != nil {
		newCost = Round2(p.Cost.Mul(factor(*b.CostPricePercentage)))
		costChanged = true
	}

	newMargin := p.Margin
	marginExplicit := false
	if b.ProfitMarginPercentage != nil {
		newMargin = Round2(p.Margin.Add(*b.ProfitMarginPercentage))
		marginExplicit = true
	}

	newSelling := p.Selling
	sellingChanged := false
	switch {
	case b.SellingPricePercentage != nil:
		newSelling = Round2(p.Selling.Mul(factor(*b.SellingPricePercentage)))
		sellingChanged = true
	case marginExplicit && newCost.IsPositive():
		newSelling = Round2(newCost.Mul(factor(newMargin)))
		sellingChanged = true
	case costChanged && !p.Margin.IsZero():
		newSelling = Round2(newCost.Mul(factor(p.Margin)))
		sellingChanged = true
	}

	if sellingChanged && !marginExplicit {
		if m, ok := MarginFromPrices(newCost, newSelling); ok {
			newMargin = Round2(m)
		}
	}

	var c Change
	if !newCost.Equal(p.Cost) {
		c.Cost = &newCost
	}
	if !newSelling.Equal(p.Selling) {
		c.Selling = &newSelling
	}
	if !newMargin.Equal(p.Margin) {
		c.Margin = &newMargin
	}
	return c
}
