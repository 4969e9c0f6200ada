// Package report computes the statistics dashboard figures: catalog-based
// potential profit and sales-based realized profit over a date range.
package report

import (
	"errors"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PotentialStats struct {
	TotalProducts    int             `json:"total_products"`
	TotalValue       decimal.Decimal `json:"total_value"`
	LowStockProducts int             `json:"low_stock_products"`
	InvestedMoney    decimal.Decimal `json:"invested_money"`
	PotentialIncome  decimal.Decimal `json:"potential_income"`
	PotentialProfit  decimal.Decimal `json:"potential_profit"`
}

// Potential scans the catalog. defaultThreshold applies to products whose own
// low-stock threshold is unset.
func Potential(products []model.Product, defaultThreshold int) PotentialStats {
	invested := decimal.Zero
	income := decimal.Zero
	low := 0
	for _, p := range products {
		qty := decimal.NewFromInt(int64(p.Quantity))
		invested = invested.Add(p.CostPrice.Mul(qty))
		income = income.Add(p.SellingPrice.Mul(qty))
		if p.IsLowStock(defaultThreshold) {
			low++
		}
	}
	return PotentialStats{
		TotalProducts:    len(products),
		TotalValue:       income,
		LowStockProducts: low,
		InvestedMoney:    invested,
		PotentialIncome:  income,
		PotentialProfit:  income.Sub(invested),
	}
}

type RangeKind string

const (
	RangeAll     RangeKind = "all"
	RangeMonthly RangeKind = "monthly"
	RangeCustom  RangeKind = "custom"
)

var (
	ErrUnknownRange     = errors.New("unknown range")
	ErrCustomRangeBound = errors.New("custom range requires start and end")
	ErrInvertedRange    = errors.New("range start is after end")
)

// Range selects the records a realized report covers. Start and End are only
// read for RangeCustom.
type Range struct {
	Kind  RangeKind
	Start time.Time
	End   time.Time
}

// Resolve returns the concrete bounds for now. For RangeAll both are zero.
// Monthly runs from the first day of now's month at 00:00 through now.
func (r Range) Resolve(now time.Time) (Range, error) {
	switch r.Kind {
	case RangeAll, "":
		return Range{Kind: RangeAll}, nil
	case RangeMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Range{Kind: RangeMonthly, Start: start, End: now}, nil
	case RangeCustom:
		if r.Start.IsZero() || r.End.IsZero() {
			return r, ErrCustomRangeBound
		}
		if r.Start.After(r.End) {
			return r, ErrInvertedRange
		}
		return r, nil
	}
	return r, ErrUnknownRange
}

// Contains reports whether t falls inside a resolved range, bounds inclusive.
// A zero t never matches.
func (r Range) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	if r.Kind == RangeAll || r.Kind == "" {
		return true
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

type RealizedStats struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
}

// Realized computes income from sale totals, expenses from expense and
// withdrawal transactions, and profit by pricing every sold item against the
// product's current cost. Items whose product no longer exists contribute
// nothing. rng must already be resolved.
func Realized(sales []model.Sale, txs []model.CashTransaction, costByProduct map[uuid.UUID]decimal.Decimal, rng Range) RealizedStats {
	income := decimal.Zero
	itemProfit := decimal.Zero
	for _, s := range sales {
		if !rng.Contains(s.Date) {
			continue
		}
		income = income.Add(s.TotalAmount)
		for _, it := range s.Items {
			cost, ok := costByProduct[it.ProductID]
			if !ok {
				continue
			}
			itemProfit = itemProfit.Add(it.UnitPrice.Sub(cost).Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	expenses := decimal.Zero
	for _, tx := range txs {
		if !rng.Contains(tx.Date) {
			continue
		}
		if tx.Type == model.CashExpense || tx.Type == model.CashWithdrawal {
			expenses = expenses.Add(tx.Amount)
		}
	}

	return RealizedStats{
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetIncome:     income.Sub(expenses),
		TotalProfit:   pricing.Round2(itemProfit.Sub(expenses)),
	}
}

// CostIndex maps product ids to their current cost price.
func CostIndex(products []model.Product) map[uuid.UUID]decimal.Decimal {
	idx := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		idx[p.ID] = p.CostPrice
	}
	return idx
}
