// Package ledger folds cash transactions into balances and period summaries.
package ledger

import (
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/shopspring/decimal"
)

// Signed returns the amount with the sign implied by the transaction type.
// Unknown types contribute zero.
func Signed(tx model.CashTransaction) decimal.Decimal {
	switch tx.Type {
	case model.CashSale, model.CashDeposit:
		return tx.Amount
	case model.CashExpense, model.CashWithdrawal:
		return tx.Amount.Neg()
	}
	return decimal.Zero
}

// Balance is the running total since inception.
func Balance(txs []model.CashTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(Signed(tx))
	}
	return total
}

type Summary struct {
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	NetIncome        decimal.Decimal `json:"net_income"`
	Count            int             `json:"count"`
}

// Summarize buckets transactions dated within [from, to]. A zero from or to
// leaves that side open. Transactions without a usable date are skipped.
// Deposits and withdrawals are owner cash movements and stay out of
// NetIncome.
func Summarize(txs []model.CashTransaction, from, to time.Time) Summary {
	s := Summary{
		TotalSales:       decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
	}
	for _, tx := range txs {
		if !within(tx.Date, from, to) {
			continue
		}
		switch tx.Type {
		case model.CashSale:
			s.TotalSales = s.TotalSales.Add(tx.Amount)
		case model.CashExpense:
			s.TotalExpenses = s.TotalExpenses.Add(tx.Amount)
		case model.CashDeposit:
			s.TotalDeposits = s.TotalDeposits.Add(tx.Amount)
		case model.CashWithdrawal:
			s.TotalWithdrawals = s.TotalWithdrawals.Add(tx.Amount)
		default:
			continue
		}
		s.Count++
	}
	s.NetIncome = s.TotalSales.Sub(s.TotalExpenses)
	return s
}

func within(t, from, to time.Time) bool {
	if t.IsZero() {
		return false
	}
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
