package dto

import (
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dates"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateCashTransactionRequest records a manual movement. Sale-typed rows
// are only created by sale completion and quote conversion.
type CreateCashTransactionRequest struct {
	Type        string          `json:"type"        validate:"required,oneof=expense deposit withdrawal"`
	Amount      decimal.Decimal `json:"amount"      validate:"required"`
	Description string          `json:"description" validate:"max=255"`
	Date        *dates.Flexible `json:"date"`
}

type CashTransactionFilter struct {
	RangeQuery
	Type string `form:"type" validate:"omitempty,oneof=sale expense deposit withdrawal"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CashTransactionResponse struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ReferenceID *string         `json:"reference_id"`
}

type CashBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type CashSummaryResponse struct {
	Range            string          `json:"range"`
	Start            *time.Time      `json:"start"`
	End              *time.Time      `json:"end"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	NetIncome        decimal.Decimal `json:"net_income"`
	Count            int             `json:"count"`
}

type CashSyncResponse struct {
	Created int `json:"created"`
}
