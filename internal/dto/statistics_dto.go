package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type PotentialStatsResponse struct {
	TotalProducts     int             `json:"total_products"`
	TotalValue        decimal.Decimal `json:"total_value"`
	LowStockProducts  int             `json:"low_stock_products"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	InvestedMoney     decimal.Decimal `json:"invested_money"`
	PotentialIncome   decimal.Decimal `json:"potential_income"`
	PotentialProfit   decimal.Decimal `json:"potential_profit"`
}

type RealizedStatsResponse struct {
	Range         string          `json:"range"`
	Start         *time.Time      `json:"start"`
	End           *time.Time      `json:"end"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
}
