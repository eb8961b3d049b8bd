package models

import "github.com/shopspring/decimal"

// StatsOverview is the dashboard rollup, recomputed on every request.
type StatsOverview struct {
	TotalAccounts   int             `json:"total_accounts"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	TotalBudgets    int             `json:"total_budgets"`
	ExceededBudgets int             `json:"exceeded_budgets"`
}
