package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodMonthly = "monthly"
	PeriodWeekly  = "weekly"
	PeriodYearly  = "yearly"
	PeriodCustom  = "custom"
)

// Budget caps spending for one category. Spent is a cached total kept in
// step with matching expense transactions; a budget matches a transaction
// when user, category (exact string) and period window all line up.
type Budget struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Spent     decimal.Decimal `json:"spent"`
	Period    string          `json:"period"`
	StartDate time.Time       `json:"start_date"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateBudgetRequest struct {
	Name      string          `json:"name" binding:"max=100"`
	Category  string          `json:"category" binding:"required,max=50"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Period    string          `json:"period" binding:"required,oneof=monthly weekly yearly custom"`
	StartDate *time.Time      `json:"start_date"`
	EndDate   *time.Time      `json:"end_date"`
}

type UpdateBudgetRequest struct {
	Name      *string          `json:"name" binding:"omitempty,max=100"`
	Category  *string          `json:"category" binding:"omitempty,max=50"`
	Amount    *decimal.Decimal `json:"amount"`
	Period    *string          `json:"period" binding:"omitempty,oneof=monthly weekly yearly custom"`
	StartDate *time.Time       `json:"start_date"`
	EndDate   *time.Time       `json:"end_date"`
	IsActive  *bool            `json:"is_active"`
}
