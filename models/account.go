package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types mirror what the frontend offers in its account picker.
const (
	AccountChecking   = "checking"
	AccountSavings    = "savings"
	AccountCredit     = "credit"
	AccountInvestment = "investment"
	AccountCash       = "cash"
	AccountOther      = "other"
)

type Account struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreateAccountRequest struct {
	Name        string           `json:"name" binding:"required,max=100"`
	Type        string           `json:"type" binding:"required,oneof=checking savings credit investment cash other"`
	Balance     *decimal.Decimal `json:"balance"`
	Currency    string           `json:"currency" binding:"omitempty,len=3,uppercase"`
	Description string           `json:"description" binding:"max=500"`
}

type UpdateAccountRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Type        *string          `json:"type" binding:"omitempty,oneof=checking savings credit investment cash other"`
	Balance     *decimal.Decimal `json:"balance"`
	Currency    *string          `json:"currency" binding:"omitempty,len=3,uppercase"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool            `json:"is_active"`
}
