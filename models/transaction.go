package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome   = "income"
	TransactionExpense  = "expense"
	TransactionTransfer = "transfer"
)

// Transaction records a single money movement. Amount is always stored
// positive; the sign applied to the account balance is derived from Type.
type Transaction struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	AccountID           string          `json:"account_id"`
	Amount              decimal.Decimal `json:"amount"`
	Type                string          `json:"type"`
	Category            string          `json:"category"`
	Description         string          `json:"description,omitempty"`
	Date                time.Time       `json:"date"`
	Tags                []string        `json:"tags,omitempty"`
	TransferToAccountID string          `json:"transfer_to_account_id,omitempty"`
	AccountName         string          `json:"account_name,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type CreateTransactionRequest struct {
	AccountID           string          `json:"account_id" binding:"required,uuid"`
	Amount              decimal.Decimal `json:"amount" binding:"required"`
	Type                string          `json:"type" binding:"required,oneof=income expense transfer"`
	Category            string          `json:"category" binding:"required,max=50"`
	Description         string          `json:"description" binding:"max=500"`
	Date                *time.Time      `json:"date"`
	Tags                []string        `json:"tags" binding:"omitempty,dive,max=30"`
	TransferToAccountID string          `json:"transfer_to_account_id" binding:"omitempty,uuid"`
}

type UpdateTransactionRequest struct {
	AccountID           *string          `json:"account_id" binding:"omitempty,uuid"`
	Amount              *decimal.Decimal `json:"amount"`
	Type                *string          `json:"type" binding:"omitempty,oneof=income expense transfer"`
	Category            *string          `json:"category" binding:"omitempty,max=50"`
	Description         *string          `json:"description" binding:"omitempty,max=500"`
	Date                *time.Time       `json:"date"`
	Tags                []string         `json:"tags" binding:"omitempty,dive,max=30"`
	TransferToAccountID *string          `json:"transfer_to_account_id" binding:"omitempty,uuid"`
}

// TransactionFilter narrows GET /transactions. Zero values mean "no filter".
type TransactionFilter struct {
	AccountID string
	Category  string
	Type      string
	StartDate time.Time
	EndDate   time.Time
}
