package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cadizmarco/MoneyTracker/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountService struct {
	db *sql.DB
}

func NewAccountService(db *sql.DB) *AccountService {
	return &AccountService{db: db}
}

const accountColumns = `id, user_id, name, type, balance, currency, COALESCE(description, ''), is_active, created_at, updated_at`

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Currency,
		&a.Description, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AccountService) List(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (s *AccountService) Get(ctx context.Context, userID, id string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1 AND user_id = $2`, id, userID)

	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (s *AccountService) Create(ctx context.Context, userID string, req models.CreateAccountRequest) (*models.Account, error) {
	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, type, balance, currency, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, userID, req.Name, req.Type, balance, currency, req.Description)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return s.Get(ctx, userID, id)
}

func (s *AccountService) Update(ctx context.Context, userID, id string, req models.UpdateAccountRequest) (*models.Account, error) {
	a, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Type != nil {
		a.Type = *req.Type
	}
	if req.Balance != nil {
		a.Balance = *req.Balance
	}
	if req.Currency != nil {
		a.Currency = *req.Currency
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = $1, type = $2, balance = $3, currency = $4, description = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
	`, a.Name, a.Type, a.Balance, a.Currency, a.Description, a.IsActive, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, userID, id)
}

// Delete removes the account; its transactions go with it via the foreign
// key cascade. Budget spent totals that counted those expenses drift until
// the nightly recompute sweep catches up.
func (s *AccountService) Delete(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
