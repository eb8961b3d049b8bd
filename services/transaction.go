package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cadizmarco/MoneyTracker/models"
	"github.com/cadizmarco/MoneyTracker/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type TransactionService struct {
	db *sql.DB
}

func NewTransactionService(db *sql.DB) *TransactionService {
	return &TransactionService{db: db}
}

const transactionColumns = `
	t.id, t.user_id, t.account_id, t.amount, t.type, t.category,
	COALESCE(t.description, ''), t.date, t.tags, t.transfer_to_account_id,
	t.created_at, t.updated_at, a.name`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	var tags pq.StringArray
	var transferTo sql.NullString

	err := row.Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.Amount, &t.Type, &t.Category,
		&t.Description, &t.Date, &tags, &transferTo,
		&t.CreatedAt, &t.UpdatedAt, &t.AccountName,
	)
	if err != nil {
		return nil, err
	}

	t.Tags = []string(tags)
	if transferTo.Valid {
		t.TransferToAccountID = transferTo.String
	}
	return &t, nil
}

// List returns the caller's transactions, newest first, narrowed by filter.
func (s *TransactionService) List(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT ` + transactionColumns + `
		FROM transactions t
		INNER JOIN accounts a ON t.account_id = a.id
		WHERE t.user_id = $1`)

	args := []interface{}{userID}
	addArg := func(clause string, v interface{}) {
		args = append(args, v)
		sb.WriteString(" AND " + clause + "$" + strconv.Itoa(len(args)))
	}

	if filter.AccountID != "" {
		addArg("t.account_id = ", filter.AccountID)
	}
	if filter.Category != "" {
		addArg("t.category = ", filter.Category)
	}
	if filter.Type != "" {
		addArg("t.type = ", filter.Type)
	}
	if !filter.StartDate.IsZero() {
		addArg("t.date >= ", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		addArg("t.date <= ", filter.EndDate)
	}
	sb.WriteString(" ORDER BY t.date DESC, t.created_at DESC")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func (s *TransactionService) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		INNER JOIN accounts a ON t.account_id = a.id
		WHERE t.id = $1 AND t.user_id = $2`, id, userID)

	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// Create persists a new transaction and applies its balance and budget
// deltas inside one database transaction, so a failure leaves nothing
// half-written and concurrent writers cannot lose an increment.
func (s *TransactionService) Create(ctx context.Context, userID string, req models.CreateTransactionRequest) (*models.Transaction, error) {
	if req.Amount.Sign() <= 0 {
		return nil, validationErr("amount must be positive")
	}
	if req.Type == models.TransactionTransfer {
		if req.TransferToAccountID == "" {
			return nil, validationErr("transfer_to_account_id is required for transfers")
		}
		if req.TransferToAccountID == req.AccountID {
			return nil, validationErr("cannot transfer to the same account")
		}
	} else if req.TransferToAccountID != "" {
		return nil, validationErr("transfer_to_account_id is only valid for transfers")
	}

	t := &models.Transaction{
		ID:                  uuid.New().String(),
		UserID:              userID,
		AccountID:           req.AccountID,
		Amount:              req.Amount,
		Type:                req.Type,
		Category:            req.Category,
		Description:         req.Description,
		Date:                time.Now().UTC(),
		Tags:                req.Tags,
		TransferToAccountID: req.TransferToAccountID,
	}
	if req.Date != nil {
		t.Date = *req.Date
	}

	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := requireAccount(ctx, tx, userID, t.AccountID); err != nil {
			return err
		}
		if t.TransferToAccountID != "" {
			if err := requireAccount(ctx, tx, userID, t.TransferToAccountID); err != nil {
				return err
			}
		}

		var transferTo interface{}
		if t.TransferToAccountID != "" {
			transferTo = t.TransferToAccountID
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, user_id, account_id, amount, type, category, description, date, tags, transfer_to_account_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, t.ID, t.UserID, t.AccountID, t.Amount, t.Type, t.Category, t.Description, t.Date, pq.Array(t.Tags), transferTo)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		if err := applyAccountAdjustments(ctx, tx, userID, AccountAdjustments(nil, t)); err != nil {
			return err
		}
		return reconcileBudgets(ctx, tx, userID, nil, t)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, t.ID)
}

// Update undoes the old transaction's effect and applies the new one,
// across two accounts when the account reference changed.
func (s *TransactionService) Update(ctx context.Context, userID, id string, req models.UpdateTransactionRequest) (*models.Transaction, error) {
	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		old, err := lockTransaction(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		updated := *old
		if req.AccountID != nil {
			updated.AccountID = *req.AccountID
		}
		if req.Amount != nil {
			updated.Amount = *req.Amount
		}
		if req.Type != nil {
			updated.Type = *req.Type
		}
		if req.Category != nil {
			updated.Category = *req.Category
		}
		if req.Description != nil {
			updated.Description = *req.Description
		}
		if req.Date != nil {
			updated.Date = *req.Date
		}
		if req.Tags != nil {
			updated.Tags = req.Tags
		}
		if req.TransferToAccountID != nil {
			updated.TransferToAccountID = *req.TransferToAccountID
		}

		if updated.Amount.Sign() <= 0 {
			return validationErr("amount must be positive")
		}
		if updated.Type == models.TransactionTransfer {
			if updated.TransferToAccountID == "" {
				return validationErr("transfer_to_account_id is required for transfers")
			}
			if updated.TransferToAccountID == updated.AccountID {
				return validationErr("cannot transfer to the same account")
			}
		} else {
			updated.TransferToAccountID = ""
		}

		if updated.AccountID != old.AccountID {
			if err := requireAccount(ctx, tx, userID, updated.AccountID); err != nil {
				return err
			}
		}
		if updated.TransferToAccountID != "" && updated.TransferToAccountID != old.TransferToAccountID {
			if err := requireAccount(ctx, tx, userID, updated.TransferToAccountID); err != nil {
				return err
			}
		}

		var transferTo interface{}
		if updated.TransferToAccountID != "" {
			transferTo = updated.TransferToAccountID
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE transactions
			SET account_id = $1, amount = $2, type = $3, category = $4, description = $5,
			    date = $6, tags = $7, transfer_to_account_id = $8, updated_at = NOW()
			WHERE id = $9 AND user_id = $10
		`, updated.AccountID, updated.Amount, updated.Type, updated.Category, updated.Description,
			updated.Date, pq.Array(updated.Tags), transferTo, id, userID)
		if err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}

		if err := applyAccountAdjustments(ctx, tx, userID, AccountAdjustments(old, &updated)); err != nil {
			return err
		}
		return reconcileBudgets(ctx, tx, userID, old, &updated)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, id)
}

// Delete removes the transaction and reverses its balance and budget effects.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	return utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		old, err := lockTransaction(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}

		if err := applyAccountAdjustments(ctx, tx, userID, AccountAdjustments(old, nil)); err != nil {
			return err
		}
		return reconcileBudgets(ctx, tx, userID, old, nil)
	})
}

// lockTransaction loads a transaction row FOR UPDATE, scoped to its owner.
func lockTransaction(ctx context.Context, tx *sql.Tx, userID, id string) (*models.Transaction, error) {
	var t models.Transaction
	var tags pq.StringArray
	var transferTo sql.NullString

	err := tx.QueryRowContext(ctx, `
		SELECT id, user_id, account_id, amount, type, category, COALESCE(description, ''),
		       date, tags, transfer_to_account_id, created_at, updated_at
		FROM transactions
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`, id, userID).Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.Amount, &t.Type, &t.Category, &t.Description,
		&t.Date, &tags, &transferTo, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load transaction: %w", err)
	}

	t.Tags = []string(tags)
	if transferTo.Valid {
		t.TransferToAccountID = transferTo.String
	}
	return &t, nil
}

func requireAccount(ctx context.Context, tx *sql.Tx, userID, accountID string) error {
	var exists bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2)
	`, accountID, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func applyAccountAdjustments(ctx context.Context, tx *sql.Tx, userID string, adjustments []AccountAdjustment) error {
	for _, adj := range adjustments {
		result, err := tx.ExecContext(ctx, `
			UPDATE accounts
			SET balance = balance + $1, updated_at = NOW()
			WHERE id = $2 AND user_id = $3
		`, adj.Delta, adj.AccountID, userID)
		if err != nil {
			return fmt.Errorf("adjust account balance: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// reconcileBudgets loads the budgets touched by the old and new category
// and applies the spent deltas, floored at zero.
func reconcileBudgets(ctx context.Context, tx *sql.Tx, userID string, old, new *models.Transaction) error {
	var oldCandidates, newCandidates []models.Budget
	var err error

	if old != nil {
		oldCandidates, err = candidateBudgets(ctx, tx, userID, old.Category)
		if err != nil {
			return err
		}
	}
	if new != nil {
		if old != nil && new.Category == old.Category {
			newCandidates = oldCandidates
		} else {
			newCandidates, err = candidateBudgets(ctx, tx, userID, new.Category)
			if err != nil {
				return err
			}
		}
	}

	for _, adj := range BudgetAdjustments(old, new, oldCandidates, newCandidates) {
		_, err := tx.ExecContext(ctx, `
			UPDATE budgets
			SET spent = GREATEST(spent + $1, 0), updated_at = NOW()
			WHERE id = $2
		`, adj.Delta, adj.BudgetID)
		if err != nil {
			return fmt.Errorf("adjust budget spent: %w", err)
		}
	}
	return nil
}

func candidateBudgets(ctx context.Context, tx *sql.Tx, userID, category string) ([]models.Budget, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, user_id, name, category, amount, spent, period, start_date, end_date, is_active, created_at, updated_at
		FROM budgets
		WHERE user_id = $1 AND category = $2 AND is_active
		FOR UPDATE`, userID, category)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		var endDate sql.NullTime
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Category, &b.Amount, &b.Spent,
			&b.Period, &b.StartDate, &endDate, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if endDate.Valid {
			b.EndDate = &endDate.Time
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
