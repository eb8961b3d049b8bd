package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/cadizmarco/MoneyTracker/models"
	"github.com/cadizmarco/MoneyTracker/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type BudgetService struct {
	db *sql.DB
}

func NewBudgetService(db *sql.DB) *BudgetService {
	return &BudgetService{db: db}
}

const budgetColumns = `id, user_id, name, category, amount, spent, period, start_date, end_date, is_active, created_at, updated_at`

func scanBudget(row rowScanner) (*models.Budget, error) {
	var b models.Budget
	var endDate sql.NullTime
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Category, &b.Amount, &b.Spent,
		&b.Period, &b.StartDate, &endDate, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		b.EndDate = &endDate.Time
	}
	return &b, nil
}

func (s *BudgetService) List(ctx context.Context, userID string) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

func (s *BudgetService) Get(ctx context.Context, userID, id string) (*models.Budget, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE id = $1 AND user_id = $2`, id, userID)

	b, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// Create inserts a budget. One budget per (user, category) is enforced by
// the unique constraint; a violation surfaces as ErrDuplicateBudget.
func (s *BudgetService) Create(ctx context.Context, userID string, req models.CreateBudgetRequest) (*models.Budget, error) {
	if req.Amount.Sign() < 0 {
		return nil, validationErr("amount must not be negative")
	}

	b := &models.Budget{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		Category:  req.Category,
		Amount:    req.Amount,
		Period:    req.Period,
		StartDate: time.Now().UTC(),
		EndDate:   req.EndDate,
		IsActive:  true,
	}
	if b.Name == "" {
		b.Name = b.Category
	}
	if req.StartDate != nil {
		b.StartDate = *req.StartDate
	}

	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var endDate interface{}
		if b.EndDate != nil {
			endDate = *b.EndDate
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO budgets (id, user_id, name, category, amount, period, start_date, end_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, b.ID, b.UserID, b.Name, b.Category, b.Amount, b.Period, b.StartDate, endDate)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return ErrDuplicateBudget
			}
			return fmt.Errorf("insert budget: %w", err)
		}

		// Seed spent from expenses already inside the period window.
		return recomputeSpentTx(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, b.ID)
}

// Update patches the budget. When the category, period or window changed
// the cached spent total is stale, so it is recomputed in the same
// database transaction.
func (s *BudgetService) Update(ctx context.Context, userID, id string, req models.UpdateBudgetRequest) (*models.Budget, error) {
	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT `+budgetColumns+`
			FROM budgets
			WHERE id = $1 AND user_id = $2
			FOR UPDATE`, id, userID)
		b, err := scanBudget(row)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load budget: %w", err)
		}

		windowChanged := false
		if req.Name != nil {
			b.Name = *req.Name
		}
		if req.Category != nil && *req.Category != b.Category {
			b.Category = *req.Category
			windowChanged = true
		}
		if req.Amount != nil {
			if req.Amount.Sign() < 0 {
				return validationErr("amount must not be negative")
			}
			b.Amount = *req.Amount
		}
		if req.Period != nil && *req.Period != b.Period {
			b.Period = *req.Period
			windowChanged = true
		}
		if req.StartDate != nil && !req.StartDate.Equal(b.StartDate) {
			b.StartDate = *req.StartDate
			windowChanged = true
		}
		if req.EndDate != nil {
			b.EndDate = req.EndDate
			windowChanged = true
		}
		if req.IsActive != nil {
			b.IsActive = *req.IsActive
		}

		var endDate interface{}
		if b.EndDate != nil {
			endDate = *b.EndDate
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE budgets
			SET name = $1, category = $2, amount = $3, period = $4, start_date = $5,
			    end_date = $6, is_active = $7, updated_at = NOW()
			WHERE id = $8 AND user_id = $9
		`, b.Name, b.Category, b.Amount, b.Period, b.StartDate, endDate, b.IsActive, id, userID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return ErrDuplicateBudget
			}
			return fmt.Errorf("update budget: %w", err)
		}

		if windowChanged {
			return recomputeSpentTx(ctx, tx, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, id)
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecomputeSpent rebuilds the cached spent total from the matching expense
// transactions inside the budget's own period window. Running it twice
// without intervening writes yields the same value.
func (s *BudgetService) RecomputeSpent(ctx context.Context, userID, id string) (*models.Budget, error) {
	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT `+budgetColumns+`
			FROM budgets
			WHERE id = $1 AND user_id = $2
			FOR UPDATE`, id, userID)
		b, err := scanBudget(row)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load budget: %w", err)
		}
		return recomputeSpentTx(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, id)
}

func recomputeSpentTx(ctx context.Context, tx *sql.Tx, b *models.Budget) error {
	start, end := PeriodWindow(b)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category = $2 AND type = 'expense' AND date >= $3`
	args := []interface{}{b.UserID, b.Category, start}
	if end != nil {
		query += " AND date < $4"
		args = append(args, *end)
	}

	var spent decimal.Decimal
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&spent); err != nil {
		return fmt.Errorf("aggregate spent: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE budgets SET spent = $1, updated_at = NOW() WHERE id = $2
	`, spent, b.ID); err != nil {
		return fmt.Errorf("write spent: %w", err)
	}
	return nil
}

// RecomputeAllSpent sweeps every active budget, repairing any drift in the
// cached totals. Run nightly from the cron scheduler.
func (s *BudgetService) RecomputeAllSpent(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE is_active`)
	if err != nil {
		return fmt.Errorf("list active budgets: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, *b)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range budgets {
		b := budgets[i]
		err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
			return recomputeSpentTx(ctx, tx, &b)
		})
		if err != nil {
			log.Printf("recompute spent for budget %s: %v", b.ID, err)
		}
	}
	return nil
}
