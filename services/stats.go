package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cadizmarco/MoneyTracker/models"
)

type StatsService struct {
	db *sql.DB
}

func NewStatsService(db *sql.DB) *StatsService {
	return &StatsService{db: db}
}

// Overview recomputes the dashboard rollup from scratch on every call.
// Income and expense sums cover the current calendar month.
func (s *StatsService) Overview(ctx context.Context, userID string) (*models.StatsOverview, error) {
	now := time.Now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	var overview models.StatsOverview

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(balance), 0)
		FROM accounts
		WHERE user_id = $1
	`, userID).Scan(&overview.TotalAccounts, &overview.TotalBalance)
	if err != nil {
		return nil, fmt.Errorf("aggregate accounts: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
	`, userID, startOfMonth, endOfMonth).Scan(&overview.MonthlyIncome, &overview.MonthlyExpenses)
	if err != nil {
		return nil, fmt.Errorf("aggregate transactions: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE spent > amount)
		FROM budgets
		WHERE user_id = $1
	`, userID).Scan(&overview.TotalBudgets, &overview.ExceededBudgets)
	if err != nil {
		return nil, fmt.Errorf("aggregate budgets: %w", err)
	}

	return &overview, nil
}

// CleanExpiredSessions drops refresh sessions past their expiry. Run from
// the cron scheduler.
func CleanExpiredSessions(ctx context.Context, db *sql.DB) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("clean sessions: %w", err)
	}
	return result.RowsAffected()
}
