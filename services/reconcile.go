package services

import (
	"sort"
	"time"

	"github.com/cadizmarco/MoneyTracker/models"

	"github.com/shopspring/decimal"
)

// This file holds the reconciliation rules as pure functions: given the
// before/after state of a transaction they compute the balance and spent
// deltas to apply. The SQL layer applies each delta as an atomic increment
// inside the same database transaction as the row write.

// AccountAdjustment is one signed balance delta to apply to an account.
type AccountAdjustment struct {
	AccountID string
	Delta     decimal.Decimal
}

// BudgetAdjustment is one signed spent delta to apply to a budget.
// Spent is floored at zero when the delta is applied.
type BudgetAdjustment struct {
	BudgetID string
	Delta    decimal.Decimal
}

// balanceEffects returns the signed deltas a transaction applies while it
// exists: income adds to its account, expense subtracts, and a transfer
// moves the amount from the source account to the target, leaving the
// user's total balance unchanged.
func balanceEffects(t *models.Transaction) map[string]decimal.Decimal {
	effects := make(map[string]decimal.Decimal)
	switch t.Type {
	case models.TransactionIncome:
		effects[t.AccountID] = t.Amount
	case models.TransactionExpense:
		effects[t.AccountID] = t.Amount.Neg()
	case models.TransactionTransfer:
		effects[t.AccountID] = t.Amount.Neg()
		if t.TransferToAccountID != "" {
			effects[t.TransferToAccountID] = effects[t.TransferToAccountID].Add(t.Amount)
		}
	}
	return effects
}

// AccountAdjustments computes the balance deltas for a transaction state
// change. old is nil on create, new is nil on delete; an update undoes the
// old effect and applies the new one, possibly across different accounts.
func AccountAdjustments(old, new *models.Transaction) []AccountAdjustment {
	merged := make(map[string]decimal.Decimal)
	if old != nil {
		for id, d := range balanceEffects(old) {
			merged[id] = merged[id].Sub(d)
		}
	}
	if new != nil {
		for id, d := range balanceEffects(new) {
			merged[id] = merged[id].Add(d)
		}
	}

	adjustments := make([]AccountAdjustment, 0, len(merged))
	for id, d := range merged {
		if d.IsZero() {
			continue
		}
		adjustments = append(adjustments, AccountAdjustment{AccountID: id, Delta: d})
	}
	sort.Slice(adjustments, func(i, j int) bool { return adjustments[i].AccountID < adjustments[j].AccountID })
	return adjustments
}

// BudgetMatches reports whether a transaction counts against a budget:
// active budget, expense transaction, exact category match, and the
// transaction date inside the budget's current period window.
func BudgetMatches(b *models.Budget, t *models.Transaction) bool {
	if !b.IsActive || t.Type != models.TransactionExpense {
		return false
	}
	if b.Category != t.Category {
		return false
	}
	return PeriodContains(b, t.Date)
}

// PeriodContains implements period membership anchored at the budget's
// start date: monthly means the same calendar month and year as StartDate,
// yearly the same calendar year, weekly the same ISO week. A custom period
// runs from StartDate to EndDate, open-ended when EndDate is unset.
// Dates are compared in UTC.
func PeriodContains(b *models.Budget, date time.Time) bool {
	d := date.UTC()
	anchor := b.StartDate.UTC()

	switch b.Period {
	case models.PeriodMonthly:
		return d.Year() == anchor.Year() && d.Month() == anchor.Month()
	case models.PeriodYearly:
		return d.Year() == anchor.Year()
	case models.PeriodWeekly:
		dy, dw := d.ISOWeek()
		ay, aw := anchor.ISOWeek()
		return dy == ay && dw == aw
	case models.PeriodCustom:
		if d.Before(anchor) {
			return false
		}
		if b.EndDate == nil {
			return true
		}
		return !d.After(b.EndDate.UTC())
	default:
		return false
	}
}

// PeriodWindow returns the [start, end) window of the budget's period
// instance, for the wholesale spent recompute. end is nil for an
// open-ended custom period.
func PeriodWindow(b *models.Budget) (time.Time, *time.Time) {
	anchor := b.StartDate.UTC()

	switch b.Period {
	case models.PeriodMonthly:
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		return start, &end
	case models.PeriodYearly:
		start := time.Date(anchor.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)
		return start, &end
	case models.PeriodWeekly:
		// Back up to the Monday of the anchor's ISO week.
		day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		end := start.AddDate(0, 0, 7)
		return start, &end
	default: // custom
		var end *time.Time
		if b.EndDate != nil {
			// EndDate is inclusive; the window is end-exclusive.
			e := b.EndDate.UTC().Add(time.Nanosecond)
			end = &e
		}
		return anchor, end
	}
}

// BudgetAdjustments computes the spent deltas for a transaction state
// change: the old amount leaves every budget the old transaction matched,
// the new amount enters every budget the new one matches. Candidate slices
// hold the caller's budgets for the old and new category respectively.
func BudgetAdjustments(old, new *models.Transaction, oldCandidates, newCandidates []models.Budget) []BudgetAdjustment {
	merged := make(map[string]decimal.Decimal)
	if old != nil {
		for i := range oldCandidates {
			if BudgetMatches(&oldCandidates[i], old) {
				merged[oldCandidates[i].ID] = merged[oldCandidates[i].ID].Sub(old.Amount)
			}
		}
	}
	if new != nil {
		for i := range newCandidates {
			if BudgetMatches(&newCandidates[i], new) {
				merged[newCandidates[i].ID] = merged[newCandidates[i].ID].Add(new.Amount)
			}
		}
	}

	adjustments := make([]BudgetAdjustment, 0, len(merged))
	for id, d := range merged {
		if d.IsZero() {
			continue
		}
		adjustments = append(adjustments, BudgetAdjustment{BudgetID: id, Delta: d})
	}
	sort.Slice(adjustments, func(i, j int) bool { return adjustments[i].BudgetID < adjustments[j].BudgetID })
	return adjustments
}
