package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/messbill/internal/models"
	"github.com/mmynk/messbill/internal/storage"
)

// billingTx writes an expense period and its shares inside one SQL transaction.
type billingTx struct {
	tx *sql.Tx
}

// BeginBilling starts a transaction for writing one expense period.
func (s *SQLiteStore) BeginBilling(ctx context.Context) (storage.BillingTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &billingTx{tx: tx}, nil
}

// CreateExpensePeriod inserts the period, generating its ID and timestamp if unset.
func (b *billingTx) CreateExpensePeriod(ctx context.Context, period *models.ExpensePeriod) (string, error) {
	if period.ID == "" {
		period.ID = uuid.New().String()
	}
	if period.CreatedAt == 0 {
		period.CreatedAt = time.Now().Unix()
	}

	_, err := b.tx.ExecContext(ctx,
		`INSERT INTO expense_periods (id, month, total_expense, total_month_days, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		period.ID, period.Month, period.TotalExpense.String(), period.TotalMonthDays.String(), period.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert expense period: %w", err)
	}

	return period.ID, nil
}

// CreateShare inserts one student's share.
func (b *billingTx) CreateShare(ctx context.Context, share models.StudentExpenseShare) error {
	_, err := b.tx.ExecContext(ctx,
		`INSERT INTO student_expenses (student_id, period_id, month, amount)
		 VALUES (?, ?, ?, ?)`,
		share.StudentID, share.PeriodID, share.Month, share.Amount.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert share for student %d: %w", share.StudentID, err)
	}

	return nil
}

func (b *billingTx) Commit() error {
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (b *billingTx) Rollback() error {
	return b.tx.Rollback()
}

// ListExpensePeriods returns every period registered for a month.
func (s *SQLiteStore) ListExpensePeriods(ctx context.Context, month string) ([]*models.ExpensePeriod, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, month, total_expense, total_month_days, created_at
		 FROM expense_periods WHERE month = ? ORDER BY created_at, rowid`,
		month,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense periods: %w", err)
	}
	defer rows.Close()

	var periods []*models.ExpensePeriod
	for rows.Next() {
		p := &models.ExpensePeriod{}
		if err := rows.Scan(&p.ID, &p.Month, &p.TotalExpense, &p.TotalMonthDays, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense periods: %w", err)
	}

	return periods, nil
}

// ListShares returns the shares written for one period.
func (s *SQLiteStore) ListShares(ctx context.Context, periodID string) ([]models.StudentExpenseShare, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT student_id, period_id, month, amount
		 FROM student_expenses WHERE period_id = ? ORDER BY student_id`,
		periodID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	var shares []models.StudentExpenseShare
	for rows.Next() {
		var sh models.StudentExpenseShare
		if err := rows.Scan(&sh.StudentID, &sh.PeriodID, &sh.Month, &sh.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return shares, nil
}

// ListExpenseHistory returns a student's shares ordered by month, then by insertion.
func (s *SQLiteStore) ListExpenseHistory(ctx context.Context, studentID int64) ([]models.ExpenseHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT month, amount FROM student_expenses
		 WHERE student_id = ? ORDER BY month, id`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense history: %w", err)
	}
	defer rows.Close()

	history := []models.ExpenseHistoryEntry{}
	for rows.Next() {
		var e models.ExpenseHistoryEntry
		if err := rows.Scan(&e.Month, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense history: %w", err)
		}
		history = append(history, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense history: %w", err)
	}

	return history, nil
}
