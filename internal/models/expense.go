package models

import "github.com/shopspring/decimal"

// ExpensePeriod is one registered monthly mess bill.
// Every bill registration creates a new period, even when one already exists for the month.
type ExpensePeriod struct {
	// ID is the unique identifier for the period (UUID format).
	ID string

	// Month is the billing month label.
	Month string

	// TotalExpense is the mess cost for the whole month.
	TotalExpense decimal.Decimal

	// TotalMonthDays is the divisor used to derive the per-day rate.
	TotalMonthDays decimal.Decimal

	// CreatedAt is the Unix timestamp when the period was registered.
	CreatedAt int64
}

// PerDayRate returns TotalExpense / TotalMonthDays.
// Callers must ensure TotalMonthDays is positive.
func (p ExpensePeriod) PerDayRate() decimal.Decimal {
	return p.TotalExpense.Div(p.TotalMonthDays)
}

// StudentExpenseShare is one student's portion of an ExpensePeriod.
type StudentExpenseShare struct {
	StudentID int64
	PeriodID  string
	Month     string
	Amount    decimal.Decimal
}

// ExpenseHistoryEntry is a single line of a student's expense history.
type ExpenseHistoryEntry struct {
	Month  string
	Amount decimal.Decimal
}
