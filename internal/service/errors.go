package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Error taxonomy surfaced to callers. Services wrap these with detail using %w;
// the transport maps them to status codes with errors.Is.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNoAttendanceRecorded = errors.New("no attendance recorded for any student in this month")
	ErrPersistence          = errors.New("persistence error")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)

const (
	maxMonthLen = 32

	// maxNumberLen caps the raw text of a numeric input.
	maxNumberLen = 32
	// maxExponent bounds the decimal exponent of a parsed number in either direction.
	maxExponent = 32
	// MaxDaysPresent is the most days a student can attend in one month label.
	MaxDaysPresent = 366
	// MaxMonthDays is the largest accepted total_month_day.
	MaxMonthDays = 366
)

// MaxExpense is the exclusive upper bound for total_expense.
var MaxExpense = decimal.New(1, 15)

// normalizeMonth trims a month label and checks it is usable.
func normalizeMonth(month string) (string, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		return "", fmt.Errorf("%w: month is required", ErrInvalidInput)
	}
	if len(month) > maxMonthLen {
		return "", fmt.Errorf("%w: month must be at most %d characters", ErrInvalidInput, maxMonthLen)
	}
	return month, nil
}

// ParseNumber parses a decimal number from user input.
// field names the input in the error message.
func ParseNumber(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if len(raw) > maxNumberLen {
		return decimal.Zero, fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidInput, field, maxNumberLen)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid number format for %s", ErrInvalidInput, field)
	}
	if exp := v.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, fmt.Errorf("%w: %s is out of range", ErrInvalidInput, field)
	}
	return v, nil
}
