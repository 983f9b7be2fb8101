package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/messbill/internal/models"
)

var (
	ErrNonPositiveMonthDays = errors.New("total month days must be greater than zero")
	ErrNegativeExpense      = errors.New("total expense cannot be negative")
	ErrNegativeDays         = errors.New("days present cannot be negative")
	ErrNoAttendance         = errors.New("no attendance recorded for any student in this month")
	ErrDaysOverflow         = errors.New("total days present overflows")
)

// StudentDays is the number of days one student was present in the billing month.
type StudentDays struct {
	StudentID   int64
	DaysPresent int
}

// Share represents the calculated mess bill for one student.
type Share struct {
	StudentID   int64
	DaysPresent int
	Amount      decimal.Decimal
}

// MergeAttendance pairs every student in the roster with their days present.
// Students without a record get zero days; records for students outside the roster
// are dropped. The result follows the roster order.
func MergeAttendance(roster []int64, records []models.Attendance) []StudentDays {
	days := make(map[int64]int, len(records))
	for _, r := range records {
		days[r.StudentID] = r.DaysPresent
	}

	merged := make([]StudentDays, len(roster))
	for i, id := range roster {
		merged[i] = StudentDays{StudentID: id, DaysPresent: days[id]}
	}
	return merged
}

// TotalDays sums days present across all students.
// Negative entries are rejected and ErrDaysOverflow is returned if the sum does not fit in an int.
func TotalDays(attendance []StudentDays) (int, error) {
	total := 0
	for _, a := range attendance {
		if a.DaysPresent < 0 {
			return 0, fmt.Errorf("%w: student %d has %d", ErrNegativeDays, a.StudentID, a.DaysPresent)
		}
		if a.DaysPresent > math.MaxInt-total {
			return 0, ErrDaysOverflow
		}
		total += a.DaysPresent
	}
	return total, nil
}

// AllocateShares charges each student totalExpense * daysPresent / totalMonthDays.
//
// The product is taken before the division so inputs that divide evenly produce exact
// results. Students with no attendance receive an explicit zero share.
func AllocateShares(totalExpense, totalMonthDays decimal.Decimal, attendance []StudentDays) ([]Share, error) {
	if !totalMonthDays.IsPositive() {
		return nil, ErrNonPositiveMonthDays
	}
	if totalExpense.IsNegative() {
		return nil, ErrNegativeExpense
	}
	total, err := TotalDays(attendance)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrNoAttendance
	}

	shares := make([]Share, len(attendance))
	for i, a := range attendance {
		amount := decimal.Zero
		if a.DaysPresent > 0 {
			amount = totalExpense.Mul(decimal.NewFromInt(int64(a.DaysPresent))).Div(totalMonthDays)
		}
		shares[i] = Share{
			StudentID:   a.StudentID,
			DaysPresent: a.DaysPresent,
			Amount:      amount,
		}
	}

	return shares, nil
}

// SumShares returns the total of all share amounts.
func SumShares(shares []Share) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	return sum
}
