package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/messbill/internal/calculator"
	"github.com/mmynk/messbill/internal/metrics"
	"github.com/mmynk/messbill/internal/models"
	"github.com/mmynk/messbill/internal/storage"
)

// BillingService registers monthly mess bills and splits them across students.
type BillingService struct {
	students storage.StudentDirectory
	billing  storage.BillingStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// BillResult is the outcome of a successful allocation.
type BillResult struct {
	Period *models.ExpensePeriod
	Shares []calculator.Share
}

// PeriodSummary is a committed expense period with its shares.
type PeriodSummary struct {
	Period *models.ExpensePeriod
	Shares []models.StudentExpenseShare
}

// NewBillingService creates a BillingService. metrics may be nil.
func NewBillingService(students storage.StudentDirectory, billing storage.BillingStore, m *metrics.Metrics, logger *slog.Logger) *BillingService {
	return &BillingService{
		students: students,
		billing:  billing,
		metrics:  m,
		logger:   logger,
	}
}

// RegisterBill parses raw numeric input and runs ComputeMonthlyShares.
// Both numbers are parsed before the store is touched.
func (s *BillingService) RegisterBill(ctx context.Context, month, totalMonthDays, totalExpense string) (*BillResult, error) {
	days, err := ParseNumber("total_month_day", totalMonthDays)
	if err != nil {
		s.observe(metrics.ResultInvalidInput, 0, time.Now())
		return nil, err
	}
	expense, err := ParseNumber("total_expense", totalExpense)
	if err != nil {
		s.observe(metrics.ResultInvalidInput, 0, time.Now())
		return nil, err
	}
	return s.ComputeMonthlyShares(ctx, month, days, expense)
}

// ComputeMonthlyShares splits totalExpense across every registered student by their
// attendance in month and persists one ExpensePeriod plus one share per student.
//
// Validation and the zero-attendance check happen before any write. The period and
// all shares are written in a single transaction; on any write failure nothing is
// persisted and ErrPersistence is returned. Calling it twice for the same month
// creates two independent periods.
func (s *BillingService) ComputeMonthlyShares(ctx context.Context, month string, totalMonthDays, totalExpense decimal.Decimal) (*BillResult, error) {
	start := time.Now()

	month, err := normalizeMonth(month)
	if err != nil {
		s.observe(metrics.ResultInvalidInput, 0, start)
		return nil, err
	}
	if err := checkBillAmounts(totalMonthDays, totalExpense); err != nil {
		s.observe(metrics.ResultInvalidInput, 0, start)
		return nil, err
	}

	attendance, err := s.monthlyAttendance(ctx, month)
	if err != nil {
		s.logger.Error("Failed to load monthly attendance", "month", month, "error", err)
		s.observe(metrics.ResultPersistenceFail, 0, start)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	shares, err := calculator.AllocateShares(totalExpense, totalMonthDays, attendance)
	if err != nil {
		if errors.Is(err, calculator.ErrNoAttendance) {
			s.logger.Warn("Bill rejected: no attendance", "month", month, "students", len(attendance))
			s.observe(metrics.ResultNoAttendance, 0, start)
			return nil, ErrNoAttendanceRecorded
		}
		s.observe(metrics.ResultInvalidInput, 0, start)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	period := &models.ExpensePeriod{
		Month:          month,
		TotalExpense:   totalExpense,
		TotalMonthDays: totalMonthDays,
	}
	if err := s.persist(ctx, period, shares); err != nil {
		s.logger.Error("Failed to persist monthly bill", "month", month, "error", err)
		s.observe(metrics.ResultPersistenceFail, 0, start)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.observe(metrics.ResultOK, len(shares), start)
	totalDays, _ := calculator.TotalDays(attendance)
	s.logger.Info("Monthly bill registered",
		"period_id", period.ID,
		"month", month,
		"total_expense", totalExpense.String(),
		"total_month_days", totalMonthDays.String(),
		"per_day_rate", period.PerDayRate().StringFixed(2),
		"students", len(shares),
		"total_days_present", totalDays,
	)

	return &BillResult{Period: period, Shares: shares}, nil
}

// checkBillAmounts enforces 0 < totalMonthDays <= MaxMonthDays and
// 0 <= totalExpense < MaxExpense. The exponent is checked first so comparisons
// never rescale an enormous value.
func checkBillAmounts(totalMonthDays, totalExpense decimal.Decimal) error {
	if exp := totalMonthDays.Exponent(); exp > maxExponent || exp < -maxExponent {
		return fmt.Errorf("%w: total_month_day is out of range", ErrInvalidInput)
	}
	if exp := totalExpense.Exponent(); exp > maxExponent || exp < -maxExponent {
		return fmt.Errorf("%w: total_expense is out of range", ErrInvalidInput)
	}
	if !totalMonthDays.IsPositive() {
		return fmt.Errorf("%w: total_month_day must be greater than zero", ErrInvalidInput)
	}
	if totalMonthDays.GreaterThan(decimal.NewFromInt(MaxMonthDays)) {
		return fmt.Errorf("%w: total_month_day must be at most %d", ErrInvalidInput, MaxMonthDays)
	}
	if totalExpense.IsNegative() {
		return fmt.Errorf("%w: total_expense cannot be negative", ErrInvalidInput)
	}
	if !totalExpense.LessThan(MaxExpense) {
		return fmt.Errorf("%w: total_expense must be less than %s", ErrInvalidInput, MaxExpense)
	}
	return nil
}

// monthlyAttendance returns days present for every registered student, zero when
// the student has no record for the month.
func (s *BillingService) monthlyAttendance(ctx context.Context, month string) ([]calculator.StudentDays, error) {
	roster, err := s.students.ListStudentIDs(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.students.ListAttendance(ctx, month)
	if err != nil {
		return nil, err
	}
	return calculator.MergeAttendance(roster, records), nil
}

// persist writes the period before its shares, all in one transaction.
func (s *BillingService) persist(ctx context.Context, period *models.ExpensePeriod, shares []calculator.Share) (err error) {
	tx, err := s.billing.BeginBilling(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Rollback failed", "month", period.Month, "error", rbErr)
			}
		}
	}()

	periodID, err := tx.CreateExpensePeriod(ctx, period)
	if err != nil {
		return err
	}
	period.ID = periodID

	for _, share := range shares {
		err = tx.CreateShare(ctx, models.StudentExpenseShare{
			StudentID: share.StudentID,
			PeriodID:  periodID,
			Month:     period.Month,
			Amount:    share.Amount,
		})
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListPeriods returns every committed period for a month with its shares.
func (s *BillingService) ListPeriods(ctx context.Context, month string) ([]PeriodSummary, error) {
	month, err := normalizeMonth(month)
	if err != nil {
		return nil, err
	}

	periods, err := s.billing.ListExpensePeriods(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	summaries := make([]PeriodSummary, 0, len(periods))
	for _, p := range periods {
		shares, err := s.billing.ListShares(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		summaries = append(summaries, PeriodSummary{Period: p, Shares: shares})
	}
	return summaries, nil
}

func (s *BillingService) observe(result string, shares int, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveAllocation(result, shares, time.Since(start))
}
