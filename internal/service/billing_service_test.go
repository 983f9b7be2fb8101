package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/mmynk/messbill/internal/metrics"
	"github.com/mmynk/messbill/internal/models"
	"github.com/mmynk/messbill/internal/storage"
)

// countingDirectory records how often the student directory is consulted.
type countingDirectory struct {
	storage.StudentDirectory
	calls int
}

func (c *countingDirectory) ListStudentIDs(ctx context.Context) ([]int64, error) {
	c.calls++
	return c.StudentDirectory.ListStudentIDs(ctx)
}

func (c *countingDirectory) ListAttendance(ctx context.Context, month string) ([]models.Attendance, error) {
	c.calls++
	return c.StudentDirectory.ListAttendance(ctx, month)
}

// failingBilling wraps a real store and fails after a number of share writes.
type failingBilling struct {
	storage.BillingStore
	sharesBeforeFailure int
	begins              int
}

func (f *failingBilling) BeginBilling(ctx context.Context) (storage.BillingTx, error) {
	f.begins++
	tx, err := f.BillingStore.BeginBilling(ctx)
	if err != nil {
		return nil, err
	}
	return &failingTx{BillingTx: tx, remaining: f.sharesBeforeFailure}, nil
}

type failingTx struct {
	storage.BillingTx
	remaining int
}

func (t *failingTx) CreateShare(ctx context.Context, share models.StudentExpenseShare) error {
	if t.remaining == 0 {
		return errors.New("disk I/O error")
	}
	t.remaining--
	return t.BillingTx.CreateShare(ctx, share)
}

func TestComputeMonthlyShares_ProportionalSplit(t *testing.T) {
	store := newTestStore(t)
	// B has a zero row, D has no attendance row at all.
	seedStudents(t, store, "2025-01", map[int64]int{1: 5, 2: 0, 3: 10, 4: -1})
	m := metrics.New(prometheus.NewRegistry())
	svc := NewBillingService(store, store, m, discardLogger())
	ctx := context.Background()

	result, err := svc.ComputeMonthlyShares(ctx, "2025-01", decimal.NewFromInt(30), decimal.NewFromInt(3000))
	if err != nil {
		t.Fatalf("ComputeMonthlyShares failed: %v", err)
	}

	if result.Period.ID == "" {
		t.Error("expected period ID to be assigned")
	}
	if !result.Period.PerDayRate().Equal(decimal.NewFromInt(100)) {
		t.Errorf("per-day rate = %s, want 100", result.Period.PerDayRate())
	}

	want := map[int64]int64{1: 500, 2: 0, 3: 1000, 4: 0}
	if len(result.Shares) != len(want) {
		t.Fatalf("expected %d shares, got %d", len(want), len(result.Shares))
	}
	for _, share := range result.Shares {
		if !share.Amount.Equal(decimal.NewFromInt(want[share.StudentID])) {
			t.Errorf("student %d share = %s, want %d", share.StudentID, share.Amount, want[share.StudentID])
		}
	}

	// Persisted rows match, including explicit zero rows.
	periods, err := svc.ListPeriods(ctx, "2025-01")
	if err != nil {
		t.Fatalf("ListPeriods failed: %v", err)
	}
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	if len(periods[0].Shares) != 4 {
		t.Fatalf("expected 4 persisted shares, got %d", len(periods[0].Shares))
	}
	for _, share := range periods[0].Shares {
		if !share.Amount.Equal(decimal.NewFromInt(want[share.StudentID])) {
			t.Errorf("persisted share for %d = %s, want %d", share.StudentID, share.Amount, want[share.StudentID])
		}
		if share.PeriodID != result.Period.ID {
			t.Errorf("share period = %s, want %s", share.PeriodID, result.Period.ID)
		}
	}

	if got := testutil.ToFloat64(m.SharesWritten); got != 4 {
		t.Errorf("shares written metric = %v, want 4", got)
	}
}

func TestComputeMonthlyShares_NoAttendance(t *testing.T) {
	store := newTestStore(t)
	seedStudents(t, store, "2025-02", map[int64]int{1: 0, 2: 0, 3: -1})
	billing := &failingBilling{BillingStore: store, sharesBeforeFailure: 100}
	svc := NewBillingService(store, billing, nil, discardLogger())
	ctx := context.Background()

	_, err := svc.ComputeMonthlyShares(ctx, "2025-02", decimal.NewFromInt(28), decimal.NewFromInt(2800))
	if !errors.Is(err, ErrNoAttendanceRecorded) {
		t.Fatalf("expected ErrNoAttendanceRecorded, got %v", err)
	}
	if billing.begins != 0 {
		t.Errorf("expected no transaction to be opened, got %d", billing.begins)
	}

	periods, err := store.ListExpensePeriods(ctx, "2025-02")
	if err != nil {
		t.Fatalf("ListExpensePeriods failed: %v", err)
	}
	if len(periods) != 0 {
		t.Errorf("expected no expense period, got %d", len(periods))
	}
}

func TestComputeMonthlyShares_NoStudents(t *testing.T) {
	store := newTestStore(t)
	svc := NewBillingService(store, store, nil, discardLogger())

	_, err := svc.ComputeMonthlyShares(context.Background(), "2025-02", decimal.NewFromInt(28), decimal.NewFromInt(2800))
	if !errors.Is(err, ErrNoAttendanceRecorded) {
		t.Fatalf("expected ErrNoAttendanceRecorded, got %v", err)
	}
}

func TestRegisterBill_InvalidInput(t *testing.T) {
	tests := []struct {
		name           string
		month          string
		totalMonthDays string
		totalExpense   string
		touchesStore   bool
	}{
		{"non-numeric month days", "2025-01", "abc", "3000", false},
		{"non-numeric expense", "2025-01", "30", "lots", false},
		{"empty month days", "2025-01", "", "3000", false},
		{"zero month days", "2025-01", "0", "3000", false},
		{"negative month days", "2025-01", "-30", "3000", false},
		{"negative expense", "2025-01", "30", "-1", false},
		{"blank month", "   ", "30", "3000", false},
		{"month too long", "this-month-label-is-far-too-long-to-store", "30", "3000", false},
		{"huge exponent expense", "2025-01", "30", "1e2147483647", false},
		{"large exponent expense", "2025-01", "30", "1e20000000", false},
		{"huge exponent month days", "2025-01", "1e2147483647", "3000", false},
		{"tiny exponent month days", "2025-01", "1e-2147483647", "3000", false},
		{"expense at limit", "2025-01", "30", "1000000000000000", false},
		{"month days above limit", "2025-01", "367", "3000", false},
		{"overlong expense text", "2025-01", "30", "1000.000000000000000000000000000001", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			seedStudents(t, store, "2025-01", map[int64]int{1: 5})
			dir := &countingDirectory{StudentDirectory: store}
			billing := &failingBilling{BillingStore: store, sharesBeforeFailure: 100}
			svc := NewBillingService(dir, billing, nil, discardLogger())

			_, err := svc.RegisterBill(context.Background(), tt.month, tt.totalMonthDays, tt.totalExpense)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if dir.calls != 0 || billing.begins != 0 {
				t.Errorf("store accessed before validation: directory=%d transactions=%d", dir.calls, billing.begins)
			}
		})
	}
}

func TestRegisterBill_AcceptsNumericStrings(t *testing.T) {
	store := newTestStore(t)
	seedStudents(t, store, "2025-01", map[int64]int{1: 15, 2: 15})
	svc := NewBillingService(store, store, nil, discardLogger())

	result, err := svc.RegisterBill(context.Background(), " 2025-01 ", " 30 ", "4500.75")
	if err != nil {
		t.Fatalf("RegisterBill failed: %v", err)
	}
	if result.Period.Month != "2025-01" {
		t.Errorf("month = %q, want trimmed label", result.Period.Month)
	}
	for _, share := range result.Shares {
		if !share.Amount.Equal(decimal.RequireFromString("2250.375")) {
			t.Errorf("student %d share = %s, want 2250.375", share.StudentID, share.Amount)
		}
	}
}

func TestComputeMonthlyShares_NotIdempotent(t *testing.T) {
	store := newTestStore(t)
	seedStudents(t, store, "2025-03", map[int64]int{1: 10})
	svc := NewBillingService(store, store, nil, discardLogger())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.ComputeMonthlyShares(ctx, "2025-03", decimal.NewFromInt(31), decimal.NewFromInt(3100)); err != nil {
			t.Fatalf("call %d failed: %v", i+1, err)
		}
	}

	periods, err := svc.ListPeriods(ctx, "2025-03")
	if err != nil {
		t.Fatalf("ListPeriods failed: %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("expected 2 independent periods, got %d", len(periods))
	}
	if periods[0].Period.ID == periods[1].Period.ID {
		t.Error("expected distinct period IDs")
	}

	history, err := store.ListExpenseHistory(ctx, 1)
	if err != nil {
		t.Fatalf("ListExpenseHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("expected doubled shares in history, got %d entries", len(history))
	}
}

func TestComputeMonthlyShares_RollbackOnShareFailure(t *testing.T) {
	store := newTestStore(t)
	seedStudents(t, store, "2025-04", map[int64]int{1: 10, 2: 5, 3: 2})
	billing := &failingBilling{BillingStore: store, sharesBeforeFailure: 2}
	m := metrics.New(prometheus.NewRegistry())
	svc := NewBillingService(store, billing, m, discardLogger())
	ctx := context.Background()

	_, err := svc.ComputeMonthlyShares(ctx, "2025-04", decimal.NewFromInt(30), decimal.NewFromInt(1700))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}

	periods, err := store.ListExpensePeriods(ctx, "2025-04")
	if err != nil {
		t.Fatalf("ListExpensePeriods failed: %v", err)
	}
	if len(periods) != 0 {
		t.Errorf("expected period to be rolled back, found %d", len(periods))
	}
	for _, id := range []int64{1, 2, 3} {
		history, err := store.ListExpenseHistory(ctx, id)
		if err != nil {
			t.Fatalf("ListExpenseHistory failed: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("student %d has %d shares after rollback", id, len(history))
		}
	}

	if got := testutil.ToFloat64(m.Allocations.WithLabelValues(metrics.ResultPersistenceFail)); got != 1 {
		t.Errorf("persistence failure metric = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SharesWritten); got != 0 {
		t.Errorf("shares written metric = %v, want 0", got)
	}
}

func TestComputeMonthlyShares_RejectsOutOfRangeAmounts(t *testing.T) {
	store := newTestStore(t)
	seedStudents(t, store, "2025-01", map[int64]int{1: 5})
	svc := NewBillingService(store, store, nil, discardLogger())
	ctx := context.Background()

	tests := []struct {
		name           string
		totalMonthDays decimal.Decimal
		totalExpense   decimal.Decimal
	}{
		{"exponent too large", decimal.NewFromInt(30), decimal.New(1, 2147483647)},
		{"exponent too small", decimal.New(1, -2147483647), decimal.NewFromInt(3000)},
		{"expense above limit", decimal.NewFromInt(30), decimal.New(5, 20)},
		{"month days above limit", decimal.NewFromInt(1000), decimal.NewFromInt(3000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ComputeMonthlyShares(ctx, "2025-01", tt.totalMonthDays, tt.totalExpense); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	periods, err := store.ListExpensePeriods(ctx, "2025-01")
	if err != nil {
		t.Fatalf("ListExpensePeriods failed: %v", err)
	}
	if len(periods) != 0 {
		t.Errorf("expected no periods after rejected bills, got %d", len(periods))
	}
}
