package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAllocation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveAllocation(ResultOK, 3, 10*time.Millisecond)
	m.ObserveAllocation(ResultNoAttendance, 3, time.Millisecond)

	if got := testutil.ToFloat64(m.Allocations.WithLabelValues(ResultOK)); got != 1 {
		t.Errorf("ok allocations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Allocations.WithLabelValues(ResultNoAttendance)); got != 1 {
		t.Errorf("no_attendance allocations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SharesWritten); got != 3 {
		t.Errorf("shares written = %v, want 3 (failed runs must not count)", got)
	}
}

func TestNewWithSeparateRegistries(t *testing.T) {
	// Registering twice on distinct registries must not panic.
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
