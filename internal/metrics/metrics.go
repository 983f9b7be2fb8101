// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Allocation results used as the "result" label.
const (
	ResultOK              = "ok"
	ResultInvalidInput    = "invalid_input"
	ResultNoAttendance    = "no_attendance"
	ResultPersistenceFail = "persistence_error"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	Allocations        *prometheus.CounterVec
	SharesWritten      prometheus.Counter
	AllocationDuration prometheus.Histogram
	HTTPRequests       *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
// Each caller passes its own registry so tests can build several instances.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Allocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "messbill_allocations_total",
			Help: "Total number of monthly bill allocations by result",
		}, []string{"result"}),
		SharesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "messbill_shares_written_total",
			Help: "Total number of student expense shares committed",
		}),
		AllocationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "messbill_allocation_duration_seconds",
			Help:    "Time spent computing and persisting a monthly bill",
			Buckets: prometheus.DefBuckets,
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "messbill_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
	}
}

// ObserveAllocation records the outcome and duration of one allocation.
func (m *Metrics) ObserveAllocation(result string, shares int, elapsed time.Duration) {
	m.Allocations.WithLabelValues(result).Inc()
	m.AllocationDuration.Observe(elapsed.Seconds())
	if result == ResultOK {
		m.SharesWritten.Add(float64(shares))
	}
}

// ObserveRequest counts one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
