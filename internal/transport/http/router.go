// Package httptransport exposes the mess bill services as JSON over HTTP.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/messbill/internal/auth"
	"github.com/mmynk/messbill/internal/metrics"
	"github.com/mmynk/messbill/internal/middleware"
	"github.com/mmynk/messbill/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves every route of the API.
type Handler struct {
	students *service.StudentService
	billing  *service.BillingService
	admins   *service.AdminService
	store    Pinger
	logger   *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(
	students *service.StudentService,
	billing *service.BillingService,
	admins *service.AdminService,
	store Pinger,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		students: students,
		billing:  billing,
		admins:   admins,
		store:    store,
		logger:   logger,
	}
}

// NewRouter wires the handler, auth and logging middleware and the metrics endpoint.
func NewRouter(h *Handler, jwtManager *auth.JWTManager, m *metrics.Metrics, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(h.logger, m))
	r.Use(chimw.Recoverer)

	r.Post("/registerstudent", h.handleRegisterStudent)
	r.Post("/studentlogin", h.handleStudentLogin)
	r.Post("/adminlogin", h.handleAdminLogin)
	r.Get("/studentexpense/{studentID}", h.handleStudentExpense)
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(jwtManager, auth.RoleAdmin))
		r.Post("/admins", h.handleRegisterAdmin)
		r.Post("/attendance", h.handleRecordAttendance)
		r.Post("/billregister", h.handleBillRegister)
		r.Get("/expenseperiods", h.handleListPeriods)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "Health check failed", "error", err)
		writeMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeMessage(w, http.StatusOK, "ok")
}
