// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/messbill/internal/models"
)

// Sentinel errors returned (optionally wrapped) by store implementations.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// StudentDirectory defines student and attendance persistence operations.
type StudentDirectory interface {
	// CreateStudent inserts a new student. Returns ErrConflict if the ID is taken.
	CreateStudent(ctx context.Context, student *models.Student) error

	// GetStudent retrieves a student by ID. Returns ErrNotFound if missing.
	GetStudent(ctx context.Context, id int64) (*models.Student, error)

	// ListStudentIDs returns the IDs of every registered student, ascending.
	ListStudentIDs(ctx context.Context) ([]int64, error)

	// UpsertAttendance records days present for a student and month,
	// replacing any previous value for the same pair.
	UpsertAttendance(ctx context.Context, attendance models.Attendance) error

	// ListAttendance returns all attendance records for a month.
	ListAttendance(ctx context.Context, month string) ([]models.Attendance, error)

	// ListExpenseHistory returns a student's shares ordered by month ascending.
	ListExpenseHistory(ctx context.Context, studentID int64) ([]models.ExpenseHistoryEntry, error)
}

// BillingTx is a transactional scope for writing one expense period and its shares.
// Nothing written through a BillingTx is visible to readers until Commit succeeds.
type BillingTx interface {
	// CreateExpensePeriod inserts the period and returns its ID.
	CreateExpensePeriod(ctx context.Context, period *models.ExpensePeriod) (string, error)

	// CreateShare inserts one student's share of a period.
	CreateShare(ctx context.Context, share models.StudentExpenseShare) error

	Commit() error
	Rollback() error
}

// BillingStore opens billing transactions.
type BillingStore interface {
	BeginBilling(ctx context.Context) (BillingTx, error)

	// ListExpensePeriods returns the committed periods for a month, oldest first.
	ListExpensePeriods(ctx context.Context, month string) ([]*models.ExpensePeriod, error)

	// ListShares returns the shares of one period ordered by student ID.
	ListShares(ctx context.Context, periodID string) ([]models.StudentExpenseShare, error)
}

// AdminStore defines admin account persistence operations.
type AdminStore interface {
	// CreateAdmin inserts a new admin. Returns ErrConflict if the ID is taken.
	CreateAdmin(ctx context.Context, admin *models.Admin) error

	// GetAdmin retrieves an admin by ID. Returns ErrNotFound if missing.
	GetAdmin(ctx context.Context, id string) (*models.Admin, error)
}

// Store defines the full storage surface used by the services.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	StudentDirectory
	BillingStore
	AdminStore

	// Ping checks the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
