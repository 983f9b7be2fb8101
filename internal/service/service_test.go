package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/messbill/internal/auth"
	"github.com/mmynk/messbill/internal/models"
	"github.com/mmynk/messbill/internal/storage/sqlite"
)

// newTestStore creates a SQLite store in a temp directory removed after the test.
func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "messbill-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Minute)
}

// seedStudents registers students and their attendance for month.
func seedStudents(t *testing.T, store *sqlite.SQLiteStore, month string, days map[int64]int) {
	t.Helper()
	ctx := context.Background()

	for id, d := range days {
		student := &models.Student{ID: id, Name: "Student", Branch: "CSE", Phone: "900000000"}
		if err := store.CreateStudent(ctx, student); err != nil {
			t.Fatalf("failed to create student %d: %v", id, err)
		}
		if d < 0 {
			continue // no attendance row at all
		}
		if err := store.UpsertAttendance(ctx, models.Attendance{StudentID: id, Month: month, DaysPresent: d}); err != nil {
			t.Fatalf("failed to record attendance for %d: %v", id, err)
		}
	}
}
