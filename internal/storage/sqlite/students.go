package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/messbill/internal/models"
	"github.com/mmynk/messbill/internal/storage"
)

// CreateStudent inserts a new student into the database.
func (s *SQLiteStore) CreateStudent(ctx context.Context, student *models.Student) error {
	if student.CreatedAt == 0 {
		student.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO students (id, name, branch, phone, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		student.ID, student.Name, student.Branch, student.Phone, student.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert student: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check inserted student: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("student %d: %w", student.ID, storage.ErrConflict)
	}

	return nil
}

// GetStudent retrieves a student by ID.
func (s *SQLiteStore) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	student := &models.Student{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, branch, phone, created_at FROM students WHERE id = ?",
		id,
	).Scan(&student.ID, &student.Name, &student.Branch, &student.Phone, &student.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("student %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return student, nil
}

// ListStudentIDs returns all student IDs in ascending order.
func (s *SQLiteStore) ListStudentIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan student id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}

	return ids, nil
}

// UpsertAttendance records days present, overwriting an existing value for the same month.
func (s *SQLiteStore) UpsertAttendance(ctx context.Context, a models.Attendance) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (student_id, month, days_present)
		 VALUES (?, ?, ?)
		 ON CONFLICT(student_id, month) DO UPDATE SET days_present = excluded.days_present`,
		a.StudentID, a.Month, a.DaysPresent,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return nil
}

// ListAttendance returns every attendance record for a month.
func (s *SQLiteStore) ListAttendance(ctx context.Context, month string) ([]models.Attendance, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT student_id, month, days_present FROM attendance WHERE month = ? ORDER BY student_id",
		month,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []models.Attendance
	for rows.Next() {
		var a models.Attendance
		if err := rows.Scan(&a.StudentID, &a.Month, &a.DaysPresent); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}

	return records, nil
}
