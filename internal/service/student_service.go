package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mmynk/messbill/internal/auth"
	"github.com/mmynk/messbill/internal/models"
	"github.com/mmynk/messbill/internal/storage"
)

// StudentService handles student registration, login, attendance and expense lookup.
type StudentService struct {
	store      storage.StudentDirectory
	jwtManager *auth.JWTManager
	logger     *slog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(store storage.StudentDirectory, jwtManager *auth.JWTManager, logger *slog.Logger) *StudentService {
	return &StudentService{
		store:      store,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// RegisterStudent validates and stores a new student.
func (s *StudentService) RegisterStudent(ctx context.Context, student *models.Student) error {
	student.Name = strings.TrimSpace(student.Name)
	student.Branch = strings.TrimSpace(student.Branch)
	student.Phone = strings.TrimSpace(student.Phone)

	switch {
	case student.ID <= 0:
		return fmt.Errorf("%w: st_id must be a positive number", ErrInvalidInput)
	case student.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case student.Branch == "":
		return fmt.Errorf("%w: abranch is required", ErrInvalidInput)
	case student.Phone == "":
		return fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}

	if err := s.store.CreateStudent(ctx, student); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return fmt.Errorf("%w: student %d", ErrConflict, student.ID)
		}
		s.logger.Error("Failed to register student", "student_id", student.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.logger.Info("Student registered", "student_id", student.ID, "branch", student.Branch)
	return nil
}

// RecordAttendance sets the days a student was present in a month.
// Recording the same month again replaces the previous value.
func (s *StudentService) RecordAttendance(ctx context.Context, attendance models.Attendance) error {
	month, err := normalizeMonth(attendance.Month)
	if err != nil {
		return err
	}
	attendance.Month = month

	if attendance.DaysPresent < 0 {
		return fmt.Errorf("%w: days_present cannot be negative", ErrInvalidInput)
	}
	if attendance.DaysPresent > MaxDaysPresent {
		return fmt.Errorf("%w: days_present must be at most %d", ErrInvalidInput, MaxDaysPresent)
	}

	if _, err := s.getStudent(ctx, attendance.StudentID); err != nil {
		return err
	}

	if err := s.store.UpsertAttendance(ctx, attendance); err != nil {
		s.logger.Error("Failed to record attendance", "student_id", attendance.StudentID, "month", month, "error", err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.logger.Info("Attendance recorded",
		"student_id", attendance.StudentID,
		"month", month,
		"days_present", attendance.DaysPresent,
	)
	return nil
}

// Login checks a student's ID and phone and issues a student token.
func (s *StudentService) Login(ctx context.Context, studentID int64, phone string) (*models.Student, string, error) {
	phone = strings.TrimSpace(phone)
	if studentID <= 0 || phone == "" {
		return nil, "", fmt.Errorf("%w: missing student ID or phone", ErrInvalidInput)
	}

	student, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Student login failed", "student_id", studentID, "reason", "unknown student")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if subtle.ConstantTimeCompare([]byte(student.Phone), []byte(phone)) != 1 {
		s.logger.Warn("Student login failed", "student_id", studentID, "reason", "phone mismatch")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(strconv.FormatInt(student.ID, 10), auth.RoleStudent)
	if err != nil {
		s.logger.Error("Failed to generate token", "student_id", student.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("Student logged in", "student_id", student.ID)
	return student, token, nil
}

// ExpenseHistory returns the student and every share charged to them, ordered by month.
func (s *StudentService) ExpenseHistory(ctx context.Context, studentID int64) (*models.Student, []models.ExpenseHistoryEntry, error) {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}

	history, err := s.store.ListExpenseHistory(ctx, studentID)
	if err != nil {
		s.logger.Error("Failed to load expense history", "student_id", studentID, "error", err)
		return nil, nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return student, history, nil
}

func (s *StudentService) getStudent(ctx context.Context, studentID int64) (*models.Student, error) {
	student, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: student %d", ErrNotFound, studentID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return student, nil
}
