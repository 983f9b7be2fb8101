package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/messbill/internal/auth"
)

// AdminService handles admin login and account creation.
type AdminService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AdminService {
	return &AdminService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Login authenticates an admin and returns a JWT token.
func (s *AdminService) Login(ctx context.Context, adminID, password string) (string, error) {
	adminID = strings.TrimSpace(adminID)
	if adminID == "" || password == "" {
		return "", fmt.Errorf("%w: missing credentials", ErrInvalidInput)
	}

	admin, err := s.authenticator.Authenticate(ctx, adminID, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("Admin login failed", "admin_id", adminID)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	token, err := s.jwtManager.Generate(admin.ID, auth.RoleAdmin)
	if err != nil {
		s.logger.Error("Failed to generate token", "admin_id", admin.ID, "error", err)
		return "", err
	}

	s.logger.Info("Admin logged in", "admin_id", admin.ID)
	return token, nil
}

// Register creates a new admin account.
func (s *AdminService) Register(ctx context.Context, adminID, password string) error {
	adminID = strings.TrimSpace(adminID)
	if adminID == "" {
		return fmt.Errorf("%w: admin_id is required", ErrInvalidInput)
	}

	if _, err := s.authenticator.Register(ctx, adminID, password); err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		case errors.Is(err, auth.ErrAdminExists):
			return fmt.Errorf("%w: admin %q", ErrConflict, adminID)
		}
		s.logger.Error("Admin registration failed", "admin_id", adminID, "error", err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.logger.Info("Admin registered", "admin_id", adminID)
	return nil
}

// EnsureAdmin creates the admin unless it already exists. Used to bootstrap the
// first account from configuration.
func (s *AdminService) EnsureAdmin(ctx context.Context, adminID, password string) error {
	err := s.Register(ctx, adminID, password)
	if err != nil && !errors.Is(err, ErrConflict) {
		return err
	}
	return nil
}
