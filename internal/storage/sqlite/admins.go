package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/messbill/internal/models"
	"github.com/mmynk/messbill/internal/storage"
)

// CreateAdmin inserts a new admin into the database.
func (s *SQLiteStore) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO admins (id, password_hash, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		admin.ID, admin.PasswordHash, admin.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check created admin: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("admin %q: %w", admin.ID, storage.ErrConflict)
	}

	return nil
}

// GetAdmin retrieves an admin by ID.
func (s *SQLiteStore) GetAdmin(ctx context.Context, id string) (*models.Admin, error) {
	admin := &models.Admin{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, password_hash, created_at FROM admins WHERE id = ?",
		id,
	).Scan(&admin.ID, &admin.PasswordHash, &admin.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("admin %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return admin, nil
}
