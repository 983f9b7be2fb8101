package models

import "time"

// Admin represents an operator account.
// Admins record attendance, register monthly bills and create other admins.
type Admin struct {
	// ID is the admin's login name (unique).
	ID string

	// PasswordHash is the bcrypt hash of the admin's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewAdmin creates an Admin with the creation time set to now.
func NewAdmin(id, passwordHash string) *Admin {
	return &Admin{
		ID:           id,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
