package domain

import (
	"errors"
	"time"
)

// User is the core user entity. Email is stored lowercased; lookups are
// case-insensitive by construction.
type User struct {
	ID           string
	Email        string
	FullName     string // optional display name
	PasswordHash string
	Verified     bool // reserved for a future email verification flow
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("id is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
