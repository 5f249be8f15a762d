package repository

import (
	"context"
	"errors"

	"atlasynq/control-plane/internal/user/domain"
)

// ErrDuplicateEmail is returned by Create when another user already holds the
// email (unique constraint), covering the race between pre-check and insert.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository defines persistence for users.
type Repository interface {
	// GetByID returns the user for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail returns the user with the given (lowercased) email, or nil if not found.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create persists the user. The user must have ID set. Returns
	// ErrDuplicateEmail on an email uniqueness violation.
	Create(ctx context.Context, u *domain.User) error
	// WithinTx runs fn with a Repository bound to a single transaction,
	// committing on nil and rolling back on error. Calls on an already
	// transaction-bound Repository run in the same transaction.
	WithinTx(ctx context.Context, fn func(Repository) error) error
}
