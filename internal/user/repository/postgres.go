package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"atlasynq/control-plane/internal/db"
	"atlasynq/control-plane/internal/user/domain"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB // nil when bound to a transaction
	q  db.DBTX
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(sqlDB *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: sqlDB, q: sqlDB}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, email, full_name, password_hash, is_verified, created_at, updated_at
		 FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, email, full_name, password_hash, is_verified, created_at, updated_at
		 FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// Create persists the user to the database. The user must have ID set; it is
// not assigned by this method. An email uniqueness violation is reported as
// ErrDuplicateEmail so callers racing past their pre-check fail loudly.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	fullName := sql.NullString{String: u.FullName, Valid: u.FullName != ""}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, email, full_name, password_hash, is_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, fullName, u.PasswordHash, u.Verified, u.CreatedAt, u.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

// WithinTx begins a transaction and runs fn with a transaction-bound copy of
// the repository. On a repository that is already transaction-bound, fn runs
// in the existing transaction.
func (r *PostgresRepository) WithinTx(ctx context.Context, fn func(Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&PostgresRepository{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var fullName sql.NullString
	err := row.Scan(&u.ID, &u.Email, &fullName, &u.PasswordHash, &u.Verified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.FullName = fullName.String
	return &u, nil
}
