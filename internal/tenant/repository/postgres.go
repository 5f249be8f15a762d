package repository

import (
	"context"
	"database/sql"
	"errors"

	"atlasynq/control-plane/internal/db"
	"atlasynq/control-plane/internal/tenant/domain"
)

type PostgresRepository struct {
	db *sql.DB // nil when bound to a transaction
	q  db.DBTX
}

// NewPostgresRepository returns a tenant repository that uses the given db for persistence.
func NewPostgresRepository(sqlDB *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: sqlDB, q: sqlDB}
}

// GetWorkspaceByID returns the workspace for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetWorkspaceByID(ctx context.Context, id string) (*domain.Workspace, error) {
	var w domain.Workspace
	err := r.q.QueryRowContext(ctx,
		`SELECT id, org_id, name, created_at FROM workspaces WHERE id = $1`, id).
		Scan(&w.ID, &w.OrgID, &w.Name, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// GetRoleByOrgAndName returns the role with the given name in the organization,
// or nil if not found.
func (r *PostgresRepository) GetRoleByOrgAndName(ctx context.Context, orgID, name string) (*domain.Role, error) {
	var role domain.Role
	err := r.q.QueryRowContext(ctx,
		`SELECT id, org_id, name, created_at FROM roles WHERE org_id = $1 AND name = $2`, orgID, name).
		Scan(&role.ID, &role.OrgID, &role.Name, &role.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// ListMembershipsByUser returns the user's memberships in creation order.
// Returns (nil, error) only on database errors.
func (r *PostgresRepository) ListMembershipsByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, workspace_id, role_id, created_at
		 FROM memberships WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.RoleID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// CreateOrganization persists the organization. The organization must have ID set.
func (r *PostgresRepository) CreateOrganization(ctx context.Context, o *domain.Organization) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO organizations (id, name, created_at) VALUES ($1, $2, $3)`,
		o.ID, o.Name, o.CreatedAt)
	return err
}

// CreateRole persists the role. The role must have ID set.
func (r *PostgresRepository) CreateRole(ctx context.Context, role *domain.Role) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO roles (id, org_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		role.ID, role.OrgID, role.Name, role.CreatedAt)
	return err
}

// CreateWorkspace persists the workspace. The workspace must have ID set.
func (r *PostgresRepository) CreateWorkspace(ctx context.Context, w *domain.Workspace) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO workspaces (id, org_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		w.ID, w.OrgID, w.Name, w.CreatedAt)
	return err
}

// CreateMembership persists the membership. The membership must have ID set.
func (r *PostgresRepository) CreateMembership(ctx context.Context, m *domain.Membership) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO memberships (id, user_id, workspace_id, role_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.UserID, m.WorkspaceID, m.RoleID, m.CreatedAt)
	return err
}

// LockUserProvisioning takes a transaction-scoped advisory lock keyed by the
// user id. The lock is released automatically at commit or rollback.
func (r *PostgresRepository) LockUserProvisioning(ctx context.Context, userID string) error {
	if r.db != nil {
		return errors.New("LockUserProvisioning must be called inside WithinTx")
	}
	_, err := r.q.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID)
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
