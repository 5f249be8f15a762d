package repository

import (
	"context"

	"atlasynq/control-plane/internal/tenant/domain"
)

// Repository defines persistence for organizations, roles, workspaces, and
// memberships. All single-row lookups return nil, not an error, for missing rows.
type Repository interface {
	GetWorkspaceByID(ctx context.Context, id string) (*domain.Workspace, error)
	GetRoleByOrgAndName(ctx context.Context, orgID, name string) (*domain.Role, error)
	// ListMembershipsByUser returns the user's memberships in creation order.
	ListMembershipsByUser(ctx context.Context, userID string) ([]*domain.Membership, error)
	CreateOrganization(ctx context.Context, o *domain.Organization) error
	CreateRole(ctx context.Context, r *domain.Role) error
	CreateWorkspace(ctx context.Context, w *domain.Workspace) error
	CreateMembership(ctx context.Context, m *domain.Membership) error
	// LockUserProvisioning serializes provisioning for one user for the
	// remainder of the current transaction. Must be called inside WithinTx;
	// it is what keeps two concurrent first-workspace requests from creating
	// two organizations for the same user.
	LockUserProvisioning(ctx context.Context, userID string) error
	// WithinTx runs fn with a Repository bound to a single transaction,
	// committing on nil and rolling back on error. Calls on an already
	// transaction-bound Repository run in the same transaction.
	WithinTx(ctx context.Context, fn func(Repository) error) error
}
