// Package service implements workspace provisioning: the lazy creation of a
// user's organization and owner role on their first workspace request.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"atlasynq/control-plane/internal/tenant/domain"
	"atlasynq/control-plane/internal/tenant/repository"
	userdomain "atlasynq/control-plane/internal/user/domain"
)

// OwnerRoleName is the sentinel role granted to the user who creates an
// organization's first workspace.
const OwnerRoleName = "owner"

// ErrWorkspaceNameRequired is returned when a workspace is requested without a name.
var ErrWorkspaceNameRequired = errors.New("workspace name is required")

// Provisioner creates workspaces, provisioning the owning organization and
// owner role the first time a user needs them. Repeated calls for the same
// user reuse the organization and role.
type Provisioner struct {
	repo   repository.Repository
	logger *slog.Logger
}

// NewProvisioner returns a Provisioner using the given repository. logger may
// be nil, in which case the default slog logger is used.
func NewProvisioner(repo repository.Repository, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{repo: repo, logger: logger}
}

// CreateWorkspace creates a workspace for the user, inside one transaction:
// resolve the user's organization through any existing membership, or create
// an organization (named after the email) with an owner role; then create the
// workspace and a membership binding the user to it as owner. A per-user
// advisory lock spans the transaction so two concurrent first requests cannot
// create two organizations.
func (p *Provisioner) CreateWorkspace(ctx context.Context, user *userdomain.User, name string) (*domain.Workspace, error) {
	if name == "" {
		return nil, ErrWorkspaceNameRequired
	}

	var created *domain.Workspace
	err := p.repo.WithinTx(ctx, func(r repository.Repository) error {
		if err := r.LockUserProvisioning(ctx, user.ID); err != nil {
			return err
		}

		orgID, err := p.resolveOrg(ctx, r, user.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if orgID == "" {
			org := &domain.Organization{
				ID:        uuid.New().String(),
				Name:      fmt.Sprintf("%s's org", user.Email),
				CreatedAt: now,
			}
			if err := r.CreateOrganization(ctx, org); err != nil {
				return err
			}
			orgID = org.ID
		}

		role, err := r.GetRoleByOrgAndName(ctx, orgID, OwnerRoleName)
		if err != nil {
			return err
		}
		if role == nil {
			role = &domain.Role{
				ID:        uuid.New().String(),
				OrgID:     orgID,
				Name:      OwnerRoleName,
				CreatedAt: now,
			}
			if err := r.CreateRole(ctx, role); err != nil {
				return err
			}
		}

		ws := &domain.Workspace{
			ID:        uuid.New().String(),
			OrgID:     orgID,
			Name:      name,
			CreatedAt: now,
		}
		if err := ws.Validate(); err != nil {
			return err
		}
		if err := r.CreateWorkspace(ctx, ws); err != nil {
			return err
		}

		membership := &domain.Membership{
			ID:          uuid.New().String(),
			UserID:      user.ID,
			WorkspaceID: ws.ID,
			RoleID:      role.ID,
			CreatedAt:   now,
		}
		if err := r.CreateMembership(ctx, membership); err != nil {
			return err
		}

		created = ws
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListWorkspaces returns the workspaces the user holds a membership in.
// A membership whose workspace row is gone is skipped with a warning rather
// than failing the whole listing.
func (p *Provisioner) ListWorkspaces(ctx context.Context, userID string) ([]*domain.Workspace, error) {
	memberships, err := p.repo.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Workspace, 0, len(memberships))
	for _, m := range memberships {
		ws, err := p.repo.GetWorkspaceByID(ctx, m.WorkspaceID)
		if err != nil {
			return nil, err
		}
		if ws == nil {
			p.logger.Warn("membership references missing workspace",
				"membership_id", m.ID, "workspace_id", m.WorkspaceID, "user_id", userID)
			continue
		}
		out = append(out, ws)
	}
	return out, nil
}

// resolveOrg finds the user's home organization through any existing
// membership: membership, then its workspace, then the workspace's
// organization. Returns "" when the user holds no membership. The oldest
// membership whose workspace still resolves wins.
func (p *Provisioner) resolveOrg(ctx context.Context, r repository.Repository, userID string) (string, error) {
	memberships, err := r.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, m := range memberships {
		ws, err := r.GetWorkspaceByID(ctx, m.WorkspaceID)
		if err != nil {
			return "", err
		}
		if ws != nil {
			return ws.OrgID, nil
		}
	}
	return "", nil
}
