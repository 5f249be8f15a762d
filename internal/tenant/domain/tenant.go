// Package domain holds the tenancy entities: an organization owns workspaces
// and roles; a membership binds a user to a workspace under a role.
package domain

import (
	"errors"
	"time"
)

// Organization is a tenant. It is created lazily the first time one of its
// users provisions a workspace.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Role is a named role scoped to one organization. (OrgID, Name) is unique.
type Role struct {
	ID        string
	OrgID     string
	Name      string
	CreatedAt time.Time
}

// Workspace belongs to exactly one organization.
type Workspace struct {
	ID        string
	OrgID     string
	Name      string
	CreatedAt time.Time
}

// Validate validates the workspace for persistence.
func (w *Workspace) Validate() error {
	if w.OrgID == "" {
		return errors.New("org id is required")
	}
	if w.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// Membership is the join fact that a user holds a role within a workspace.
// A user holds at most one membership per workspace; the provisioner preserves
// that as a behavioral invariant, it is not a storage constraint.
type Membership struct {
	ID          string
	UserID      string
	WorkspaceID string
	RoleID      string
	CreatedAt   time.Time
}
