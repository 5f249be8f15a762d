// Package handler exposes workspace creation and listing over HTTP JSON.
package handler

import (
	"encoding/json"
	"net/http"

	authservice "atlasynq/control-plane/internal/auth/service"
	"atlasynq/control-plane/internal/server/middleware"
	"atlasynq/control-plane/internal/server/respond"
	"atlasynq/control-plane/internal/tenant/service"
)

// Handler serves the workspace routes.
type Handler struct {
	provisioner *service.Provisioner
}

// NewHandler returns a tenant Handler backed by the given provisioner.
func NewHandler(provisioner *service.Provisioner) *Handler {
	return &Handler{provisioner: provisioner}
}

type createRequest struct {
	Name string `json:"name"`
}

type workspaceResponse struct {
	ID    string `json:"id"`
	OrgID string `json:"org_id"`
	Name  string `json:"name"`
}

// Create handles POST /api/cp/workspaces.
func (h *Handler) Create(w http.ResponseWriter, req *http.Request) {
	user, ok := middleware.UserFromContext(req.Context())
	if !ok {
		respond.Error(w, authservice.ErrMissingToken)
		return
	}
	var body createRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respond.Error(w, respond.ErrMalformedBody)
		return
	}
	ws, err := h.provisioner.CreateWorkspace(req.Context(), user, body.Name)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, workspaceResponse{ID: ws.ID, OrgID: ws.OrgID, Name: ws.Name})
}

// List handles GET /api/cp/workspaces.
func (h *Handler) List(w http.ResponseWriter, req *http.Request) {
	user, ok := middleware.UserFromContext(req.Context())
	if !ok {
		respond.Error(w, authservice.ErrMissingToken)
		return
	}
	workspaces, err := h.provisioner.ListWorkspaces(req.Context(), user.ID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	out := make([]workspaceResponse, 0, len(workspaces))
	for _, ws := range workspaces {
		out = append(out, workspaceResponse{ID: ws.ID, OrgID: ws.OrgID, Name: ws.Name})
	}
	respond.JSON(w, http.StatusOK, out)
}
