// Package handler serves the root and health probes with static service metadata.
package handler

import (
	"net/http"

	"atlasynq/control-plane/internal/server/respond"
)

// Handler serves liveness probes for Kubernetes, load balancers, and CI.
type Handler struct {
	service string
	version string
}

// NewHandler returns a health Handler reporting the given service name and version.
func NewHandler(service, version string) *Handler {
	return &Handler{service: service, version: version}
}

type rootResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, req *http.Request) {
	respond.JSON(w, http.StatusOK, rootResponse{Service: h.service, Version: h.version, Status: "ok"})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, req *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
