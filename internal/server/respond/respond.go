// Package respond writes JSON responses and maps the closed set of service
// errors to HTTP status codes in one place.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	authservice "atlasynq/control-plane/internal/auth/service"
	tenantservice "atlasynq/control-plane/internal/tenant/service"
)

// ErrMalformedBody is returned by handlers for request bodies that cannot be
// decoded or are missing required fields.
var ErrMalformedBody = errors.New("malformed request body")

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Error maps err to its HTTP status and writes an error body. Every sentinel
// the services export is listed here; anything else is treated as a store or
// infrastructure fault and reported as 503 without leaking detail.
func Error(w http.ResponseWriter, err error) {
	var status int
	detail := err.Error()
	switch {
	case errors.Is(err, authservice.ErrEmailAlreadyRegistered):
		status = http.StatusBadRequest
		detail = "Email already registered"
	case errors.Is(err, authservice.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		detail = "Invalid email or password"
	case errors.Is(err, authservice.ErrMissingToken):
		status = http.StatusUnauthorized
		detail = "Missing bearer token"
	case errors.Is(err, authservice.ErrInvalidToken):
		status = http.StatusUnauthorized
		detail = "Invalid token"
	case errors.Is(err, authservice.ErrInvalidEmail),
		errors.Is(err, tenantservice.ErrWorkspaceNameRequired),
		errors.Is(err, ErrMalformedBody):
		status = http.StatusUnprocessableEntity
	default:
		slog.Error("request failed", "error", err)
		status = http.StatusServiceUnavailable
		detail = "datastore unavailable; check CP_DATABASE_URL and database health"
	}
	JSON(w, status, errorBody{Detail: detail})
}
