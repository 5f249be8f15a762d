// Package middleware provides HTTP middleware: bearer authentication, request
// logging, and per-request tracing.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"atlasynq/control-plane/internal/server/respond"
	userdomain "atlasynq/control-plane/internal/user/domain"
)

const bearerPrefix = "bearer "

// Resolver turns a bearer token into the authenticated user.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*userdomain.User, error)
}

// RequireAuth authenticates the request via the Authorization Bearer header,
// resolves the user, and injects it into the request context. Auth failures
// end the request with the resolver's error mapped to a status code.
func RequireAuth(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			token := extractBearer(req)
			user, err := resolver.Resolve(req.Context(), token)
			if err != nil {
				respond.Error(w, err)
				return
			}
			next.ServeHTTP(w, req.WithContext(WithUser(req.Context(), user)))
		})
	}
}

// extractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed.
func extractBearer(req *http.Request) string {
	v := strings.TrimSpace(req.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
