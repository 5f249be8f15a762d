// Package server wires the HTTP routes to the handlers and middleware.
package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	authhandler "atlasynq/control-plane/internal/auth/handler"
	healthhandler "atlasynq/control-plane/internal/health/handler"
	"atlasynq/control-plane/internal/server/middleware"
	tenanthandler "atlasynq/control-plane/internal/tenant/handler"
)

// NewRouter builds the route tree: public probes and auth routes, and the
// protected group behind bearer authentication.
func NewRouter(
	logger *slog.Logger,
	resolver middleware.Resolver,
	auth *authhandler.Handler,
	tenant *tenanthandler.Handler,
	health *healthhandler.Handler,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Tracing("control-plane-api"))

	r.Get("/", health.Root)
	r.Get("/healthz", health.Health)

	r.Route("/api/cp", func(api chi.Router) {
		api.Post("/signup", auth.Signup)
		api.Post("/login", auth.Login)

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth(resolver))
			protected.Get("/me", auth.Me)
			protected.Post("/workspaces", tenant.Create)
			protected.Get("/workspaces", tenant.List)
		})
	})

	return r
}
