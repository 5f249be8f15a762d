package middleware

import (
	"context"

	userdomain "atlasynq/control-plane/internal/user/domain"
)

type ctxKeyUser struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *userdomain.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser{}, u)
}

// UserFromContext returns the authenticated user set by RequireAuth.
func UserFromContext(ctx context.Context) (*userdomain.User, bool) {
	u, ok := ctx.Value(ctxKeyUser{}).(*userdomain.User)
	return u, ok
}
