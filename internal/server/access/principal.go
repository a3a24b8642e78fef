package access

import (
	"context"

	"github.com/dmitrijs2005/loadout/internal/server/models"
)

type principalKey struct{}

// WithPrincipal returns ctx carrying the authenticated user.
func WithPrincipal(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, principalKey{}, user)
}

// Principal returns the authenticated user stored in ctx, or nil.
func Principal(ctx context.Context) *models.User {
	u, _ := ctx.Value(principalKey{}).(*models.User)
	return u
}
