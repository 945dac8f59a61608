package auth

import (
	"context"

	"github.com/tsvrsm/backoffice/internal/models"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	claimsKey   contextKey = "claims"
)

func WithIdentity(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, identityKey, u)
}

func IdentityFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(identityKey).(*models.User)
	return u
}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}
