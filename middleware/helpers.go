package middleware

import (
	"context"

	"github.com/Dosada05/lanoel/models"
)

type contextKey string

const identityContextKey contextKey = "identity"

func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *models.Identity {
	identity, ok := ctx.Value(identityContextKey).(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}
