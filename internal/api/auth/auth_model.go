package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-auth-gate/internal/types"
)

type contextKey string

// IdentityKey holds the types.Identity attached by the Authenticate middleware.
const IdentityKey contextKey = "identity"

// LogoutCookieName is the cookie browsers may hold the bearer token in.
const LogoutCookieName = "jwt_token"

// Claims is the signed payload of an access token.
type Claims struct {
	UserID string `json:"userID"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// WithIdentity binds an authenticated identity to ctx.
func WithIdentity(ctx context.Context, identity types.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFromContext returns the identity attached by the Authenticate middleware.
func IdentityFromContext(ctx context.Context) (types.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(types.Identity)
	return identity, ok
}

// GetUserIDFromContext is a shorthand for handlers that only need the caller's id.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	identity, ok := IdentityFromContext(ctx)
	if !ok || identity.UserID == "" {
		return "", false
	}
	return identity.UserID, true
}
