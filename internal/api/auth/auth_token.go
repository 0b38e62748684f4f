package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-auth-gate/config"
	"github.com/FACorreiaa/go-auth-gate/internal/api"
	"github.com/FACorreiaa/go-auth-gate/internal/types"
)

var (
	_ TokenSigner   = (*TokenIssuer)(nil)
	_ TokenVerifier = (*TokenIssuer)(nil)
)

// TokenSigner mints access tokens for a user.
type TokenSigner interface {
	Issue(userID, email string) (string, error)
}

// TokenVerifier checks an access token and decodes its identity.
type TokenVerifier interface {
	Verify(tokenString string) (*types.Identity, error)
}

// TokenIssuer signs and verifies HS256 access tokens with a process-wide secret.
// It holds no mutable state and is safe for concurrent use.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenIssuer)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenIssuer) {
		t.now = now
	}
}

func NewTokenIssuer(cfg config.JWTConfig, opts ...TokenOption) (*TokenIssuer, error) {
	if cfg.SecretKey == "" {
		return nil, config.ErrMissingJWTSecret
	}
	t := &TokenIssuer{
		secret: []byte(cfg.SecretKey),
		issuer: cfg.Issuer,
		ttl:    config.TokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Issue returns a compact JWS carrying userID and email that expires one hour after issuance.
func (t *TokenIssuer) Issue(userID, email string) (string, error) {
	issuedAt := t.now().Truncate(jwt.TimePrecision)
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. Every failure wraps api.ErrInvalidToken;
// malformed, tampered and expired tokens are deliberately indistinguishable to callers.
func (t *TokenIssuer) Verify(tokenString string) (*types.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing identity claims", api.ErrInvalidToken)
	}

	identity := &types.Identity{
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	return identity, nil
}
