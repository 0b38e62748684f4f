package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-auth-gate/config"
	"github.com/FACorreiaa/go-auth-gate/internal/api"
)

var testJWTConfig = config.JWTConfig{SecretKey: "test-access-secret", Issuer: "test-issuer"}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestIssuer(t *testing.T, now time.Time) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(testJWTConfig, WithClock(fixedClock(now)))
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer(config.JWTConfig{})
	assert.ErrorIs(t, err, config.ErrMissingJWTSecret)
}

func TestIssueAndVerify(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, now)

	token, err := issuer.Issue("user-123", "a@x.com")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3, "compact JWS has three parts")

	identity, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)
	assert.Equal(t, "a@x.com", identity.Email)
	assert.True(t, identity.IssuedAt.Equal(now))
	assert.True(t, identity.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestTokenPayloadClaims(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	token, err := newTestIssuer(t, now).Issue("user-123", "a@x.com")
	require.NoError(t, err)

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &claims))
	assert.Equal(t, "user-123", claims["userID"])
	assert.Equal(t, "a@x.com", claims["email"])
	assert.EqualValues(t, now.Unix(), claims["iat"])
	assert.EqualValues(t, now.Add(time.Hour).Unix(), claims["exp"])
}

func TestVerifyExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	token, err := newTestIssuer(t, issuedAt).Issue("user-123", "a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"JustIssued", issuedAt, true},
		{"OneSecondBeforeExpiry", issuedAt.Add(time.Hour - time.Second), true},
		{"AtExpiry", issuedAt.Add(time.Hour), false},
		{"AfterExpiry", issuedAt.Add(time.Hour + time.Second), false},
		{"DayLater", issuedAt.Add(24 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestIssuer(t, tt.at).Verify(token)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, api.ErrInvalidToken)
		})
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(t, now)
	token, err := issuer.Issue("user-123", "a@x.com")
	require.NoError(t, err)

	for i := range token {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, err := issuer.Verify(tampered)
		assert.ErrorIs(t, err, api.ErrInvalidToken, "tampering byte %d should invalidate the token", i)
	}
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(t, now)

	t.Run("OtherSecret", func(t *testing.T) {
		other, err := NewTokenIssuer(config.JWTConfig{SecretKey: "another-secret", Issuer: "test-issuer"}, WithClock(fixedClock(now)))
		require.NoError(t, err)
		token, err := other.Issue("user-123", "a@x.com")
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, api.ErrInvalidToken)
	})

	t.Run("AlgNone", func(t *testing.T) {
		claims := Claims{
			UserID: "user-123",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, api.ErrInvalidToken)
	})

	t.Run("NoExpiry", func(t *testing.T) {
		claims := Claims{UserID: "user-123", RegisteredClaims: jwt.RegisteredClaims{Issuer: "test-issuer"}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTConfig.SecretKey))
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, api.ErrInvalidToken)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		other, err := NewTokenIssuer(config.JWTConfig{SecretKey: testJWTConfig.SecretKey, Issuer: "someone-else"}, WithClock(fixedClock(now)))
		require.NoError(t, err)
		token, err := other.Issue("user-123", "a@x.com")
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, api.ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		for _, s := range []string{"", "garbage", "a.b.c", "...."} {
			_, err := issuer.Verify(s)
			assert.True(t, errors.Is(err, api.ErrInvalidToken), "input %q", s)
		}
	})
}
