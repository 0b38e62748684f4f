package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-auth-gate/config"
	"github.com/FACorreiaa/go-auth-gate/internal/api"
)

var _ Hasher = (*BcryptHasher)(nil)

// Hasher produces and checks one-way password digests.
type Hasher interface {
	// Hash returns a freshly salted digest of plaintext.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. Malformed digests never match.
	Verify(plaintext, digest string) bool
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher falls back to config.DefaultBcryptCost for costs bcrypt does not accept.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = config.DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("password longer than 72 bytes: %w", api.ErrValidation)
		}
		return "", fmt.Errorf("%w: %v", api.ErrHashing, err)
	}
	return string(digest), nil
}

// Verify relies on bcrypt's constant-time comparison of the derived keys.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
