package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-auth-gate/app/observability/metrics"
	"github.com/FACorreiaa/go-auth-gate/internal/api"
	"github.com/FACorreiaa/go-auth-gate/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService covers account registration and credential login.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*types.UserRecord, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type AuthServiceImpl struct {
	logger   *slog.Logger
	repo     UserStore
	hasher   Hasher
	tokens   TokenSigner
	validate *validator.Validate
	metrics  *metrics.AppMetrics

	// digest compared against when the email is unknown, so both login
	// failures pay the same hashing cost
	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(repo UserStore, hasher Hasher, tokens TokenSigner, m *metrics.AppMetrics, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:   logger,
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  m,
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, api.ErrValidation):
		return "invalid_input"
	case errors.Is(err, api.ErrConflict):
		return "conflict"
	case errors.Is(err, api.ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "error"
	}
}

// Register creates an account. The lookup below is only a fast path: two concurrent
// registrations can both pass it, and the store's unique index decides.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, name string) (user *types.UserRecord, err error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()

	start := time.Now()
	defer func() {
		attrs := metric.WithAttributes(attribute.String("outcome", outcomeOf(err)))
		s.metrics.RegisterRequestsTotal.Add(ctx, 1, attrs)
		s.metrics.RegisterDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	l := s.logger.With(slog.String("method", "Register"))

	if err := s.validate.Struct(api.RegisterRequest{Email: email, Password: password, Name: name}); err != nil {
		l.DebugContext(ctx, "Registration input rejected", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid input")
		return nil, fmt.Errorf("register: %w", api.ErrValidation)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		l.ErrorContext(ctx, "Failed to check existing user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Uniqueness check failed")
		return nil, fmt.Errorf("register: uniqueness check: %w", err)
	}
	if len(existing) > 0 {
		l.InfoContext(ctx, "Registration attempted for existing email")
		span.SetStatus(codes.Error, "Email taken")
		return nil, fmt.Errorf("register: %w", api.ErrConflict)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Hashing failed")
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.repo.Create(ctx, types.UserRecord{
		Email:        email,
		PasswordHash: digest,
		Name:         name,
	})
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			l.InfoContext(ctx, "Concurrent registration lost the race on email")
		} else {
			l.ErrorContext(ctx, "Failed to persist user", slog.Any("error", err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		return nil, fmt.Errorf("register: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", created.ID.String()))
	span.SetAttributes(attribute.String("user.id", created.ID.String()))
	span.SetStatus(codes.Ok, "User registered")
	return created, nil
}

// Login returns a signed access token for a valid email/password pair. Unknown email
// and wrong password both yield api.ErrInvalidCredentials.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (token string, err error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	start := time.Now()
	defer func() {
		attrs := metric.WithAttributes(attribute.String("outcome", outcomeOf(err)))
		s.metrics.LoginRequestsTotal.Add(ctx, 1, attrs)
		s.metrics.LoginDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	l := s.logger.With(slog.String("method", "Login"))

	if err := s.validate.Struct(api.LoginRequest{Email: email, Password: password}); err != nil {
		span.SetStatus(codes.Error, "Invalid input")
		return "", fmt.Errorf("login: %w", api.ErrValidation)
	}

	users, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		l.ErrorContext(ctx, "Failed to look up user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return "", fmt.Errorf("login: lookup: %w", err)
	}
	if len(users) == 0 {
		s.hasher.Verify(password, s.unknownUserDigest())
		l.InfoContext(ctx, "Login failed")
		span.SetStatus(codes.Error, "Invalid credentials")
		return "", fmt.Errorf("login: no such user: %w", api.ErrInvalidCredentials)
	}

	user := users[0]
	if !s.hasher.Verify(password, user.PasswordHash) {
		l.InfoContext(ctx, "Login failed")
		span.SetStatus(codes.Error, "Invalid credentials")
		return "", fmt.Errorf("login: password mismatch: %w", api.ErrInvalidCredentials)
	}

	token, err = s.tokens.Issue(user.ID.String(), user.Email)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token issue failed")
		return "", fmt.Errorf("login: %w", err)
	}

	l.InfoContext(ctx, "User logged in", slog.String("userID", user.ID.String()))
	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	span.SetStatus(codes.Ok, "Logged in")
	return token, nil
}

func (s *AuthServiceImpl) unknownUserDigest() string {
	s.dummyOnce.Do(func() {
		buf := make([]byte, 16)
		_, _ = rand.Read(buf)
		digest, err := s.hasher.Hash(hex.EncodeToString(buf))
		if err != nil {
			s.logger.Warn("Failed to prepare unknown-user digest", slog.Any("error", err))
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}
