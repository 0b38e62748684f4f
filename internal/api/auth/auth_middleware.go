package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-auth-gate/app/observability/metrics"
	"github.com/FACorreiaa/go-auth-gate/internal/api"
	"github.com/FACorreiaa/go-auth-gate/internal/types"
)

// GateDecision is the outcome of inspecting a request's bearer credential.
type GateDecision int

const (
	GatePass GateDecision = iota
	GateUnauthenticated
	GateInvalidToken
)

func (d GateDecision) String() string {
	switch d {
	case GatePass:
		return "pass"
	case GateUnauthenticated:
		return "unauthenticated"
	case GateInvalidToken:
		return "invalid_token"
	default:
		return "unknown"
	}
}

// Gate authenticates inbound requests from the Authorization header alone.
// It performs no I/O: verification is purely cryptographic.
type Gate struct {
	verifier TokenVerifier
	logger   *slog.Logger
	metrics  *metrics.AppMetrics
}

func NewGate(verifier TokenVerifier, m *metrics.AppMetrics, logger *slog.Logger) *Gate {
	return &Gate{
		verifier: verifier,
		logger:   logger,
		metrics:  m,
	}
}

// bearerToken extracts <token> from "Bearer <token>". The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Inspect classifies r. The identity is non-nil only for GatePass; err carries the
// verification failure for GateInvalidToken.
func (g *Gate) Inspect(r *http.Request) (GateDecision, *types.Identity, error) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return GateUnauthenticated, nil, api.ErrUnauthenticated
	}

	identity, err := g.verifier.Verify(token)
	if err != nil {
		return GateInvalidToken, nil, err
	}
	return GatePass, identity, nil
}

// Authenticate is middleware that rejects requests without a valid bearer token and
// attaches the decoded identity to the request context otherwise.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		l := g.logger.With(slog.String("middleware", "Authenticate"), slog.String("path", r.URL.Path))

		decision, identity, err := g.Inspect(r)
		g.metrics.AuthGateDecisionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("decision", decision.String())))

		switch decision {
		case GateUnauthenticated:
			l.WarnContext(ctx, "Missing or malformed Authorization header")
			api.ErrorResponse(w, r, http.StatusUnauthorized, api.MsgLoginRequired)
			return
		case GateInvalidToken:
			l.WarnContext(ctx, "Token verification failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, api.MsgInvalidToken)
			return
		}

		ctx = WithIdentity(ctx, *identity)
		l.DebugContext(ctx, "Authentication successful, identity added to context", slog.String("userID", identity.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
