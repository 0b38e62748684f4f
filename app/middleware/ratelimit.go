package appMiddleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/FACorreiaa/go-auth-gate/internal/api"
)

const MsgTooManyRequests = "Too many requests, please try again later"

// CredentialRateLimit throttles credential endpoints per client IP.
// A non-positive requests value disables the limiter.
func CredentialRateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(credentialKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			api.ErrorResponse(w, r, http.StatusTooManyRequests, MsgTooManyRequests)
		}),
	)
}

func credentialKey(r *http.Request) (string, error) {
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "cred:" + key, nil
}
