package appMiddleware

import (
	"log/slog"
	"net/http"

	"github.com/unrolled/secure"
)

// SecureHeaders sets the browser hardening headers on every response.
// isDevelopment disables HSTS and the HTTPS redirect.
func SecureHeaders(isDevelopment bool, logger *slog.Logger) func(http.Handler) http.Handler {
	sm := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		STSSeconds:         31536000,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      isDevelopment,
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sm.Process(w, r); err != nil {
				logger.WarnContext(r.Context(), "secure headers blocked request", slog.Any("error", err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
