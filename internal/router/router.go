package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-auth-gate/docs"
	"github.com/FACorreiaa/go-auth-gate/internal/api/auth"
	"github.com/FACorreiaa/go-auth-gate/internal/api/data"
)

type Middleware = func(http.Handler) http.Handler

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            auth.Handler
	DataHandler            data.Handler
	AuthenticateMiddleware Middleware
	// CredentialRateLimit guards register and login; nil disables it.
	CredentialRateLimit Middleware
	AllowedOrigins      []string
}

// SetupRouter initializes the application routes. Server-wide middleware
// (request id, logger, recoverer) is applied in main before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Hello World!"))
	})

	r.Get("/api-docs/*", httpSwagger.Handler(httpSwagger.URL("/api-docs/doc.json")))

	r.Route("/user", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.CredentialRateLimit != nil {
				r.Use(cfg.CredentialRateLimit)
			}
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
		})
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthenticateMiddleware)
		r.Get("/data", cfg.DataHandler.GetEntries)
		r.Get("/me", cfg.AuthHandler.Me)
	})

	return r
}
