package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-auth-gate/app/db"
	appMiddleware "github.com/FACorreiaa/go-auth-gate/app/middleware"
	"github.com/FACorreiaa/go-auth-gate/app/observability/metrics"
	"github.com/FACorreiaa/go-auth-gate/config"
	"github.com/FACorreiaa/go-auth-gate/internal/api/auth"
	"github.com/FACorreiaa/go-auth-gate/internal/api/data"
	api "github.com/FACorreiaa/go-auth-gate/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Pool        *pgxpool.Pool
	Gate        *auth.Gate
	AuthHandler *auth.HandlerImpl
	DataHandler *data.HandlerImpl
}

// Build wires the services on top of an already-open store. Tests pass an
// in-memory store here; NewContainer passes the Postgres one.
func Build(cfg *config.Config, store auth.UserStore, m *metrics.AppMetrics, logger *slog.Logger) (*Container, error) {
	tokens, err := auth.NewTokenIssuer(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	authService := auth.NewAuthService(store, hasher, tokens, m, logger)
	dataService := data.NewDataService(cfg.Data, m, logger)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Gate:        auth.NewGate(tokens, m, logger),
		AuthHandler: auth.NewAuthHandlerImpl(authService, logger),
		DataHandler: data.NewDataHandlerImpl(dataService, logger),
	}, nil
}

// NewContainer opens the database pool and wires every handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return nil, err
	}

	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		return nil, err
	}
	if !database.WaitForDB(ctx, pool, logger) {
		pool.Close()
		return nil, fmt.Errorf("database not ready")
	}

	m := metrics.Get()
	c, err := Build(cfg, auth.NewPostgresUserStore(pool, m, logger), m, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	c.Pool = pool
	return c, nil
}

// Router returns the application routes with this container's handlers.
func (c *Container) Router() http.Handler {
	return api.SetupRouter(&api.Config{
		AuthHandler:            c.AuthHandler,
		DataHandler:            c.DataHandler,
		AuthenticateMiddleware: c.Gate.Authenticate,
		CredentialRateLimit:    appMiddleware.CredentialRateLimit(c.Config.RateLimit.Requests, c.Config.RateLimit.Window),
		AllowedOrigins:         c.Config.CORS.AllowedOrigins,
	})
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
