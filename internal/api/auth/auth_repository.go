package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-auth-gate/app/observability/metrics"
	"github.com/FACorreiaa/go-auth-gate/internal/api"
	"github.com/FACorreiaa/go-auth-gate/internal/types"
)

var _ UserStore = (*PostgresUserStore)(nil)

// UserStore is the persistence contract the auth services depend on.
type UserStore interface {
	// FindByEmail returns every record stored under email, oldest first.
	FindByEmail(ctx context.Context, email string) ([]types.UserRecord, error)
	// Create persists record and returns it with the store-assigned id.
	// Returns api.ErrConflict if the email is already taken.
	Create(ctx context.Context, record types.UserRecord) (*types.UserRecord, error)
}

// DBTX is the subset of *pgxpool.Pool used by the store; pgxmock satisfies it in tests.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresUserStore struct {
	logger  *slog.Logger
	db      DBTX
	metrics *metrics.AppMetrics
}

func NewPostgresUserStore(db DBTX, m *metrics.AppMetrics, logger *slog.Logger) *PostgresUserStore {
	return &PostgresUserStore{
		logger:  logger,
		db:      db,
		metrics: m,
	}
}

func (r *PostgresUserStore) observe(ctx context.Context, operation string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("db.operation", operation), attribute.String("db.sql.table", "users"))
	r.metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		r.metrics.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func (r *PostgresUserStore) FindByEmail(ctx context.Context, email string) ([]types.UserRecord, error) {
	ctx, span := otel.Tracer("PostgresUserStore").Start(ctx, "FindByEmail", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "FindByEmail"))
	start := time.Now()

	query := `
		SELECT id, email, password_hash, name, created_at
		FROM users
		WHERE email = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		r.observe(ctx, "SELECT", start, err)
		l.ErrorContext(ctx, "Failed to query users by email", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user by email: %w", err)
	}
	defer rows.Close()

	var users []types.UserRecord
	for rows.Next() {
		var u types.UserRecord
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt); err != nil {
			r.observe(ctx, "SELECT", start, err)
			l.ErrorContext(ctx, "Failed to scan user row", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("database error scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		r.observe(ctx, "SELECT", start, err)
		l.ErrorContext(ctx, "Error iterating user rows", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("database error iterating users: %w", err)
	}

	r.observe(ctx, "SELECT", start, nil)
	span.SetAttributes(attribute.Int("db.rows", len(users)))
	span.SetStatus(codes.Ok, "Users fetched")
	return users, nil
}

func (r *PostgresUserStore) Create(ctx context.Context, record types.UserRecord) (*types.UserRecord, error) {
	ctx, span := otel.Tracer("PostgresUserStore").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Create"))
	start := time.Now()

	query := `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	created := record
	err := r.db.QueryRow(ctx, query, record.Email, record.PasswordHash, record.Name).Scan(&created.ID, &created.CreatedAt)
	r.observe(ctx, "INSERT", start, err)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // users_email_key
			l.WarnContext(ctx, "Attempted to create user with duplicate email")
			span.RecordError(err)
			span.SetStatus(codes.Error, "Duplicate email")
			return nil, fmt.Errorf("user with this email already exists: %w", api.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	l.InfoContext(ctx, "User created", slog.String("userID", created.ID.String()))
	span.SetAttributes(attribute.String("db.user.id", created.ID.String()))
	span.SetStatus(codes.Ok, "User created")
	return &created, nil
}
