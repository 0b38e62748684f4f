package metrics

import (
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RegisterRequestsTotal   metric.Int64Counter
	RegisterDurationSeconds metric.Float64Histogram
	LoginRequestsTotal      metric.Int64Counter
	LoginDurationSeconds    metric.Float64Histogram
	AuthGateDecisionsTotal  metric.Int64Counter
	DbQueryDurationSeconds  metric.Float64Histogram
	DbQueryErrorsTotal      metric.Int64Counter
	UpstreamCacheHitsTotal  metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// New builds the instrument set on the given meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.RegisterRequestsTotal, err = meter.Int64Counter(
		"register_requests_total",
		metric.WithDescription("Total number of register requests completed, by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("register_requests_total: %w", err)
	}

	m.RegisterDurationSeconds, err = meter.Float64Histogram(
		"register_duration_seconds",
		metric.WithDescription("Duration of register requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("register_duration_seconds: %w", err)
	}

	m.LoginRequestsTotal, err = meter.Int64Counter(
		"login_requests_total",
		metric.WithDescription("Total number of login attempts, by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("login_requests_total: %w", err)
	}

	m.LoginDurationSeconds, err = meter.Float64Histogram(
		"login_duration_seconds",
		metric.WithDescription("Duration of login requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("login_duration_seconds: %w", err)
	}

	m.AuthGateDecisionsTotal, err = meter.Int64Counter(
		"auth_gate_decisions_total",
		metric.WithDescription("Bearer token gate outcomes (pass, unauthenticated, invalid_token)"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("auth_gate_decisions_total: %w", err)
	}

	m.DbQueryDurationSeconds, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("db_query_duration_seconds: %w", err)
	}

	m.DbQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("db_query_errors_total: %w", err)
	}

	m.UpstreamCacheHitsTotal, err = meter.Int64Counter(
		"upstream_cache_lookups_total",
		metric.WithDescription("Data proxy cache lookups, by result (hit, miss)"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("upstream_cache_lookups_total: %w", err)
	}

	return m, nil
}

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-auth-gate")
		m, err := New(meter)
		if err != nil {
			log.Fatalf("Metrics: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
