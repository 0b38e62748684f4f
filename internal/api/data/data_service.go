package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-auth-gate/app/observability/metrics"
	"github.com/FACorreiaa/go-auth-gate/config"
)

var _ Service = (*ServiceImpl)(nil)

// Service returns catalogue entries, optionally filtered by category.
// A limit of 0 returns every entry.
type Service interface {
	Entries(ctx context.Context, category string, limit int) ([]Entry, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	client   *http.Client
	upstream string
	cache    *cache.Cache
	metrics  *metrics.AppMetrics
}

func NewDataService(cfg config.DataConfig, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &ServiceImpl{
		logger: logger,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		upstream: cfg.UpstreamURL,
		cache:    cache.New(ttl, 2*ttl),
		metrics:  m,
	}
}

func (s *ServiceImpl) Entries(ctx context.Context, category string, limit int) ([]Entry, error) {
	ctx, span := otel.Tracer("DataService").Start(ctx, "Entries", trace.WithAttributes(
		attribute.String("data.category", category),
		attribute.Int("data.limit", limit),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Entries"), slog.String("category", category))

	var entries []Entry
	if cached, found := s.cache.Get(category); found {
		s.metrics.UpstreamCacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "hit")))
		entries = cached.([]Entry)
		l.DebugContext(ctx, "Serving entries from cache", slog.Int("count", len(entries)))
	} else {
		s.metrics.UpstreamCacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "miss")))
		fetched, err := s.fetch(ctx, category)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "upstream fetch failed")
			l.ErrorContext(ctx, "Failed to fetch entries", slog.Any("error", err))
			return nil, err
		}
		s.cache.SetDefault(category, fetched)
		entries = fetched
	}

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	// callers must not alias the cached slice
	out := make([]Entry, len(entries))
	copy(out, entries)

	span.SetAttributes(attribute.Int("data.returned", len(out)))
	span.SetStatus(codes.Ok, "entries returned")
	return out, nil
}

func (s *ServiceImpl) fetch(ctx context.Context, category string) ([]Entry, error) {
	u, err := url.Parse(s.upstream)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid upstream url: %v", ErrUpstream, err)
	}
	if category != "" {
		q := u.Query()
		q.Set("category", category)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil, fmt.Errorf("%w: Request failed with status code %d", ErrUpstream, resp.StatusCode)
	}

	var body catalogueResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding catalogue: %v", ErrUpstream, err)
	}
	if body.Entries == nil {
		body.Entries = []Entry{}
	}
	return body.Entries, nil
}
