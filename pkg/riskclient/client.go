// Package riskclient is the entry point of the risk API client.
//
//	client, err := riskclient.New(ctx, cfg)
//	...
//	v, err := client.OnRequest(r).Authenticate(ctx, "$login.succeeded", userID)
//	if v.Action == riskclient.ActionDeny { ... }
//
// Authenticate never fails because the risk API is down unless the failover
// strategy says so: it returns a Verdict with Failover set instead.
package riskclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"riskclient/internal/backend"
	"riskclient/internal/eventcontext"
	"riskclient/internal/platform/logger"
	"riskclient/internal/platform/metrics"
	redisclient "riskclient/internal/platform/redis"
	"riskclient/internal/reviewcache"
	"riskclient/internal/transport"
	"riskclient/pkg/platform/circuit"
	"riskclient/pkg/platform/middleware/metadata"
	"riskclient/pkg/platform/middleware/requestid"
)

// Client is safe for concurrent use. Build one per configuration and share it.
type Client struct {
	backend   *backend.Backend
	transport *transport.HTTP
	builder   *eventcontext.Builder
	redis     *redisclient.Client
	logger    *slog.Logger
}

type options struct {
	logger         *slog.Logger
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
	httpClient     *http.Client
	reviewCache    backend.ReviewCache
}

type Option func(*options)

// WithLogger replaces the logger built from the log_* settings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetricsRegisterer enables Prometheus metrics on reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithHTTPClient replaces the HTTP client. Authorization is still added to every request.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithReviewCache replaces the cache chosen by review_cache.
func WithReviewCache(c ReviewCache) Option {
	return func(o *options) {
		o.reviewCache = c
	}
}

// New validates cfg and builds a client. ctx bounds only the initial Redis
// connection when a shared review cache is configured.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	strategy, err := cfg.Strategy()
	if err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	log := o.logger
	if log == nil {
		level := cfg.LogLevel
		if cfg.LogHTTPRequests {
			level = "debug"
		}
		log = logger.New(level, cfg.LogFormat, os.Stderr)
	}
	var m *metrics.Metrics
	if o.registerer != nil {
		m = metrics.New(o.registerer)
	}

	connect, read, write := cfg.Timeouts()
	trOpts := []transport.Option{
		transport.WithLogger(log),
		transport.WithMetrics(m),
		transport.WithTracerProvider(o.tracerProvider),
		transport.WithHTTPClient(o.httpClient),
	}
	tr, err := transport.New(transport.Config{
		Secret:         cfg.APISecret,
		ConnectTimeout: connect,
		ReadTimeout:    read,
		WriteTimeout:   write,
		LogBodies:      cfg.LogHTTPRequests,
		UserAgent:      eventcontext.UserAgent(),
	}, trOpts...)
	if err != nil {
		return nil, err
	}

	c := &Client{
		transport: tr,
		builder:   eventcontext.NewBuilder(cfg.Context.AllowedHeaders, cfg.Context.DeniedHeaders),
		logger:    log,
	}

	cache := o.reviewCache
	if cache == nil && cfg.ReviewCache.Enabled {
		if cfg.ReviewCache.Redis.URL != "" {
			rc, err := redisclient.New(ctx, cfg.ReviewCache.Redis)
			if err != nil {
				_ = tr.Close(ctx)
				return nil, fmt.Errorf("review cache: %w", err)
			}
			c.redis = rc
			cache = reviewcache.NewRedis(rc.Client, cfg.ReviewCache.TTL)
		} else {
			cache = reviewcache.NewMemory(cfg.ReviewCache.TTL)
		}
	}

	beOpts := []backend.Option{
		backend.WithLogger(log),
		backend.WithMetrics(m),
		backend.WithBreaker(circuit.New("risk-api")),
	}
	if cache != nil {
		beOpts = append(beOpts, backend.WithReviewCache(cache))
	}
	c.backend, err = backend.New(tr, cfg.APIBaseURL, strategy, beOpts...)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	return c, nil
}

// FromEnv builds a client from RISK_* environment variables.
func FromEnv(ctx context.Context, opts ...Option) (*Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return New(ctx, cfg, opts...)
}

// Strategy returns the failover strategy in effect.
func (c *Client) Strategy() Strategy {
	return c.backend.Strategy()
}

// OnRequest scopes calls to an inbound HTTP request.
func (c *Client) OnRequest(r *http.Request) *Request {
	return &Request{client: c, ec: c.builder.FromRequest(r)}
}

// Middleware records the request id and client metadata of inbound requests.
// Calls made with the request's context then carry the same X-Request-Id, and
// FromContext can build an event context without the *http.Request.
func Middleware(next http.Handler) http.Handler {
	return requestid.Middleware(metadata.ClientMetadata(next))
}

// FromContext scopes calls to the client metadata stored by the metadata middleware.
func (c *Client) FromContext(ctx context.Context) *Request {
	return &Request{client: c, ec: c.builder.FromContext(ctx)}
}

// WithContext scopes calls to a prebuilt event context.
func (c *Client) WithContext(ec Context) *Request {
	return &Request{client: c, ec: ec}
}

// Review fetches a review. Every failure is returned.
func (c *Client) Review(ctx context.Context, reviewID string) (Review, error) {
	return c.backend.Review(ctx, reviewID)
}

func (c *Client) ReviewAsync(ctx context.Context, reviewID string) *Future[Review] {
	return c.backend.ReviewAsync(ctx, reviewID)
}

// Close waits for in-flight asynchronous calls, or until ctx is done, and
// releases connections. The client must not be used afterwards.
func (c *Client) Close(ctx context.Context) error {
	var errs []error
	if c.backend != nil {
		if err := c.backend.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.transport.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
