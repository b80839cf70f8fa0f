// Package backend implements the four risk API operations on top of a
// transport: authenticate with its failover policy, and the thinner track,
// identify and review flows.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"riskclient/internal/async"
	"riskclient/internal/platform/metrics"
	"riskclient/internal/transport"
	"riskclient/internal/verdict"
	"riskclient/pkg/platform/circuit"
	"riskclient/pkg/platform/sentinel"
)

const (
	EndpointTrack        = "track"
	EndpointAuthenticate = "authenticate"
	EndpointIdentify     = "identify"
	EndpointReview       = "review"

	trackPath        = "/v1/track"
	authenticatePath = "/v1/authenticate"
	identifyPath     = "/v1/identify"
	reviewsPath      = "/v1/reviews/"
)

// Transport executes requests against the risk API.
type Transport interface {
	Execute(ctx context.Context, req transport.Request) (*transport.Response, error)
	ExecuteAsync(ctx context.Context, req transport.Request) *async.Future[*transport.Response]
}

// ReviewCache stores reviews by id. Get returns sentinel.ErrNotFound on a miss.
type ReviewCache interface {
	Get(ctx context.Context, reviewID string) (Review, error)
	Set(ctx context.Context, review Review) error
}

// Backend is safe for concurrent use. Its configuration is read-only after New.
type Backend struct {
	transport Transport
	baseURL   string
	strategy  verdict.Strategy

	logger  *slog.Logger
	metrics *metrics.Metrics
	breaker *circuit.Breaker
	cache   ReviewCache

	reviews singleflight.Group

	// mu orders inflight.Add against Close; closed is set once.
	mu       sync.RWMutex
	closed   bool
	inflight sync.WaitGroup
}

type Option func(*Backend)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) {
		b.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Backend) {
		b.metrics = m
	}
}

// WithBreaker tracks backend health from authenticate outcomes.
func WithBreaker(cb *circuit.Breaker) Option {
	return func(b *Backend) {
		b.breaker = cb
	}
}

func WithReviewCache(c ReviewCache) Option {
	return func(b *Backend) {
		b.cache = c
	}
}

// New builds a backend for baseURL (scheme and host, optionally a path prefix).
func New(t Transport, baseURL string, strategy verdict.Strategy, opts ...Option) (*Backend, error) {
	if t == nil {
		return nil, fmt.Errorf("backend: transport is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("backend: invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: base url %q must be absolute", baseURL)
	}
	if !strategy.DefaultAction.IsValid() {
		return nil, fmt.Errorf("backend: invalid failover action %q", strategy.DefaultAction)
	}
	b := &Backend{
		transport: t,
		baseURL:   strings.TrimRight(baseURL, "/"),
		strategy:  strategy,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Strategy returns the failover strategy fixed at construction.
func (b *Backend) Strategy() verdict.Strategy {
	return b.strategy
}

// Close rejects new asynchronous calls and waits for continuations of
// in-flight ones, or until ctx is done.
func (b *Backend) Close(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dispatch sends req on the transport and chains fn onto the response as a
// call Close waits for. After Close, req is not sent and fn runs inline with a
// closed transport error.
func dispatch[U any](ctx context.Context, b *Backend, req transport.Request, fn func(*transport.Response, error) (U, error)) *async.Future[U] {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		v, err := fn(nil, closedError(req.Method, req.URL))
		return async.Resolved(v, err)
	}
	pending := b.transport.ExecuteAsync(ctx, req)
	return async.Then(&b.inflight, pending, fn)
}

func closedError(method, target string) error {
	return &transport.Error{Method: method, URL: target, Err: sentinel.ErrClosed}
}

func (b *Backend) url(path string) string {
	return b.baseURL + path
}

func (b *Backend) postRequest(endpoint, path string, payload any) (transport.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return transport.Request{}, newFatal(ErrorInvalidRequest, "encoding "+endpoint+" payload", err)
	}
	return transport.Request{
		Endpoint: endpoint,
		Method:   http.MethodPost,
		URL:      b.url(path),
		Body:     body,
	}, nil
}
