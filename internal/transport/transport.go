// Package transport executes requests against the risk API. It owns the HTTP
// client, attaches the Basic authorization header to every call and enforces
// the configured timeouts. It never retries.
package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"riskclient/internal/async"
	"riskclient/internal/platform/metrics"
	"riskclient/pkg/platform/sentinel"
	"riskclient/pkg/requestcontext"
)

const (
	ContentTypeJSON = "application/json; charset=utf-8"
	RequestIDHeader = "X-Request-Id"

	maxBodyBytes = 1 << 20
	tracerName   = "riskclient/internal/transport"
)

// Request is one call to the risk API.
type Request struct {
	// Endpoint names the operation for logs and metrics ("track", "authenticate", ...).
	Endpoint string
	Method   string
	URL      string
	Body     []byte
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	// Status is the reason phrase without the code, e.g. "Internal Server Error".
	Status string
	Header http.Header
	Body   []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Config holds the values fixed at construction.
type Config struct {
	Secret         string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	// LogBodies logs request and response bodies at debug level.
	LogBodies bool
	UserAgent string
	// MaxBodyBytes caps response bodies; zero means 1 MiB.
	MaxBodyBytes int64
}

// HTTP is the net/http implementation of the transport.
type HTTP struct {
	client    *http.Client
	userAgent string
	logBodies bool
	maxBody   int64
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer

	// mu orders inflight.Add against Close; closed is set once.
	mu       sync.RWMutex
	closed   bool
	inflight sync.WaitGroup
}

type Option func(*HTTP)

func WithLogger(logger *slog.Logger) Option {
	return func(t *HTTP) {
		t.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *HTTP) {
		t.metrics = m
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *HTTP) {
		if tp != nil {
			t.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithHTTPClient replaces the underlying client. The authorization round
// tripper is still installed on top of its transport.
func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTP) {
		if c != nil {
			t.client = c
		}
	}
}

// New builds the transport. The secret is required.
func New(cfg Config, opts ...Option) (*HTTP, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("transport: secret is required")
	}
	t := &HTTP{
		client:    newHTTPClient(cfg),
		userAgent: cfg.UserAgent,
		logBodies: cfg.LogBodies,
		maxBody:   cfg.MaxBodyBytes,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
	}
	if t.maxBody <= 0 {
		t.maxBody = maxBodyBytes
	}
	for _, opt := range opts {
		opt(t)
	}

	// copy so a caller-supplied client is not mutated
	client := *t.client
	next := client.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	client.Transport = &basicAuth{header: BasicAuthorization(cfg.Secret), next: next}
	t.client = &client
	return t, nil
}

// BasicAuthorization returns the header value for an API secret with an empty user.
func BasicAuthorization(secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(":"+secret))
}

func newHTTPClient(cfg Config) *http.Client {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout, KeepAlive: 30 * time.Second}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	// net/http has no write timeout; the overall budget covers it.
	return &http.Client{
		Transport: tr,
		Timeout:   cfg.ConnectTimeout + cfg.WriteTimeout + cfg.ReadTimeout,
	}
}

type basicAuth struct {
	header string
	next   http.RoundTripper
}

func (b *basicAuth) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", b.header)
	return b.next.RoundTrip(r)
}

// Execute sends req and blocks until the response body has been read.
// Any HTTP status is a successful execution; only I/O failures return *Error.
func (t *HTTP) Execute(ctx context.Context, req Request) (*Response, error) {
	if t.isClosed() {
		return nil, &Error{Method: req.Method, URL: req.URL, Err: sentinel.ErrClosed}
	}
	return t.execute(ctx, req)
}

// execute sends a call already admitted by Execute or ExecuteAsync.
func (t *HTTP) execute(ctx context.Context, req Request) (*Response, error) {
	requestID := requestcontext.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx, span := t.tracer.Start(ctx, "riskclient."+req.Endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL),
			attribute.String("riskclient.request_id", requestID),
		))
	defer span.End()

	start := time.Now()
	resp, err := t.do(ctx, req, requestID)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		t.metrics.ObserveRequest(req.Endpoint, "error", elapsed)
		t.logger.DebugContext(ctx, "risk api request failed",
			"endpoint", req.Endpoint,
			"request_id", requestID,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 500 {
		span.SetStatus(codes.Error, resp.Status)
	}
	t.metrics.ObserveRequest(req.Endpoint, metrics.StatusClass(resp.StatusCode), elapsed)

	attrs := []any{
		"endpoint", req.Endpoint,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
	}
	if t.logBodies {
		attrs = append(attrs, "request_body", string(req.Body), "response_body", string(resp.Body))
	}
	t.logger.DebugContext(ctx, "risk api request completed", attrs...)
	return resp, nil
}

// ExecuteAsync runs Execute on a transport-owned goroutine. The returned
// future completes exactly once. Cancelling ctx after dispatch has no effect;
// the configured timeouts bound the call.
func (t *HTTP) ExecuteAsync(ctx context.Context, req Request) *async.Future[*Response] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return async.Resolved[*Response](nil, &Error{Method: req.Method, URL: req.URL, Err: sentinel.ErrClosed})
	}
	ctx = context.WithoutCancel(ctx)
	return async.Go(&t.inflight, func() (*Response, error) {
		return t.execute(ctx, req)
	})
}

// Close rejects new calls and waits for in-flight asynchronous calls, or
// until ctx is done.
func (t *HTTP) Close(ctx context.Context) error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.client.CloseIdleConnections()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *HTTP) isClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

func (t *HTTP) do(ctx context.Context, req Request, requestID string) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &Error{Method: req.Method, URL: req.URL, Err: fmt.Errorf("creating request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", ContentTypeJSON)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if t.userAgent != "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Method: req.Method, URL: req.URL, Err: err}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return nil, &Error{Method: req.Method, URL: req.URL, Err: fmt.Errorf("reading response body: %w", err)}
	}
	if int64(len(data)) > t.maxBody {
		return nil, &Error{Method: req.Method, URL: req.URL, Err: fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, t.maxBody)}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     reasonPhrase(resp),
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func reasonPhrase(resp *http.Response) string {
	msg := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return msg
}
