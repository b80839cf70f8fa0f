package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for calls made to the risk API.
// All methods are safe on a nil receiver so metrics stay optional.
type Metrics struct {
	// Outbound requests by endpoint and status class ("2xx", "5xx", "error")
	Requests *prometheus.CounterVec

	// Request latency by endpoint
	RequestLatency *prometheus.HistogramVec

	// Authenticate outcomes by outcome ("success", "failover", "fatal") and action
	AuthenticateOutcome *prometheus.CounterVec

	// Failover verdicts by cause ("transport", "status", "decode")
	Failovers *prometheus.CounterVec

	// Backend health breaker state (0=closed/healthy, 1=open/unhealthy)
	BreakerState prometheus.Gauge

	// Review cache lookups by result ("hit", "miss", "error")
	ReviewCache *prometheus.CounterVec
}

// New creates and registers all client metrics with reg. A nil registerer
// falls back to the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "riskclient_requests_total",
			Help: "Total requests sent to the risk API by endpoint and status class",
		}, []string{"endpoint", "status_class"}),

		RequestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "riskclient_request_duration_seconds",
			Help:    "Duration of requests to the risk API by endpoint",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),

		AuthenticateOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "riskclient_authenticate_outcomes_total",
			Help: "Authenticate results by outcome and action",
		}, []string{"outcome", "action"}),

		Failovers: f.NewCounterVec(prometheus.CounterOpts{
			Name: "riskclient_failovers_total",
			Help: "Failover verdicts produced locally by cause",
		}, []string{"cause"}),

		BreakerState: f.NewGauge(prometheus.GaugeOpts{
			Name: "riskclient_backend_breaker_state",
			Help: "Current backend health breaker state (0=closed/healthy, 1=open/unhealthy)",
		}),

		ReviewCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "riskclient_review_cache_total",
			Help: "Review cache lookups by result",
		}, []string{"result"}),
	}
}

// ObserveRequest records one outbound request.
func (m *Metrics) ObserveRequest(endpoint, statusClass string, d time.Duration) {
	if m != nil {
		m.Requests.WithLabelValues(endpoint, statusClass).Inc()
		m.RequestLatency.WithLabelValues(endpoint).Observe(d.Seconds())
	}
}

// IncrementOutcome records an authenticate outcome.
func (m *Metrics) IncrementOutcome(outcome, action string) {
	if m != nil {
		m.AuthenticateOutcome.WithLabelValues(outcome, action).Inc()
	}
}

// IncrementFailover records a failover verdict.
func (m *Metrics) IncrementFailover(cause string) {
	if m != nil {
		m.Failovers.WithLabelValues(cause).Inc()
	}
}

// SetBreakerOpen updates the breaker gauge.
func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
		return
	}
	m.BreakerState.Set(0)
}

// IncrementReviewCache records a review cache lookup.
func (m *Metrics) IncrementReviewCache(result string) {
	if m != nil {
		m.ReviewCache.WithLabelValues(result).Inc()
	}
}

// StatusClass buckets an HTTP status code ("2xx", "4xx", ...).
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
