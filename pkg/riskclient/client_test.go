package riskclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskclient/internal/eventcontext"
	"riskclient/internal/platform/logger"
	"riskclient/pkg/riskclient"
	"riskclient/pkg/testutil"
)

const waitFor = 2 * time.Second

func testConfig(api *testutil.FakeAPI) riskclient.Config {
	cfg := riskclient.DefaultConfig()
	cfg.APIBaseURL = api.URL()
	cfg.APISecret = "secret"
	cfg.Timeout = 200 * time.Millisecond
	cfg.Failover.DefaultAction = "challenge"
	return cfg
}

func newClient(t *testing.T, cfg riskclient.Config, opts ...riskclient.Option) *riskclient.Client {
	t.Helper()
	opts = append([]riskclient.Option{riskclient.WithLogger(logger.Discard())}, opts...)
	c, err := riskclient.New(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), waitFor)
		defer cancel()
		_ = c.Close(ctx)
	})
	return c
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := riskclient.DefaultConfig()
	_, err := riskclient.New(context.Background(), cfg)
	assert.ErrorContains(t, err, "invalid config")
}

func TestFromEnv(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	t.Setenv("RISK_API_BASE_URL", api.URL())
	t.Setenv("RISK_API_SECRET", "secret")
	t.Setenv("RISK_FAILOVER_ACTION", "DENY")
	t.Setenv("RISK_FAILOVER_THROW", "true")

	c, err := riskclient.FromEnv(context.Background(), riskclient.WithLogger(logger.Discard()))
	require.NoError(t, err)
	defer func() { _ = c.Close(context.Background()) }()

	assert.Equal(t, riskclient.Strategy{DefaultAction: riskclient.ActionDeny, ThrowOnFailure: true}, c.Strategy())
}

func TestOnRequest_Track(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newClient(t, testConfig(api))

	inbound := testutil.NewInboundRequest("127.0.0.1:40000", "", "")
	ok, err := c.OnRequest(inbound).Track(context.Background(), "$login.succeeded", riskclient.WithUserID("12345")).Result()
	require.NoError(t, err)
	assert.True(t, ok)

	req := api.TakeRequest(t, waitFor)
	assert.Equal(t, `{"name":"$login.succeeded","user_id":"12345","context":{"active":true,"ip":"127.0.0.1","headers":{"REMOTE_ADDR":"127.0.0.1"},"library":{"name":"riskclient-go","version":"`+eventcontext.Version+`"}}}`, string(req.Body))
	assert.Equal(t, eventcontext.UserAgent(), req.Header.Get("User-Agent"))
}

func TestOnRequest_ForwardsClientMetadata(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newClient(t, testConfig(api))

	inbound := testutil.NewInboundRequest("10.0.0.7:1234", "curl/8.0", "cid-9")
	inbound.Header.Set("Cookie", inbound.Header.Get("Cookie")+"; session=secret")

	ec := c.OnRequest(inbound).Context()
	assert.Equal(t, "10.0.0.7", ec.IP)
	assert.Equal(t, "cid-9", ec.ClientID)
	assert.Equal(t, "curl/8.0", ec.UserAgent)
	assert.NotContains(t, ec.Headers, "Cookie")

	fromCtx := c.FromContext(testutil.WithClientMetadata(inbound).Context()).Context()
	assert.Equal(t, ec.IP, fromCtx.IP)
	assert.Equal(t, ec.ClientID, fromCtx.ClientID)
}

func TestAuthenticate(t *testing.T) {
	testutil.Given(t, "a healthy api", func(t *testing.T) {
		api := testutil.NewFakeAPI(t)
		api.Respond(testutil.RouteAuthenticate, http.StatusOK, `{"action":"deny","user_id":"12345","risk_policy":{"id":"p1"}}`)
		c := newClient(t, testConfig(api))

		v, err := c.WithContext(eventcontext.Default()).Authenticate(context.Background(), "$login.succeeded", "12345",
			riskclient.WithProperties(map[string]any{"method": "password"}))
		require.NoError(t, err)
		assert.Equal(t, riskclient.ActionDeny, v.Action)
		assert.False(t, v.Failover)
	})

	testutil.Given(t, "an api that is down", func(t *testing.T) {
		api := testutil.NewFakeAPI(t)
		api.Respond(testutil.RouteAuthenticate, http.StatusServiceUnavailable, "")
		reg := prometheus.NewRegistry()
		c := newClient(t, testConfig(api), riskclient.WithMetricsRegisterer(reg))

		v, err := c.WithContext(eventcontext.Default()).AuthenticateAsync(context.Background(), "$login.succeeded", "12345").Result()
		require.NoError(t, err)
		assert.True(t, v.Failover)
		assert.Equal(t, riskclient.ActionChallenge, v.Action)
		assert.Equal(t, "Service Unavailable", v.FailoverReason)

		n, err := promtest.GatherAndCount(reg, "riskclient_failovers_total")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	testutil.Given(t, "strict mode and a rejected request", func(t *testing.T) {
		api := testutil.NewFakeAPI(t)
		api.Respond(testutil.RouteAuthenticate, http.StatusUnauthorized, "")
		cfg := testConfig(api)
		cfg.Failover.ThrowOnFailure = true
		c := newClient(t, cfg)

		_, err := c.WithContext(eventcontext.Default()).Authenticate(context.Background(), "$login.succeeded", "12345")
		require.True(t, riskclient.IsFatal(err))
		assert.Equal(t, riskclient.ErrorClientLogic, riskclient.GetCategory(err))
	})
}

func TestIdentify(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newClient(t, testConfig(api))

	_, err := c.WithContext(eventcontext.Default()).Identify(context.Background(), "12345", true, map[string]any{"name": "Ada"}).Result()
	require.NoError(t, err)

	req := api.TakeRequest(t, waitFor)
	assert.Equal(t, testutil.RouteIdentify, req.Route)
	assert.Contains(t, string(req.Body), `"active":true`)
}

func TestReview_MemoryCache(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Respond(testutil.RouteReview, http.StatusOK, `{"review_id":"rev-1","user_id":"12345","created_at":"2024-03-01T10:00:00Z","context":{}}`)
	cfg := testConfig(api)
	cfg.ReviewCache.Enabled = true
	c := newClient(t, cfg)

	first, err := c.Review(context.Background(), "rev-1")
	require.NoError(t, err)
	second, err := c.ReviewAsync(context.Background(), "rev-1").Result()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, api.Requests(), 1)
}

func TestClose_DrainsAsyncCalls(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Respond(testutil.RouteTrack, http.StatusOK, "")
	c, err := riskclient.New(context.Background(), testConfig(api), riskclient.WithLogger(logger.Discard()))
	require.NoError(t, err)

	f := c.WithContext(eventcontext.Default()).Track(context.Background(), "any.valid.event")

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, c.Close(ctx))

	select {
	case <-f.Done():
	default:
		t.Fatal("track should have completed before Close returned")
	}
}

func TestMiddleware_PropagatesRequestID(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newClient(t, testConfig(api))

	var tracked *riskclient.Future[bool]
	h := riskclient.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		tracked = c.FromContext(r.Context()).Track(r.Context(), "$login.succeeded", riskclient.WithUserID("12345"))
	}))

	inbound := testutil.NewInboundRequest("198.51.100.4:999", "curl/8.0", "")
	inbound.Header.Set("X-Request-Id", "inbound-7")
	h.ServeHTTP(httptest.NewRecorder(), inbound)

	_, err := tracked.Result()
	require.NoError(t, err)

	req := api.TakeRequest(t, waitFor)
	assert.Equal(t, "inbound-7", req.Header.Get("X-Request-Id"))
	assert.Contains(t, string(req.Body), `"ip":"198.51.100.4"`)
}
