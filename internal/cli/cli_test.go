package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskclient/pkg/testutil"
)

func setupAPI(t *testing.T) *testutil.FakeAPI {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	t.Setenv("RISK_API_BASE_URL", api.URL())
	t.Setenv("RISK_API_SECRET", "secret")
	t.Setenv("RISK_TIMEOUT", "300")
	t.Setenv("RISK_LOG_LEVEL", "error")
	return api
}

func run(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return nil, err
	}
	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got), out.String())
	return got, nil
}

func TestAuthenticateCmd(t *testing.T) {
	t.Run("prints the verdict", func(t *testing.T) {
		api := setupAPI(t)
		api.Respond(testutil.RouteAuthenticate, http.StatusOK, `{"action":"allow","user_id":"42"}`)

		got, err := run(t, "authenticate", "-e", "$login.succeeded", "-u", "42", "--properties", `{"method":"sso"}`, "--ip", "203.0.113.9")
		require.NoError(t, err)
		assert.Equal(t, "allow", got["action"])
		assert.Equal(t, false, got["failover"])

		req := api.TakeRequest(t, time.Second)
		var body map[string]any
		require.NoError(t, json.Unmarshal(req.Body, &body))
		assert.Equal(t, map[string]any{"method": "sso"}, body["properties"])
		assert.Equal(t, "203.0.113.9", body["context"].(map[string]any)["ip"])
	})

	t.Run("prints a failover verdict when the api is down", func(t *testing.T) {
		api := setupAPI(t)
		api.Respond(testutil.RouteAuthenticate, http.StatusBadGateway, "")
		t.Setenv("RISK_FAILOVER_ACTION", "challenge")

		got, err := run(t, "authenticate", "-e", "$login.succeeded", "-u", "42", "--async")
		require.NoError(t, err)
		assert.Equal(t, "challenge", got["action"])
		assert.Equal(t, true, got["failover"])
		assert.Equal(t, "Bad Gateway", got["failover_reason"])
	})

	t.Run("fails in strict mode", func(t *testing.T) {
		api := setupAPI(t)
		api.Respond(testutil.RouteAuthenticate, http.StatusBadGateway, "")
		t.Setenv("RISK_FAILOVER_THROW", "true")

		_, err := run(t, "authenticate", "-e", "$login.succeeded", "-u", "42")
		assert.ErrorContains(t, err, "illegal backend response")
	})

	t.Run("rejects malformed properties", func(t *testing.T) {
		setupAPI(t)
		_, err := run(t, "authenticate", "-e", "x", "-u", "42", "--properties", "[1]")
		assert.ErrorContains(t, err, "--properties must be a JSON object")
	})

	t.Run("requires a user id", func(t *testing.T) {
		setupAPI(t)
		_, err := run(t, "authenticate", "-e", "x")
		assert.Error(t, err)
	})
}

func TestTrackCmd(t *testing.T) {
	api := setupAPI(t)

	got, err := run(t, "track", "-e", "$logout.succeeded", "--review-id", "rev-1")
	require.NoError(t, err)
	assert.Equal(t, true, got["success"])

	req := api.TakeRequest(t, time.Second)
	assert.Contains(t, string(req.Body), `"user_id":null,"review_id":"rev-1"`)
}

func TestIdentifyCmd(t *testing.T) {
	api := setupAPI(t)

	got, err := run(t, "identify", "-u", "42", "--active=false", "--traits", `{"plan":"pro"}`)
	require.NoError(t, err)
	assert.Equal(t, "sent", got["status"])

	req := api.TakeRequest(t, time.Second)
	assert.Contains(t, string(req.Body), `"active":false`)
}

func TestReviewCmd(t *testing.T) {
	api := setupAPI(t)
	api.Respond(testutil.RouteReview, http.StatusOK, `{"review_id":"rev-1","user_id":"42","created_at":"2024-03-01T10:00:00Z","context":{"ip":"203.0.113.9"}}`)

	got, err := run(t, "review", "rev-1")
	require.NoError(t, err)
	assert.Equal(t, "rev-1", got["review_id"])

	api.Respond(testutil.RouteReview, http.StatusNotFound, "")
	_, err = run(t, "review", "missing")
	assert.ErrorContains(t, err, "404")
}

func TestConfigFile(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Respond(testutil.RouteAuthenticate, http.StatusServiceUnavailable, "")
	t.Setenv("TEST_RISK_SECRET", "from-env")

	path := filepath.Join(t.TempDir(), "riskctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api_base_url: "+api.URL()+"\n"+
			"api_secret: ${TEST_RISK_SECRET}\n"+
			"timeout: 300ms\n"+
			"log_level: error\n"+
			"failover:\n  default_action: deny\n"), 0o600))

	got, err := run(t, "--config", path, "authenticate", "-e", "$login.succeeded", "-u", "42")
	require.NoError(t, err)
	assert.Equal(t, "deny", got["action"])
}

func TestVersionCmd(t *testing.T) {
	got, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "riskctl", got["name"])
}
