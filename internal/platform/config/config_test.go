package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskclient/internal/verdict"
)

func validConfig() Client {
	cfg := Default()
	cfg.APIBaseURL = "https://risk.example.test"
	cfg.APISecret = "secret"
	return cfg
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "riskclient.yaml")

	t.Setenv("RISK_TEST_SECRET", "from-env")

	data := `
api_base_url: "https://risk.example.test"
api_secret: "${RISK_TEST_SECRET}"
timeout: 750ms
read_timeout: 2s
failover:
  default_action: CHALLENGE
  throw_on_failure: true
context:
  allowed_headers: ["User-Agent", "Accept-Language"]
review_cache:
  enabled: true
  ttl: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APISecret)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.Equal(t, []string{"User-Agent", "Accept-Language"}, cfg.Context.AllowedHeaders)
	assert.Equal(t, DefaultDeniedHeaders, cfg.Context.DeniedHeaders, "defaults survive partial files")
	assert.Equal(t, time.Minute, cfg.ReviewCache.TTL)

	strategy, err := cfg.Strategy()
	require.NoError(t, err)
	assert.Equal(t, verdict.Strategy{DefaultAction: verdict.ActionChallenge, ThrowOnFailure: true}, strategy)

	connect, read, write := cfg.Timeouts()
	assert.Equal(t, 750*time.Millisecond, connect)
	assert.Equal(t, 2*time.Second, read)
	assert.Equal(t, 750*time.Millisecond, write)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RISK_API_BASE_URL", "https://risk.example.test")
	t.Setenv("RISK_API_SECRET", "s3cr3t")
	t.Setenv("RISK_TIMEOUT", "1200")
	t.Setenv("RISK_FAILOVER_ACTION", "deny")
	t.Setenv("RISK_FAILOVER_THROW", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 1200*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "deny", cfg.Failover.DefaultAction)
	assert.True(t, cfg.Failover.ThrowOnFailure)
	assert.False(t, cfg.ReviewCache.Enabled)
}

func TestFromEnv_BadValues(t *testing.T) {
	t.Setenv("RISK_API_BASE_URL", "https://risk.example.test")
	t.Setenv("RISK_API_SECRET", "s3cr3t")
	t.Setenv("RISK_FAILOVER_THROW", "sometimes")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := map[string]func(c *Client){
		"missing secret":    func(c *Client) { c.APISecret = "" },
		"missing base url":  func(c *Client) { c.APIBaseURL = "" },
		"relative base url": func(c *Client) { c.APIBaseURL = "/v1" },
		"negative timeout":  func(c *Client) { c.ReadTimeout = -time.Second },
		"unknown action":    func(c *Client) { c.Failover.DefaultAction = "maybe" },
		"cache without ttl": func(c *Client) { c.ReviewCache.Enabled = true; c.ReviewCache.TTL = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestTimeouts_DefaultWhenUnset(t *testing.T) {
	connect, read, write := Client{}.Timeouts()
	assert.Equal(t, DefaultTimeout, connect)
	assert.Equal(t, DefaultTimeout, read)
	assert.Equal(t, DefaultTimeout, write)
}

func TestFromEnv_HeaderLists(t *testing.T) {
	t.Setenv("RISK_API_BASE_URL", "https://risk.example.test")
	t.Setenv("RISK_API_SECRET", "s3cr3t")
	t.Setenv("RISK_CONTEXT_ALLOWED_HEADERS", "User-Agent, Accept-Language,User-Agent")
	t.Setenv("RISK_CONTEXT_DENIED_HEADERS", "Cookie")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"User-Agent", "Accept-Language"}, cfg.Context.AllowedHeaders)
	assert.Equal(t, []string{"Cookie"}, cfg.Context.DeniedHeaders)
}
