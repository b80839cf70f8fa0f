package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"riskclient/internal/eventcontext"
	"riskclient/internal/verdict"
	platformstrings "riskclient/pkg/platform/strings"
)

// Client captures everything needed to talk to the risk API.
type Client struct {
	APIBaseURL string `yaml:"api_base_url"`
	APISecret  string `yaml:"api_secret"`

	// Timeout applies to connect, read and write unless overridden individually.
	Timeout        time.Duration `yaml:"timeout"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`

	Failover FailoverConfig `yaml:"failover"`

	LogHTTPRequests bool   `yaml:"log_http_requests"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`

	Context     ContextConfig     `yaml:"context"`
	ReviewCache ReviewCacheConfig `yaml:"review_cache"`
}

// FailoverConfig is the textual form of verdict.Strategy.
type FailoverConfig struct {
	DefaultAction  string `yaml:"default_action"`
	ThrowOnFailure bool   `yaml:"throw_on_failure"`
}

// ContextConfig controls which inbound headers are forwarded in event contexts.
type ContextConfig struct {
	AllowedHeaders []string `yaml:"allowed_headers"`
	DeniedHeaders  []string `yaml:"denied_headers"`
}

// ReviewCacheConfig enables caching of review lookups.
type ReviewCacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig mirrors the go-redis options we expose. An empty URL keeps the cache in memory.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

const (
	DefaultTimeout        = 500 * time.Millisecond
	DefaultReviewCacheTTL = 5 * time.Minute
)

// DefaultDeniedHeaders are never forwarded to the risk API.
var DefaultDeniedHeaders = eventcontext.DefaultDeniedHeaders

// Default returns a config with every optional field populated.
func Default() Client {
	return Client{
		Timeout:   DefaultTimeout,
		Failover:  FailoverConfig{DefaultAction: string(verdict.ActionAllow)},
		LogLevel:  "info",
		LogFormat: "json",
		Context:   ContextConfig{DeniedHeaders: append([]string(nil), DefaultDeniedHeaders...)},
		ReviewCache: ReviewCacheConfig{
			TTL: DefaultReviewCacheTTL,
			Redis: RedisConfig{
				PoolSize:     10,
				MinIdleConns: 1,
				DialTimeout:  time.Second,
				ReadTimeout:  500 * time.Millisecond,
				WriteTimeout: 500 * time.Millisecond,
			},
		},
	}
}

// FromEnv builds a Client config from RISK_* environment variables on top of Default.
func FromEnv() (Client, error) {
	cfg := Default()
	cfg.APIBaseURL = os.Getenv("RISK_API_BASE_URL")
	cfg.APISecret = os.Getenv("RISK_API_SECRET")

	var err error
	if cfg.Timeout, err = envDuration("RISK_TIMEOUT", cfg.Timeout); err != nil {
		return Client{}, err
	}
	if v := os.Getenv("RISK_FAILOVER_ACTION"); v != "" {
		cfg.Failover.DefaultAction = v
	}
	if cfg.Failover.ThrowOnFailure, err = envBool("RISK_FAILOVER_THROW", false); err != nil {
		return Client{}, err
	}
	if cfg.LogHTTPRequests, err = envBool("RISK_LOG_HTTP", false); err != nil {
		return Client{}, err
	}
	if v := os.Getenv("RISK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := platformstrings.SplitList(os.Getenv("RISK_CONTEXT_ALLOWED_HEADERS")); v != nil {
		cfg.Context.AllowedHeaders = v
	}
	if v := platformstrings.SplitList(os.Getenv("RISK_CONTEXT_DENIED_HEADERS")); v != nil {
		cfg.Context.DeniedHeaders = v
	}
	if v := os.Getenv("RISK_REVIEW_CACHE_REDIS_URL"); v != "" {
		cfg.ReviewCache.Enabled = true
		cfg.ReviewCache.Redis.URL = v
	}
	return cfg, cfg.Validate()
}

// Load reads a YAML config file, expanding ${VAR} references, on top of Default.
func Load(path string) (Client, error) {
	// #nosec G304 -- path is operator-provided config path.
	raw, err := os.ReadFile(path)
	if err != nil {
		return Client{}, err
	}

	expanded := os.ExpandEnv(string(raw))
	expanded = strings.ReplaceAll(expanded, "\r\n", "\n")

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Client{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Context.AllowedHeaders = platformstrings.DedupeFold(cfg.Context.AllowedHeaders)
	cfg.Context.DeniedHeaders = platformstrings.DedupeFold(cfg.Context.DeniedHeaders)
	return cfg, cfg.Validate()
}

// Validate checks required fields and value ranges.
func (c Client) Validate() error {
	if c.APISecret == "" {
		return fmt.Errorf("api_secret is required")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.Timeout < 0 || c.ConnectTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if _, err := c.Strategy(); err != nil {
		return fmt.Errorf("failover.default_action: %w", err)
	}
	if c.ReviewCache.Enabled && c.ReviewCache.TTL <= 0 {
		return fmt.Errorf("review_cache.ttl must be positive when review_cache.enabled=true")
	}
	return nil
}

// Strategy converts the failover section into a verdict.Strategy.
func (c Client) Strategy() (verdict.Strategy, error) {
	action, err := verdict.ParseAction(c.Failover.DefaultAction)
	if err != nil {
		return verdict.Strategy{}, err
	}
	return verdict.NewStrategy(action, c.Failover.ThrowOnFailure)
}

// Timeouts resolves the effective connect, read and write timeouts.
func (c Client) Timeouts() (connect, read, write time.Duration) {
	base := c.Timeout
	if base <= 0 {
		base = DefaultTimeout
	}
	pick := func(v time.Duration) time.Duration {
		if v > 0 {
			return v
		}
		return base
	}
	return pick(c.ConnectTimeout), pick(c.ReadTimeout), pick(c.WriteTimeout)
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	// bare integers are milliseconds
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
