// Package config loads the sync engine's configuration from the environment.
// Every key is read as MEMBERSYNC_<KEY>.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the CLI needs to wire the client, the storage and
// the orchestrator.
type Config struct {
	// Platform API
	APIKey            string
	AccountID         int64
	APIBaseURL        string
	AuthURL           string
	PageSize          int
	RequestTimeout    time.Duration
	TokenExpiryBuffer time.Duration
	MaxRetries        int
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration
	AsyncPollInterval time.Duration
	AsyncMaxAttempts  int

	// Sync behavior
	ContactLookback time.Duration // first-run bound for incremental contact fetch
	EventLookback   time.Duration // rolling window for incremental event fetch
	DryRun          bool
	Environment     string // "development", "staging", "production"
	AllowLiveSync   bool   // gates live writes outside development

	// Storage
	DBPath      string
	DBBatchSize int

	// Operations
	LogLevel    string
	MetricsAddr string // empty disables the metrics listener
}

// Load reads configuration from MEMBERSYNC_* environment variables with
// sensible defaults for everything except the credentials.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEMBERSYNC")
	v.AutomaticEnv()

	v.SetDefault("api_key", "")
	v.SetDefault("account_id", 0)
	v.SetDefault("api_base_url", "https://api.wildapricot.org/v2.2")
	v.SetDefault("auth_url", "https://oauth.wildapricot.org/auth/token")
	v.SetDefault("page_size", 100)
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("token_expiry_buffer", "60s")
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_base_delay", "500ms")
	v.SetDefault("retry_max_delay", "30s")
	v.SetDefault("async_poll_interval", "2s")
	v.SetDefault("async_max_attempts", 30)
	v.SetDefault("contact_lookback", "720h") // 30 days on first incremental run
	v.SetDefault("event_lookback", "2160h")  // 90 days rolling window
	v.SetDefault("dry_run", false)
	v.SetDefault("environment", "development")
	v.SetDefault("allow_live_sync", false)
	v.SetDefault("db_path", "membersync.db")
	v.SetDefault("db_batch_size", 200)
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_addr", "")

	cfg := &Config{
		APIKey:            v.GetString("api_key"),
		AccountID:         v.GetInt64("account_id"),
		APIBaseURL:        v.GetString("api_base_url"),
		AuthURL:           v.GetString("auth_url"),
		PageSize:          v.GetInt("page_size"),
		RequestTimeout:    v.GetDuration("request_timeout"),
		TokenExpiryBuffer: v.GetDuration("token_expiry_buffer"),
		MaxRetries:        v.GetInt("max_retries"),
		RetryBaseDelay:    v.GetDuration("retry_base_delay"),
		RetryMaxDelay:     v.GetDuration("retry_max_delay"),
		AsyncPollInterval: v.GetDuration("async_poll_interval"),
		AsyncMaxAttempts:  v.GetInt("async_max_attempts"),
		ContactLookback:   v.GetDuration("contact_lookback"),
		EventLookback:     v.GetDuration("event_lookback"),
		DryRun:            v.GetBool("dry_run"),
		Environment:       v.GetString("environment"),
		AllowLiveSync:     v.GetBool("allow_live_sync"),
		DBPath:            v.GetString("db_path"),
		DBBatchSize:       v.GetInt("db_batch_size"),
		LogLevel:          v.GetString("log_level"),
		MetricsAddr:       v.GetString("metrics_addr"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for values the engine cannot
// operate with.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("MEMBERSYNC_API_KEY is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
	}
	if c.RetryBaseDelay <= 0 || c.RetryMaxDelay < c.RetryBaseDelay {
		return fmt.Errorf("retry delays misconfigured: base %s, max %s", c.RetryBaseDelay, c.RetryMaxDelay)
	}
	if c.AsyncPollInterval <= 0 {
		return fmt.Errorf("async poll interval must be positive, got %s", c.AsyncPollInterval)
	}
	if c.AsyncMaxAttempts <= 0 {
		return fmt.Errorf("async max attempts must be positive, got %d", c.AsyncMaxAttempts)
	}
	if c.ContactLookback <= 0 || c.EventLookback <= 0 {
		return fmt.Errorf("lookback windows must be positive")
	}
	if c.DBBatchSize <= 0 {
		return fmt.Errorf("db batch size must be positive, got %d", c.DBBatchSize)
	}
	return nil
}

// LiveWritesAllowed reports whether this configuration permits persisting
// sync writes. Outside development, live writes need the explicit
// allow-live-sync flag; everything else runs as a dry run.
func (c *Config) LiveWritesAllowed() bool {
	if c.DryRun {
		return false
	}
	return c.Environment == "development" || c.AllowLiveSync
}
