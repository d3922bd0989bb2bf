package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Environment variables recognised by Load.
const (
	EnvLicenseKey          = "LICENSE_KEY"
	EnvRegion              = "NR_REGION"
	EnvMaxRetries          = "NR_MAX_RETRIES"
	EnvInitialBackoff      = "NR_INITIAL_BACKOFF"
	EnvBackoffMultiplier   = "NR_BACKOFF_MULTIPLIER"
	EnvRateLimitMultiplier = "NR_RATE_LIMIT_MULTIPLIER"
	EnvHTTPTimeout         = "NR_HTTP_TIMEOUT"
	EnvFailOnRejected      = "NR_FAIL_ON_REJECTED"
	EnvLogLevel            = "LOG_LEVEL"
	EnvMetricsPort         = "METRICS_PORT"
)

// ErrMissingLicenseKey is returned when no encrypted license key is configured.
var ErrMissingLicenseKey = errors.New("LICENSE_KEY is not set")

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence. An empty path skips the file.
// Values set explicitly, including zero, are validated as given.
func Load(path string) (*AppConfig, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration can drive a delivery.
func (c *AppConfig) Validate() error {
	if c.Ingest.LicenseKey == "" {
		return ErrMissingLicenseKey
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Ingest.Timeout < 0 {
		return fmt.Errorf("http timeout must not be negative, got %s", c.Ingest.Timeout)
	}
	if c.Retry.InitialBackoff < 0 {
		return fmt.Errorf("initial backoff must not be negative, got %s", c.Retry.InitialBackoff)
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("backoff multiplier must be at least 1, got %g", c.Retry.Multiplier)
	}
	if c.Retry.RateLimitMultiplier < 1 {
		return fmt.Errorf("rate limit multiplier must be at least 1, got %g", c.Retry.RateLimitMultiplier)
	}
	return nil
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() AppConfig {
	return AppConfig{
		Ingest: IngestConfig{
			Region:  DefaultRegion,
			Timeout: DefaultTimeout,
		},
		Retry: RetryConfig{
			MaxAttempts:         DefaultMaxAttempts,
			InitialBackoff:      DefaultInitialBackoff,
			Multiplier:          DefaultMultiplier,
			RateLimitMultiplier: DefaultRateLimitMultiplier,
		},
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Port: DefaultPort},
	}
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *AppConfig, lookup lookupFunc) error {
	if v, ok := lookup(EnvLicenseKey); ok && v != "" {
		cfg.Ingest.LicenseKey = v
	}
	if v, ok := lookup(EnvRegion); ok && v != "" {
		cfg.Ingest.Region = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	var err error
	if v, ok := lookup(EnvMaxRetries); ok && v != "" {
		if cfg.Retry.MaxAttempts, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxRetries, err)
		}
	}
	if v, ok := lookup(EnvInitialBackoff); ok && v != "" {
		if cfg.Retry.InitialBackoff, err = parseSeconds(v); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvInitialBackoff, err)
		}
	}
	if v, ok := lookup(EnvBackoffMultiplier); ok && v != "" {
		if cfg.Retry.Multiplier, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvBackoffMultiplier, err)
		}
	}
	if v, ok := lookup(EnvRateLimitMultiplier); ok && v != "" {
		if cfg.Retry.RateLimitMultiplier, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRateLimitMultiplier, err)
		}
	}
	if v, ok := lookup(EnvHTTPTimeout); ok && v != "" {
		if cfg.Ingest.Timeout, err = parseSeconds(v); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHTTPTimeout, err)
		}
	}
	if v, ok := lookup(EnvFailOnRejected); ok && v != "" {
		if cfg.Ingest.FailOnRejected, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvFailOnRejected, err)
		}
	}
	if v, ok := lookup(EnvMetricsPort); ok && v != "" {
		if cfg.Server.Port, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMetricsPort, err)
		}
	}
	return nil
}

// parseSeconds accepts a Go duration ("1500ms") or a bare number of seconds ("1", "0.5").
func parseSeconds(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("not a duration or number of seconds: %q", v)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
