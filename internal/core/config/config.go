package config

import "time"

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Ingest  IngestConfig  `yaml:"ingest"`
	Retry   RetryConfig   `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// IngestConfig holds settings for the New Relic ingest endpoint.
type IngestConfig struct {
	// LicenseKey is the KMS-encrypted, base64-encoded license key.
	LicenseKey string `yaml:"license_key"`
	// Region is "US", "EU" or a literal host such as https://ingest.example.com.
	Region  string        `yaml:"region"`
	Timeout time.Duration `yaml:"timeout"`
	// FailOnRejected makes an invocation fail when any entry was rejected with a 4xx.
	FailOnRejected bool `yaml:"fail_on_rejected"`
}

// RetryConfig defines the delivery retry schedule.
type RetryConfig struct {
	MaxAttempts         int           `yaml:"max_attempts"`
	InitialBackoff      time.Duration `yaml:"initial_backoff"`
	Multiplier          float64       `yaml:"multiplier"`
	RateLimitMultiplier float64       `yaml:"rate_limit_multiplier"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ServerConfig holds settings for the local invoke harness.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Defaults used when neither the file nor the environment sets a value.
const (
	DefaultRegion              = "US"
	DefaultMaxAttempts         = 3
	DefaultInitialBackoff      = 1 * time.Second
	DefaultMultiplier          = 2.0
	DefaultRateLimitMultiplier = 1.0
	DefaultTimeout             = 10 * time.Second
	DefaultPort                = 8080
)
