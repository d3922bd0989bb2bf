package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvLicenseKey, "ZW5jcnlwdGVk")
	t.Setenv(EnvRegion, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Ingest.Region != "US" {
		t.Errorf("Expected region US, got %s", cfg.Ingest.Region)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.InitialBackoff != time.Second {
		t.Errorf("Expected 1s initial backoff, got %s", cfg.Retry.InitialBackoff)
	}
	if cfg.Retry.Multiplier != 2 {
		t.Errorf("Expected multiplier 2, got %g", cfg.Retry.Multiplier)
	}
	if cfg.Ingest.FailOnRejected {
		t.Error("Expected FailOnRejected to default to false")
	}
}

func TestLoad_MissingLicenseKey(t *testing.T) {
	t.Setenv(EnvLicenseKey, "")

	_, err := Load("")
	if !errors.Is(err, ErrMissingLicenseKey) {
		t.Fatalf("Expected ErrMissingLicenseKey, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvLicenseKey, "key")
	t.Setenv(EnvRegion, "EU")
	t.Setenv(EnvMaxRetries, "5")
	t.Setenv(EnvInitialBackoff, "0.5")
	t.Setenv(EnvBackoffMultiplier, "3")
	t.Setenv(EnvHTTPTimeout, "2s")
	t.Setenv(EnvFailOnRejected, "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Ingest.Region != "EU" {
		t.Errorf("Expected region EU, got %s", cfg.Ingest.Region)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("Expected 5 attempts, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.InitialBackoff != 500*time.Millisecond {
		t.Errorf("Expected 500ms, got %s", cfg.Retry.InitialBackoff)
	}
	if cfg.Retry.Multiplier != 3 {
		t.Errorf("Expected multiplier 3, got %g", cfg.Retry.Multiplier)
	}
	if cfg.Ingest.Timeout != 2*time.Second {
		t.Errorf("Expected 2s timeout, got %s", cfg.Ingest.Timeout)
	}
	if !cfg.Ingest.FailOnRejected {
		t.Error("Expected FailOnRejected to be true")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv(EnvLicenseKey, "key")
	t.Setenv(EnvMaxRetries, "three")

	if _, err := Load(""); err == nil {
		t.Fatal("Expected error for non-numeric retry count")
	}
}

func TestLoad_RejectsNegativeAttempts(t *testing.T) {
	t.Setenv(EnvLicenseKey, "key")
	t.Setenv(EnvMaxRetries, "-1")

	if _, err := Load(""); err == nil {
		t.Fatal("Expected validation error for negative attempts")
	}
}

func TestLoad_ExplicitZeroIsNotDefaulted(t *testing.T) {
	t.Setenv(EnvLicenseKey, "key")
	t.Setenv(EnvMaxRetries, "")
	t.Setenv(EnvInitialBackoff, "0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Retry.InitialBackoff != 0 {
		t.Errorf("Expected explicit zero backoff to be kept, got %s", cfg.Retry.InitialBackoff)
	}

	t.Setenv(EnvMaxRetries, "0")
	if _, err := Load(""); err == nil {
		t.Fatal("Expected validation error for zero attempts")
	}
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_NR_KEY", "from-file")
	t.Setenv(EnvLicenseKey, "")
	t.Setenv(EnvRegion, "")

	configContent := `
ingest:
  license_key: ${TEST_NR_KEY}
  region: https://ingest.example.com
retry:
  max_attempts: 4
  initial_backoff: 250ms
`
	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write([]byte(configContent)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Ingest.LicenseKey != "from-file" {
		t.Errorf("Expected license key from-file, got %s", cfg.Ingest.LicenseKey)
	}
	if cfg.Ingest.Region != "https://ingest.example.com" {
		t.Errorf("Expected literal region host, got %s", cfg.Ingest.Region)
	}
	if cfg.Retry.MaxAttempts != 4 {
		t.Errorf("Expected 4 attempts, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.InitialBackoff != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %s", cfg.Retry.InitialBackoff)
	}
	if cfg.Retry.Multiplier != DefaultMultiplier {
		t.Errorf("Expected default multiplier to survive the file, got %g", cfg.Retry.Multiplier)
	}
}
