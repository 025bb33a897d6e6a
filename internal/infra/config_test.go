package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.example.com")
	t.Setenv("JOB_POLL_INTERVAL_SECONDS", "")
	t.Setenv("JOB_POLL_MAX_ATTEMPTS", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Fatalf("PollInterval mismatch: got %s want 2s", cfg.PollInterval)
	}
	if cfg.PollMaxAttempts != 30 {
		t.Fatalf("PollMaxAttempts mismatch: got %d want 30", cfg.PollMaxAttempts)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q want 8080", cfg.Port)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("DatabaseURL should be optional, got %q", cfg.DatabaseURL)
	}
}

func TestLoadConfigRequiresBackendURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when BACKEND_BASE_URL missing")
	}
}

func TestLoadConfigPollOverrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.example.com")
	t.Setenv("JOB_POLL_INTERVAL_SECONDS", "5")
	t.Setenv("JOB_POLL_MAX_ATTEMPTS", "10")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("PollInterval mismatch: got %s want 5s", cfg.PollInterval)
	}
	if cfg.PollMaxAttempts != 10 {
		t.Fatalf("PollMaxAttempts mismatch: got %d want 10", cfg.PollMaxAttempts)
	}
}

func TestLoadConfigCORSOrigins(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.example.com")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://staging.example.com ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := []string{"https://app.example.com", "https://staging.example.com"}
	if len(cfg.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins mismatch: %#v", cfg.CORSOrigins)
	}
	for i := range want {
		if cfg.CORSOrigins[i] != want[i] {
			t.Fatalf("CORSOrigins[%d] = %q, want %q", i, cfg.CORSOrigins[i], want[i])
		}
	}
}
