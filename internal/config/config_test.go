package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"voip-metrics-service/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/cdr")

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddr != ":8080" || cfg.SourceTable != "sonus_aggregation_new" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RateLimitAPI != 60 || cfg.RateLimitGeneral != 100 || cfg.RateLimitWindow != time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg)
	}
	if cfg.BreakerFailureThreshold != 5 || cfg.BreakerRecoveryTimeout != 30*time.Second || cfg.BreakerSuccessThreshold != 2 {
		t.Fatalf("unexpected breaker defaults: %+v", cfg)
	}
	if cfg.RetryMax != 3 || cfg.RetryBaseDelay != time.Second || cfg.RetryMaxDelay != 30*time.Second {
		t.Fatalf("unexpected retry defaults: %+v", cfg)
	}
	if cfg.ReportCacheTTL != time.Minute || cfg.JobResultTTL != time.Hour {
		t.Fatalf("unexpected ttl defaults: %+v", cfg)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/cdr")
	t.Setenv("RATE_LIMIT_API", "10")
	t.Setenv("REPORT_CACHE_TTL", "2m")
	t.Setenv("BREAKER_RECOVERY_TIMEOUT", "45")
	t.Setenv("SOURCE_TABLE", "cdr_rollup")

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RateLimitAPI != 10 {
		t.Fatalf("expected 10, got %d", cfg.RateLimitAPI)
	}
	if cfg.ReportCacheTTL != 2*time.Minute {
		t.Fatalf("expected 2m, got %s", cfg.ReportCacheTTL)
	}
	if cfg.BreakerRecoveryTimeout != 45*time.Second {
		t.Fatalf("expected bare seconds to parse, got %s", cfg.BreakerRecoveryTimeout)
	}
	if cfg.SourceTable != "cdr_rollup" {
		t.Fatalf("expected cdr_rollup, got %s", cfg.SourceTable)
	}
}

func TestFromEnv_MissingDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := config.FromEnv()
	if !errors.Is(err, config.ErrMissingDSN) {
		t.Fatalf("expected ErrMissingDSN, got %v", err)
	}
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/cdr")
	t.Setenv("RATE_LIMIT_API", "lots")
	t.Setenv("QUERY_TIMEOUT", "soon")

	_, err := config.FromEnv()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	for _, key := range []string{"RATE_LIMIT_API", "QUERY_TIMEOUT"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("expected error to mention %s, got %v", key, err)
		}
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("POSTGRES_DSN=postgres://dotenv/cdr\nJOB_WORKERS=2\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)
	// godotenv never overrides variables that are already set
	os.Unsetenv("POSTGRES_DSN")
	os.Unsetenv("JOB_WORKERS")
	t.Cleanup(func() {
		os.Unsetenv("POSTGRES_DSN")
		os.Unsetenv("JOB_WORKERS")
	})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PostgresDSN != "postgres://dotenv/cdr" || cfg.JobWorkers != 2 {
		t.Fatalf("expected values from .env, got %+v", cfg)
	}
}
