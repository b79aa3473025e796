package config_test

import (
	"testing"
	"time"

	"jobmate/board-service/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"JOBS_API_URL", "DATABASE_URL", "REDIS_URL", "BOARD_PORT", "BOARD_GRPC_PORT",
		"REFRESH_INTERVAL_MINUTES", "FETCH_TIMEOUT_SECONDS", "CACHE_TTL_MINUTES",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_RequiresASource(t *testing.T) {
	clearEnv(t)
	if _, err := config.Load(); err == nil {
		t.Fatal("Load() without JOBS_API_URL or DATABASE_URL should fail")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOBS_API_URL", "http://jobs.local")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != "8083" || cfg.GRPCPort != "9083" {
		t.Errorf("ports = %s/%s", cfg.HTTPPort, cfg.GRPCPort)
	}
	if cfg.RefreshInterval != 15*time.Minute || cfg.FetchTimeout != 15*time.Second {
		t.Errorf("RefreshInterval = %v, FetchTimeout = %v", cfg.RefreshInterval, cfg.FetchTimeout)
	}
	if cfg.CacheTTL != cfg.RefreshInterval {
		t.Errorf("CacheTTL = %v, want the refresh interval", cfg.CacheTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
	t.Setenv("REFRESH_INTERVAL_MINUTES", "5")
	t.Setenv("CACHE_TTL_MINUTES", "2")
	t.Setenv("BOARD_PORT", "9000")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RefreshInterval != 5*time.Minute || cfg.CacheTTL != 2*time.Minute || cfg.HTTPPort != "9000" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_RejectsBadIntegers(t *testing.T) {
	for _, v := range []string{"0", "-3", "ten"} {
		clearEnv(t)
		t.Setenv("JOBS_API_URL", "http://jobs.local")
		t.Setenv("REFRESH_INTERVAL_MINUTES", v)
		if _, err := config.Load(); err == nil {
			t.Errorf("REFRESH_INTERVAL_MINUTES=%q should be rejected", v)
		}
	}
}
