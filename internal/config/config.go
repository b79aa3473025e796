// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing or malformed, Load returns an error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the board service.
type Config struct {
	HTTPPort        string
	GRPCPort        string
	JobsAPIURL      string // REST source; takes precedence over DatabaseURL
	DatabaseURL     string // optional read-only Postgres source
	RedisURL        string // optional; enables the snapshot cache and job events
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	CacheTTL        time.Duration
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	apiURL := os.Getenv("JOBS_API_URL")
	dbURL := os.Getenv("DATABASE_URL")
	if apiURL == "" && dbURL == "" {
		return nil, fmt.Errorf("JOBS_API_URL or DATABASE_URL is required")
	}

	refresh, err := positiveInt("REFRESH_INTERVAL_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	timeout, err := positiveInt("FETCH_TIMEOUT_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	ttl, err := positiveInt("CACHE_TTL_MINUTES", refresh)
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTPPort:        envOr("BOARD_PORT", "8083"),
		GRPCPort:        envOr("BOARD_GRPC_PORT", "9083"),
		JobsAPIURL:      apiURL,
		DatabaseURL:     dbURL,
		RedisURL:        os.Getenv("REDIS_URL"),
		RefreshInterval: time.Duration(refresh) * time.Minute,
		FetchTimeout:    time.Duration(timeout) * time.Second,
		CacheTTL:        time.Duration(ttl) * time.Minute,
	}, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func positiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}
