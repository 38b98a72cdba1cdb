package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config is read by cmd/monzo only. The monzo package itself consumes no
// environment variables.
type Config struct {
	Monzo     MonzoConfig
	Telemetry TelemetryConfig
}

type MonzoConfig struct {
	AccessToken string
	BaseURL     string
	Timeout     time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("MONZO_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONZO_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("MONZO_TIMEOUT must be positive, got %s", timeout)
	}

	cfg := &Config{
		Monzo: MonzoConfig{
			AccessToken: strings.TrimSpace(getEnv("MONZO_ACCESS_TOKEN", "")),
			BaseURL:     getEnv("MONZO_BASE_URL", "https://api.monzo.com"),
			Timeout:     timeout,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "monzo-cli"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", ""),
			MetricsPort:  getEnv("OTEL_METRICS_PORT", ""),
		},
	}

	// Validate required fields
	if cfg.Monzo.AccessToken == "" {
		return nil, fmt.Errorf("MONZO_ACCESS_TOKEN is required")
	}

	u, err := url.Parse(cfg.Monzo.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("MONZO_BASE_URL must be an absolute URL, got %q", cfg.Monzo.BaseURL)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
