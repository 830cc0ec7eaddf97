package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all client configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Backend
	APIBaseURL string

	// Logging
	LogLevel string

	// HTTP client
	HTTPTimeout time.Duration

	// Dashboard
	ForecastMonths int

	// Watch mode (periodic refresh + ops endpoints)
	WatchAddr     string
	WatchInterval time.Duration

	// Observability
	OTLPEndpoint string
	TracingOn    bool

	// Session persistence. Empty means the default location under the
	// user config dir.
	TokenPath string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		APIBaseURL: getEnv("FINHEALTH_API_URL", "http://localhost:8000"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		ForecastMonths: getEnvInt("FORECAST_MONTHS", 3),

		WatchAddr:     getEnv("WATCH_ADDR", ":9090"),
		WatchInterval: getEnvDuration("WATCH_INTERVAL", 60*time.Second),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingOn:    getEnv("TRACING_ENABLED", "false") == "true",

		TokenPath: getEnv("FINHEALTH_TOKEN_PATH", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
