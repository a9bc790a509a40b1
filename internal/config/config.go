package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        string

	// Observability
	SentryDSN string // Sentry DSN for error tracking

	// Generation logging (optional, empty disables it)
	DatabaseURL string

	// Server-wide learned pattern pool (optional). A YAML or JSON file, or
	// "example" for the bundled pool.
	LearnedPatternsPath string

	// Composer defaults
	DefaultTempo    float64
	DefaultLength   int
	MaxMelodyLength int

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from the gateway
	AuthMode string
}

func Load() *Config {
	return &Config{
		Environment:         getEnv("ENVIRONMENT", "development"),
		Port:                getEnv("PORT", "8080"),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		LearnedPatternsPath: getEnv("LEARNED_PATTERNS_PATH", ""),
		DefaultTempo:        getEnvFloat("DEFAULT_TEMPO", 120),
		DefaultLength:       getEnvInt("DEFAULT_LENGTH", 16),
		MaxMelodyLength:     getEnvInt("MAX_MELODY_LENGTH", 512),
		AuthMode:            getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to the default for unset, malformed or non-positive values
func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || f <= 0 {
		return defaultValue
	}
	return f
}

// IsGatewayMode returns true if running behind the gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsProduction reports whether metrics should go to CloudWatch
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasDatabase reports whether generation logging is configured
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}
