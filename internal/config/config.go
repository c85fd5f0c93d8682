// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// BaseURL is the public-facing URL used for links and redirects.
	BaseURL string

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// Upstream holds marketplace API connection settings.
	Upstream UpstreamConfig

	// Auth holds session-related settings.
	Auth AuthConfig

	// Lookup holds settings for the debounced email lookup.
	Lookup LookupConfig
}

// RedisConfig holds Redis connection parameters. Redis is the gateway's
// durable client storage: it holds nothing but the per-session bearer token.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// UpstreamConfig holds marketplace API settings. The gateway never owns
// business data; every resource operation is proxied to this API.
type UpstreamConfig struct {
	// BaseURL is the marketplace API root (e.g., "https://api.aisle.example").
	BaseURL string

	// Timeout bounds every proxied request.
	Timeout time.Duration
}

// AuthConfig holds session settings.
type AuthConfig struct {
	// SecretKey encrypts bearer tokens at rest in Redis (must be 32+ chars).
	SecretKey string

	// SessionTTL is how long an idle browser session (and its stored token)
	// lasts before expiring.
	SessionTTL time.Duration
}

// LookupConfig holds settings for the email role/availability lookup used
// by the login and register forms.
type LookupConfig struct {
	// DebounceWindow is how long a lookup waits for further keystrokes
	// before firing.
	DebounceWindow time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		BaseURL:  getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Upstream: UpstreamConfig{
			BaseURL: getEnv("UPSTREAM_URL", "http://localhost:9000"),
			Timeout: getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		},

		Auth: AuthConfig{
			SecretKey:  getEnv("SECRET_KEY", ""),
			SessionTTL: getEnvDuration("SESSION_TTL", 720*time.Hour),
		},

		Lookup: LookupConfig{
			DebounceWindow: getEnvDuration("LOOKUP_DEBOUNCE", 800*time.Millisecond),
		},
	}

	// Validate required fields in production. Case-insensitive check catches
	// common variants like "Production", "prod", etc.
	envLower := strings.ToLower(cfg.Env)
	if envLower == "production" || envLower == "prod" {
		if cfg.Auth.SecretKey == "" {
			return nil, fmt.Errorf("SECRET_KEY is required in production")
		}
		if len(cfg.Auth.SecretKey) < 32 {
			return nil, fmt.Errorf("SECRET_KEY must be at least 32 characters in production")
		}
	}

	// Provide a dev-only default secret so local dev works without .env.
	if cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = "dev-secret-key-do-not-use-in-production!!"
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "720h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
