// ABOUTME: Configuration loader for the dairy client and the stub API server
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/client"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/session"
)

// DefaultAPIURL is the hosted billing API
const DefaultAPIURL = "https://bizwise.onrender.com/"

type Config struct {
	// Client
	APIURL      string
	ClientType  string
	HTTPTimeout int // seconds, default 30
	ConfigDir   string

	// Logging
	LogLevel  string
	LogFormat string

	// Stub API server
	DevAddr      string
	DevDB        string
	DevJWTSecret string
}

// Timeout returns the HTTP timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// Load reads .env (if present) and then the environment.
// Values already set in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Ignoring unreadable .env file", "error", err)
	}

	cfg := &Config{
		APIURL:      client.NormalizeBaseURL(getEnv("DAIRY_API_URL", DefaultAPIURL)),
		ClientType:  getEnv("DAIRY_CLIENT_TYPE", "web"),
		HTTPTimeout: getEnvInt("DAIRY_HTTP_TIMEOUT", 30),
		ConfigDir:   getEnv("DAIRY_CONFIG_DIR", session.DefaultConfigDir()),

		LogLevel:  getEnv("LOG_LEVEL", "warn"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DevAddr:      getEnv("DAIRY_DEV_ADDR", ":8080"),
		DevDB:        getEnv("DAIRY_DEV_DB", "file::memory:?cache=shared"),
		DevJWTSecret: os.Getenv("DAIRY_DEV_JWT_SECRET"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that flags may have overridden after Load
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("DAIRY_API_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("DAIRY_API_URL must use http or https, got %q", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("DAIRY_API_URL must include a host, got %q", c.APIURL)
	}
	if c.HTTPTimeout < 1 {
		return fmt.Errorf("DAIRY_HTTP_TIMEOUT must be positive, got %d", c.HTTPTimeout)
	}
	if c.ClientType == "" {
		return fmt.Errorf("DAIRY_CLIENT_TYPE must not be empty")
	}
	return nil
}

// SetAPIURL applies a flag override, normalizing the trailing slash
func (c *Config) SetAPIURL(raw string) {
	if raw != "" {
		c.APIURL = client.NormalizeBaseURL(raw)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
