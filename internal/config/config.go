// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"APP_PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"inkwell"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB" envDefault:"inkwell"`

	// Valkey (Redis-compatible cache and session store)
	ValkeyHost     string `env:"VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     string `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`

	// SiteTimezone decides which calendar day an article was published on.
	SiteTimezone string `env:"SITE_TIMEZONE" envDefault:"UTC"`

	// JWTSecret enables bearer-token identities when set.
	JWTSecret string `env:"JWT_SECRET"`

	// Public read path tuning
	PageCacheTTL   time.Duration `env:"PAGE_CACHE_TTL" envDefault:"5m"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"40"`
	PageSize       int           `env:"PAGE_SIZE" envDefault:"10"`

	location *time.Location
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	loc, err := time.LoadLocation(cfg.SiteTimezone)
	if err != nil {
		return nil, fmt.Errorf("SITE_TIMEZONE %q: %w", cfg.SiteTimezone, err)
	}
	cfg.location = loc

	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Location returns the site time zone. Defaults to UTC on a Config that did
// not come from Load.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// SlogLevel maps LogLevel to a slog level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
