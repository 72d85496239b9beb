package config

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name           string        `env:"APP_NAME" envDefault:"auth-service"`
	Env            string        `env:"APP_ENV" envDefault:"development"`
	Host           string        `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port           string        `env:"APP_PORT" envDefault:"8080"`
	Version        string        `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
}

// PostgresConfig holds DB connection values. An empty DSN selects the in-memory user store.
type PostgresConfig struct {
	DSN             string        `env:"POSTGRES_DSN"`
	MaxConns        int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations   bool          `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	ConnMaxIdleTime time.Duration `env:"POSTGRES_CONN_MAX_IDLE" envDefault:"30s"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFE" envDefault:"5m"`
}

// RedisConfig holds Redis connection values. An empty Addr disables the principal cache.
type RedisConfig struct {
	Addr              string        `env:"REDIS_ADDR"`
	Password          string        `env:"REDIS_PASSWORD"`
	DB                int           `env:"REDIS_DB" envDefault:"0"`
	PrincipalCacheTTL time.Duration `env:"REDIS_PRINCIPAL_CACHE_TTL" envDefault:"5m"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	// SigningSecret is base64-encoded HMAC key material.
	SigningSecret string        `env:"AUTH_SIGNING_SECRET"`
	TokenTTL      time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"15m"`
	BcryptCost    int           `env:"AUTH_BCRYPT_COST" envDefault:"12"`
	// PublicPaths are matched exactly; an entry ending in "*" matches by prefix.
	PublicPaths           []string `env:"AUTH_PUBLIC_PATHS" envSeparator:"," envDefault:"/api/auth/register,/api/auth/login,/health/live,/health/ready"`
	UnauthenticatedStatus int      `env:"AUTH_UNAUTHENTICATED_STATUS" envDefault:"401"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	if c.Auth.SigningSecret == "" {
		return errors.New("AUTH_SIGNING_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("invalid AUTH_TOKEN_TTL: %s", c.Auth.TokenTTL)
	}
	switch c.Auth.UnauthenticatedStatus {
	case http.StatusUnauthorized, http.StatusForbidden:
	default:
		return fmt.Errorf("invalid AUTH_UNAUTHENTICATED_STATUS: %d", c.Auth.UnauthenticatedStatus)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}
