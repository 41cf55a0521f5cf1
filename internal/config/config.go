package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const defaultAuthSecret = "change-me-auth-secret"

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL" envDefault:"file:coursereviews.db"`

	AuthSecret        string        `env:"AUTH_SECRET" envDefault:"change-me-auth-secret"`
	AuthIssuer        string        `env:"AUTH_ISSUER"`
	AuthAudience      string        `env:"AUTH_AUDIENCE"`
	AuthAllowedDomain string        `env:"AUTH_ALLOWED_DOMAIN" envDefault:"cornell.edu"`
	AuthTokenTTL      time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"1h"`

	// Redis is optional; an empty address disables the stats cache.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"5m"`

	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}
	return Parse()
}

func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", cfg.HTTPPort)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.AuthTokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be > 0")
	}
	if cfg.StatsCacheTTL <= 0 {
		return fmt.Errorf("STATS_CACHE_TTL must be > 0")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0")
	}
	if cfg.IsProdLike() {
		secret := strings.TrimSpace(cfg.AuthSecret)
		if secret == "" || secret == defaultAuthSecret {
			return fmt.Errorf("in prod/release AUTH_SECRET must be set and not default")
		}
	}
	return nil
}
