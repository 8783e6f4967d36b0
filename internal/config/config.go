package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
)

// Config contains server configuration parameters.
type Config struct {
	Port     string     `env:"PORT" envDefault:"8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	Auth     Auth
	Storage  Storage
	CORS     CORS
}

// Auth contains credential and throttling parameters.
type Auth struct {
	SecretKey string        `env:"SECRET_KEY" envDefault:"devsecret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"336h"`
	// RateLimit is the sustained number of login/signup requests per second
	// allowed from one client address. Zero disables throttling.
	RateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"1"`
	RateBurst int     `env:"AUTH_RATE_BURST" envDefault:"10"`
}

// Storage selects and locates the account store.
type Storage struct {
	Type          string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL      string `env:"REDIS_URL"`
	MongoURL      string `env:"MONGODB_URL"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"watchlist"`
}

// CORS contains the browser origins allowed to call the API.
type CORS struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://checkitoff-frontend-v2.vercel.app,http://localhost:3000"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field requirements env tags cannot express.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	case StorageMongo:
		if c.Storage.MongoURL == "" {
			return errors.New("MONGODB_URL required when STORAGE_TYPE=mongo")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis or mongo", c.Storage.Type)
	}

	if c.Auth.SecretKey == "" {
		return errors.New("SECRET_KEY must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Auth.RateLimit < 0 || c.Auth.RateBurst < 0 {
		return errors.New("AUTH_RATE_LIMIT and AUTH_RATE_BURST must not be negative")
	}

	return nil
}
