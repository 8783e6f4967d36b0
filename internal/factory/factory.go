package factory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/watchlist/internal/dependencies/clock"
	"github.com/mcoot/watchlist/internal/dependencies/random"
	"github.com/mcoot/watchlist/internal/services/auth"
	"github.com/mcoot/watchlist/internal/services/watchlist"
	"github.com/mcoot/watchlist/internal/storage"
	"github.com/mcoot/watchlist/internal/storage/memory"
	mongostorage "github.com/mcoot/watchlist/internal/storage/mongo"
	redisstorage "github.com/mcoot/watchlist/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeMongo  = "mongo"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService      *auth.Service
	WatchlistService *watchlist.Service

	closeStorage func(context.Context) error
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If SecretKey is empty, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "mongo")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// MongoConfig holds MongoDB connection settings (required if StorageType is "mongo")
	MongoConfig *mongostorage.Config
}

// New creates a new application with all dependencies wired.
// ctx bounds connecting to the storage backend.
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var store storage.Storage
	closeStorage := func(context.Context) error { return nil }

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closeStorage = func(context.Context) error { return redisStore.Close() }
	case StorageTypeMongo:
		if cfg.MongoConfig == nil {
			return nil, errors.New("MongoConfig required when StorageType is mongo")
		}
		mongoStore, err := mongostorage.New(ctx, *cfg.MongoConfig)
		if err != nil {
			return nil, err
		}
		store = mongoStore
		closeStorage = mongoStore.Close
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'mongo'", storageType)
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	authCfg := cfg.AuthConfig
	if authCfg.SecretKey == "" {
		authCfg = auth.DefaultConfig()
	}

	logger.Info("storage ready", slog.String("type", storageType))

	app := newWithDependencies(store, clk, rnd, authCfg, logger)
	app.closeStorage = closeStorage
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		AuthService:      auth.New(store, clk, rnd, authCfg, logger),
		WatchlistService: watchlist.New(store, clk, logger),
		closeStorage:     func(context.Context) error { return nil },
	}
}

// Close releases the storage backend connection
func (a *App) Close(ctx context.Context) error {
	return a.closeStorage(ctx)
}
