package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/watchlist/internal/api"
	"github.com/mcoot/watchlist/internal/api/middleware"
	"github.com/mcoot/watchlist/internal/config"
	"github.com/mcoot/watchlist/internal/factory"
	"github.com/mcoot/watchlist/internal/services/auth"
	mongostorage "github.com/mcoot/watchlist/internal/storage/mongo"
	redisstorage "github.com/mcoot/watchlist/internal/storage/redis"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create application factory
	connectCtx, cancelConnect := context.WithTimeout(ctx, 30*time.Second)
	app, err := factory.New(connectCtx, factoryConfig(cfg, logger))
	cancelConnect()
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		AuthService:      app.AuthService,
		WatchlistService: app.WatchlistService,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		RateLimit: middleware.RateLimitConfig{
			Limit: cfg.Auth.RateLimit,
			Burst: cfg.Auth.RateBurst,
		},
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)
	if err := server.Listen(); err != nil {
		logger.Error("failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Serve in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// factoryConfig maps environment configuration onto the application factory
func factoryConfig(cfg *config.Config, logger *slog.Logger) factory.Config {
	fc := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		AuthConfig: auth.Config{
			SecretKey: cfg.Auth.SecretKey,
			TokenTTL:  cfg.Auth.TokenTTL,
		},
	}

	switch cfg.Storage.Type {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		fc.RedisConfig = &redisCfg
	case config.StorageMongo:
		mongoCfg := mongostorage.DefaultConfig()
		mongoCfg.URI = cfg.Storage.MongoURL
		mongoCfg.Database = cfg.Storage.MongoDatabase
		fc.MongoConfig = &mongoCfg
	}

	if cfg.Auth.SecretKey == "devsecret" {
		logger.Warn("SECRET_KEY is the development default; set it in production")
	}

	return fc
}
