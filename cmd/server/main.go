package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitit/internal/auth"
	"github.com/mmynk/splitit/internal/config"
	"github.com/mmynk/splitit/internal/events"
	"github.com/mmynk/splitit/internal/models"
	"github.com/mmynk/splitit/internal/server"
	"github.com/mmynk/splitit/internal/storage"
	"github.com/mmynk/splitit/internal/storage/memory"
	redisstore "github.com/mmynk/splitit/internal/storage/redis"
	"github.com/mmynk/splitit/internal/storage/sqlite"
	"github.com/mmynk/splitit/pkg/logging"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	logger := logging.SetupWith(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	repo := storage.NewRepository(kv, logger)
	defer repo.Close()
	logger.Info("Storage initialized", "backend", cfg.StorageBackend)

	defaults := models.DefaultAppState()
	defaults.Currency = cfg.Currency
	state := repo.InitAppState(ctx, defaults)
	logger.Info("App state loaded", "currency", state.Currency)

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.DialAMQP(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.ConnectTimeout)
		if err != nil {
			return fmt.Errorf("initialize AMQP publisher: %w", err)
		}
		publisher = amqpPublisher
		logger.Info("Publishing change events", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("Change events disabled - no AMQP_URL provided")
	}
	defer publisher.Close()

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: server.Handler(server.Config{
			Repo:      repo,
			Publisher: publisher,
			Logger:    logger,
			JWT:       jwtManager,
		}),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Connect server starting",
			"address", srv.Addr,
			"url", fmt.Sprintf("http://localhost%s", srv.Addr),
			"auth", cfg.AuthEnabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", "timeout", cfg.HTTPShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageSQLite:
		return sqlite.New(cfg.DBPath)
	case config.StorageRedis:
		return redisstore.Connect(ctx, cfg.RedisURL, cfg.ConnectTimeout)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
