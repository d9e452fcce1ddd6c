package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/karimwaheed/strategy-lab/internal/api"
	"github.com/karimwaheed/strategy-lab/internal/config"
	"github.com/karimwaheed/strategy-lab/internal/ideas"
	"github.com/karimwaheed/strategy-lab/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting strategy lab API",
		logger.Int("port", cfg.API.Port),
		logger.String("store", cfg.Ideas.StoreType),
		logger.Bool("cache", cfg.Ideas.CacheEnabled),
	)

	store, err := buildStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize idea store",
			logger.ErrorField(err),
		)
	}
	defer store.Close()

	router := api.NewRouter(cfg.API, store)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.API.Port),
		Handler:      router,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	go func() {
		logger.Info("Starting HTTP server",
			logger.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server",
				logger.ErrorField(err),
			)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutting down strategy lab API")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Error shutting down HTTP server",
			logger.ErrorField(err),
		)
	}

	logger.Info("Shutdown complete")
}

// buildStore selects the idea store backend from configuration. Postgres is
// the persistent option; a Redis read-through cache can be layered on top.
func buildStore(cfg *config.Config) (ideas.Store, error) {
	var store ideas.Store

	switch cfg.Ideas.StoreType {
	case "postgres":
		pg, err := ideas.NewPostgresStore(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("postgres store: %w", err)
		}
		store = pg
	case "memory":
		store = ideas.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Ideas.StoreType)
	}

	if cfg.Ideas.CacheEnabled {
		client, err := ideas.NewRedisClient(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		store = ideas.NewCachedStore(store, client)
	}

	return store, nil
}
