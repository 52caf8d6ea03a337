package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antonvlasov/newshub/app/api"
	"github.com/antonvlasov/newshub/app/cache"
	"github.com/antonvlasov/newshub/app/cfg"
	"github.com/antonvlasov/newshub/app/database"
	"github.com/antonvlasov/newshub/app/ingest"
	"github.com/antonvlasov/newshub/app/provider"
	"github.com/antonvlasov/newshub/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting NewsHub server", "version", appCfg.Version)

	// Database connection and migrations
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	// Repositories
	entityRepo := database.NewEntityRepository(db)
	articleRepo := database.NewArticleRepository(db)
	userRepo := database.NewUserRepository(db)

	// Provider adapters
	providerConfig, err := provider.LoadConfig(appCfg.ProvidersFile)
	if err != nil {
		slog.Error("Failed to load provider configuration", "file", appCfg.ProvidersFile, "error", err)
		os.Exit(1)
	}
	httpClient := &http.Client{}
	adapters := provider.BuildAdapters(providerConfig, httpClient, appCfg.UserAgent)
	if len(adapters) == 0 {
		slog.Warn("No providers enabled, ingestion will produce nothing", "file", appCfg.ProvidersFile)
	}

	// Ingestion pipeline
	orchestrator := ingest.NewOrchestrator(adapters, entityRepo, articleRepo)

	scheduler := tasks.NewScheduler(orchestrator)
	scheduler.Start()
	defer scheduler.Stop()

	// Response cache
	responseCache := buildCache(appCfg)

	// HTTP server
	handler := api.NewHandler(articleRepo, entityRepo, userRepo, orchestrator, responseCache)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

func buildCache(appCfg *cfg.Cfg) *cache.Cache {
	if appCfg.CacheDisabled {
		slog.Info("Response cache disabled")
		return cache.Disabled()
	}

	if appCfg.RedisAddr != "" {
		store, err := cache.NewRedisStore(appCfg.RedisAddr)
		if err != nil {
			slog.Error("Failed to connect to redis, falling back to in-memory cache", "addr", appCfg.RedisAddr, "error", err)
			return cache.New(cache.NewMemoryStore())
		}
		slog.Info("Response cache backed by redis", "addr", appCfg.RedisAddr)
		return cache.New(store)
	}

	return cache.New(cache.NewMemoryStore())
}
