package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/motahq/mota-sync/internal/audit"
	auditsqlite "github.com/motahq/mota-sync/internal/audit/sqlite"
	"github.com/motahq/mota-sync/internal/config"
	"github.com/motahq/mota-sync/internal/events"
	"github.com/motahq/mota-sync/internal/gateway"
	"github.com/motahq/mota-sync/internal/router"
	"github.com/motahq/mota-sync/internal/server/handlers"
	"github.com/motahq/mota-sync/internal/server/middleware"
	statusboltdb "github.com/motahq/mota-sync/internal/status/boltdb"
	syncsvc "github.com/motahq/mota-sync/internal/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	envFile := flag.String("env-file", "", "Path to .env file")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)
	logger.Info("Starting mota-sync",
		"version", Version,
		"addr", cfg.Server.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище checkpoint'ов
	statusStore, err := statusboltdb.New(ctx, cfg.Status.Path, cfg.Status.TTL)
	if err != nil {
		return fmt.Errorf("failed to open status store: %w", err)
	}
	defer func() {
		if err := statusStore.Close(); err != nil {
			logger.Error("Failed to close status store", "error", err)
		}
	}()

	// Журнал синхронизаций
	auditStore, err := auditsqlite.New(ctx, cfg.Audit.Path)
	if err != nil {
		return fmt.Errorf("failed to open audit store: %w", err)
	}
	defer func() {
		if err := auditStore.Close(); err != nil {
			logger.Error("Failed to close audit store", "error", err)
		}
	}()

	bus := events.NewBus(logger)
	bus.Subscribe(events.TypeSyncCompleted, audit.NewSyncCompletedHandler(auditStore, logger))

	signer := gateway.NewTokenSigner(cfg.Gateway.TokenSecret, "mota-sync", cfg.Gateway.TokenTTL)
	gw := gateway.NewHTTPClient(gateway.Options{
		Services:   cfg.ServiceURLs(),
		Signer:     signer,
		Logger:     logger,
		Timeout:    cfg.Gateway.Timeout,
		MaxRetries: cfg.Gateway.MaxRetries,
	})

	service := syncsvc.NewService(gw, router.New(), statusStore, bus, logger)

	syncHandler := handlers.NewSyncHandler(logger, service)
	healthHandler := handlers.NewHealthHandler(logger, Version)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.HandleFunc("POST /api/v1/sync", syncHandler.HandleSync)
	mux.HandleFunc("GET /api/v1/sync/delta", syncHandler.HandleDelta)
	mux.HandleFunc("GET /api/v1/sync/full", syncHandler.HandleFull)
	mux.HandleFunc("GET /api/v1/sync/status", syncHandler.HandleStatus)
	mux.HandleFunc("POST /api/v1/sync/resolve", syncHandler.HandleResolve)

	// Health остается снаружи identity: его зовет инфраструктура
	var handler http.Handler = mux
	handler = identityExceptHealth(logger, handler)
	handler = middleware.RateLimitMiddleware(cfg.Server.RateLimit, cfg.Server.RateWindow, logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RequestIDMiddleware()(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler,
	}

	errC := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

// identityExceptHealth навешивает identity middleware на все пути,
// кроме health check
func identityExceptHealth(logger *slog.Logger, next http.Handler) http.Handler {
	withIdentity := middleware.IdentityMiddleware(logger)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/health" {
			next.ServeHTTP(w, r)
			return
		}
		withIdentity.ServeHTTP(w, r)
	})
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func printVersion() {
	fmt.Printf("mota-sync BFF\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
