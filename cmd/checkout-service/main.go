package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jcmexdev/checkout-engine/internal/checkout/app"
	"github.com/jcmexdev/checkout-engine/internal/checkout/core/ports"
	"github.com/jcmexdev/checkout-engine/internal/checkout/infra/adapters/payment"
	"github.com/jcmexdev/checkout-engine/internal/checkout/infra/httpx"
	"github.com/jcmexdev/checkout-engine/internal/checkout/journal"
	"github.com/jcmexdev/checkout-engine/internal/checkout/journal/sqlite"
	"github.com/jcmexdev/checkout-engine/internal/pkg/cache"
	"github.com/jcmexdev/checkout-engine/internal/pkg/config"
	"github.com/jcmexdev/checkout-engine/internal/pkg/telemetry"
)

func main() {
	cfg := config.LoadConfig()
	telemetry.InitLogger(cfg.ServiceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
		Enabled:     cfg.TracingEnabled,
	})
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	store, err := newSessionCache(ctx, cfg)
	if err != nil {
		slog.Error("failed to reach session storage", "backend", cfg.StorageBackend, "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	var repo journal.Repository
	if cfg.JournalPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.JournalPath), 0o755); err != nil {
			slog.Error("failed to create journal directory", "path", cfg.JournalPath, "error", err)
			os.Exit(1)
		}
		sqliteRepo, err := sqlite.Open(cfg.JournalPath)
		if err != nil {
			slog.Error("failed to open checkout journal", "path", cfg.JournalPath, "error", err)
			os.Exit(1)
		}
		defer sqliteRepo.Close()
		repo = sqliteRepo
	}

	svc := app.NewService(func(sessionID string) ports.SessionStorage {
		return cache.NewSessionStorage(store, sessionID, cfg.SessionTTL)
	}, payment.NewFakeGateway(), repo)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpx.NewRouter(httpx.NewHandler(svc)),
	}

	go func() {
		slog.Info("checkout service running", "addr", server.Addr, "storage", cfg.StorageBackend, "journal", cfg.JournalPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down checkout service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
}

func newSessionCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.StorageBackend == config.StorageMemory {
		return cache.NewMemoryCache("checkout"), nil
	}
	c := cache.NewRedisCache(cfg.RedisAddr, "checkout")
	return c, cache.Ping(ctx, c)
}
