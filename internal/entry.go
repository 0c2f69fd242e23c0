// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/othala/internal/api"
	"github.com/starford/othala/internal/snapshot"
	"github.com/starford/othala/internal/sse"
	"github.com/starford/othala/internal/vaultservice"
	"github.com/starford/othala/internal/watch"
)

// NewLogger builds the structured JSON logger used by every command.
func NewLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// NewVaultService wires the snapshot store and vault service from config.
// The caller owns the returned snapshot DB and must close it.
func NewVaultService(cfg *Config, logger *slog.Logger) (*vaultservice.Service, *snapshot.DB, error) {
	db, err := snapshot.Open(cfg.Snapshot.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init snapshot: %w", err)
	}
	svc, err := vaultservice.NewService(cfg.Vault.Path, db, vaultservice.Options{
		Extension:     cfg.Vault.Extension,
		IncludeHidden: cfg.Vault.IncludeHidden,
		Parallel:      cfg.Analysis.Parallel,
		Workers:       cfg.Analysis.Workers,
		BatchSize:     cfg.Analysis.BatchSize,
	}, logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init vault service: %w", err)
	}
	return svc, db, nil
}

// Run starts the server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := app.logger
	if logger == nil {
		logger = NewLogger(cfg.App.LogLevel)
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("snapshot_path", cfg.Snapshot.Path),
		slog.Bool("parallel", cfg.Analysis.Parallel),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, db, err := NewVaultService(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// Run initial sync.
	if err := svc.Sync(ctx); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher; re-syncs publish SSE events.
	g.Go(func() error {
		return watch.Watch(gCtx, svc, svc.Root(), watch.Options{
			Extension: cfg.Vault.Extension,
		}, logger, func() {
			a, err := svc.Analysis(gCtx)
			if err != nil {
				return
			}
			dups, _ := svc.Duplicates(gCtx)
			broker.PublishSync(sse.SyncStats{
				Notes:      a.Nodes,
				Edges:      a.Edges,
				Duplicates: len(dups),
			})
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
