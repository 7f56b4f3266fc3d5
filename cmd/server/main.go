package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kpoder/csvguard/internal/config"
	"github.com/kpoder/csvguard/internal/core"
	"github.com/kpoder/csvguard/internal/logging"
	"github.com/kpoder/csvguard/internal/session"
	"github.com/kpoder/csvguard/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"chunk_size", cfg.Validation.ChunkSize,
		"workers", cfg.Validation.Workers,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Upload session store with TTL janitor
	sessions, err := session.NewStore(cfg.Upload.Dir, cfg.Upload.SessionTTL)
	if err != nil {
		slog.Error("failed to create session store", "error", err)
		os.Exit(1)
	}

	service := core.NewService(sessions, core.ServiceOptions{
		ChunkSize:   cfg.Validation.ChunkSize,
		Workers:     cfg.Validation.Workers,
		MinAge:      cfg.Validation.MinAge,
		PreviewRows: cfg.Upload.PreviewRows,
	})

	server := web.NewServer(service, cfg)

	// Cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go sessions.Janitor(jobCtx, time.Minute)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
