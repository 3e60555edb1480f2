package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/spreadtable/internal/application"
	"github.com/JonMunkholm/spreadtable/internal/config"
	"github.com/JonMunkholm/spreadtable/internal/core"
	"github.com/JonMunkholm/spreadtable/internal/export"
	"github.com/JonMunkholm/spreadtable/internal/logging"
	"github.com/JonMunkholm/spreadtable/internal/web"
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
		"manifest", cfg.Sources.Manifest,
		"export_max_concurrent", cfg.Export.MaxConcurrent,
		"pdf_enabled", cfg.PDF.Enabled,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()
	tables, err := application.LoadTables(ctx, cfg, cfg.Sources.Manifest)
	if err != nil {
		slog.Error("failed to load tables", "error", err)
		os.Exit(1)
	}
	defer tables.Close()

	limiter := core.NewExportLimiter(cfg.Export.MaxConcurrent, cfg.Export.MaxWaitTime)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	var store *export.DirSaver
	if cfg.Export.OutputDir != "" {
		store = export.NewDirSaver(cfg.Export.OutputDir)
		go core.StartRetentionScheduler(jobCtx, store, core.RetentionConfig{
			Retention:     cfg.Export.Retention,
			CheckInterval: cfg.Export.PurgeInterval,
		})
	}

	var pdf *export.ChromiumPDF
	deps := web.Deps{
		Config:   cfg,
		Registry: tables.Registry,
		Limiter:  limiter,
		Store:    store,
	}
	if cfg.PDF.Enabled {
		pdf = &export.ChromiumPDF{
			BrowserPath: cfg.PDF.BrowserPath,
			Timeout:     cfg.PDF.Timeout,
			Args:        cfg.PDF.Args,
			Landscape:   true,
		}
		deps.PDF = pdf
	}

	server := web.NewServer(deps)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for exports in flight to finish (with timeout)
		if status := limiter.Status(); status.Active > 0 {
			slog.Info("waiting for exports to complete", "active", status.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("exports did not complete in time", "error", err)
			} else {
				slog.Info("all exports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		if pdf != nil {
			if err := pdf.Close(); err != nil {
				slog.Warn("close browser", "error", err)
			}
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
