package core

// scheduler.go provides background maintenance for saved exports.
//
// When exports are written to an output directory, old files are purged
// periodically based on the retention window. The scheduler is long-running
// and context-aware for graceful shutdown. It logs failures but never stops
// the application because of them.

import (
	"context"
	"log/slog"
	"time"
)

// Purger deletes saved artefacts older than a cutoff and reports how many went.
type Purger interface {
	Purge(ctx context.Context, olderThan time.Time) (int, error)
}

// RetentionConfig holds configuration for the retention scheduler.
type RetentionConfig struct {
	Retention     time.Duration // Age after which saved exports are deleted (default: 7 days)
	CheckInterval time.Duration // How often to run (default: 1h)
}

func (c RetentionConfig) withDefaults() RetentionConfig {
	if c.Retention <= 0 {
		c.Retention = 7 * 24 * time.Hour
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = time.Hour
	}
	return c
}

// StartRetentionScheduler purges expired exports immediately and then every
// CheckInterval until ctx is cancelled.
func StartRetentionScheduler(ctx context.Context, p Purger, cfg RetentionConfig) {
	cfg = cfg.withDefaults()
	slog.Info("retention scheduler started",
		"retention", cfg.Retention.String(),
		"check_interval", cfg.CheckInterval.String(),
	)

	runRetentionJob(ctx, p, cfg, time.Now)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention scheduler stopped")
			return
		case <-ticker.C:
			runRetentionJob(ctx, p, cfg, time.Now)
		}
	}
}

// runRetentionJob performs one purge cycle.
func runRetentionJob(ctx context.Context, p Purger, cfg RetentionConfig, now func() time.Time) int {
	start := time.Now()
	cutoff := now().Add(-cfg.Retention)

	purged, err := p.Purge(ctx, cutoff)
	if err != nil {
		slog.Error("purge failed", "error", err)
		return purged
	}

	slog.Info("purged expired exports",
		"files_purged", purged,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return purged
}
