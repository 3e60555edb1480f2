// Package application wires configuration to the table sources shared by
// the server and the command line.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/spreadtable/internal/config"
	"github.com/JonMunkholm/spreadtable/internal/core"
	"github.com/JonMunkholm/spreadtable/internal/source"
)

// Tables is a loaded manifest with its registry and, when any table needs
// one, the database pool.
type Tables struct {
	Manifest *source.Manifest
	Registry *core.Registry
	Pool     *pgxpool.Pool
}

// Close releases the database pool.
func (t *Tables) Close() {
	if t.Pool != nil {
		t.Pool.Close()
	}
}

// LoadTables reads the manifest at path and registers every table in it.
// The database is only contacted when the manifest declares a query table.
func LoadTables(ctx context.Context, cfg *config.Config, path string) (*Tables, error) {
	m, err := source.LoadManifest(path)
	if err != nil {
		return nil, err
	}

	t := &Tables{Manifest: m, Registry: core.NewRegistry()}

	var db source.Querier
	if m.NeedsDatabase() && cfg.Database.Enabled() {
		t.Pool, err = OpenDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		db = t.Pool
	}

	if err := m.Register(t.Registry, db); err != nil {
		t.Close()
		return nil, fmt.Errorf("register tables from %s: %w", path, err)
	}

	slog.Info("tables registered",
		"manifest", path,
		"count", t.Registry.Count(),
		"groups", len(t.Registry.Groups()),
	)
	for _, group := range t.Registry.Groups() {
		slog.Debug("table group", "group", group, "tables", len(t.Registry.ByGroup(group)))
	}
	return t, nil
}

// OpenDatabase creates a connection pool and checks it with a ping.
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
