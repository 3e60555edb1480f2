// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Grid     GridConfig
	Export   ExportConfig
	PDF      PDFConfig
	Sources  SourcesConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds settings for tables backed by PostgreSQL queries.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Optional: without it,
	// manifest entries of type "postgres" are rejected.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// GridConfig holds the page lengths of the two grid presets.
type GridConfig struct {
	// FilterPageLength is rows per page for grids with column search inputs (default: 50)
	FilterPageLength int `env:"GRID_FILTER_PAGE_LENGTH" default:"50"`

	// ToolbarPageLength is rows per page for grids with the export toolbar (default: 20)
	ToolbarPageLength int `env:"GRID_TOOLBAR_PAGE_LENGTH" default:"20"`
}

// ExportConfig holds spreadsheet export settings.
type ExportConfig struct {
	// DefaultFilename is used when a request names no file (default: ResumoSpreads.xlsx)
	DefaultFilename string `env:"EXPORT_DEFAULT_FILENAME" default:"ResumoSpreads.xlsx"`

	// SheetName is the worksheet name (default: Resumo)
	SheetName string `env:"EXPORT_SHEET_NAME" default:"Resumo"`

	// MissingTableMessage is the alert shown when the table is not loaded
	MissingTableMessage string `env:"EXPORT_MISSING_TABLE_MESSAGE" default:"Tabela não carregada ainda."`

	// MaxConcurrent is the maximum number of workbook or PDF renders in flight (default: 4)
	MaxConcurrent int `env:"EXPORT_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a request waits for a render slot (default: 10s)
	MaxWaitTime time.Duration `env:"EXPORT_MAX_WAIT_TIME" default:"10s"`

	// OutputDir, when set, keeps a copy of every export on disk
	OutputDir string `env:"EXPORT_OUTPUT_DIR"`

	// Retention is how long stored exports are kept (default: 168h)
	Retention time.Duration `env:"EXPORT_RETENTION" default:"168h"`

	// PurgeInterval is how often stored exports are checked (default: 1h)
	PurgeInterval time.Duration `env:"EXPORT_PURGE_INTERVAL" default:"1h"`
}

// PDFConfig holds headless Chromium settings for the PDF toolbar button.
type PDFConfig struct {
	// Enabled turns PDF export on (default: false)
	Enabled bool `env:"PDF_ENABLED" default:"false"`

	// BrowserPath is the Chromium executable; empty searches the PATH
	BrowserPath string `env:"PDF_BROWSER_PATH"`

	// Timeout bounds a single render (default: 30s)
	Timeout time.Duration `env:"PDF_TIMEOUT" default:"30s"`

	// Args are extra browser flags, comma separated
	Args []string `env:"PDF_BROWSER_ARGS"`
}

// SourcesConfig locates the table definitions.
type SourcesConfig struct {
	// Manifest is the YAML file declaring the tables (default: tables.yaml)
	Manifest string `env:"TABLES_MANIFEST" default:"tables.yaml"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ExportLimit is requests per minute for export endpoints (default: 20)
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the /api routes with an API key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
