// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Source kinds.
const (
	SourceSheets = "sheets"
	SourceFile   = "file"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Project  ProjectConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 5000)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"5000"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 45s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"45s"`
}

// SourceConfig describes where participant rows are fetched from.
type SourceConfig struct {
	// Kind selects the row source: sheets or file (default: sheets)
	Kind string `env:"SOURCE_KIND" default:"sheets"`

	// SpreadsheetID is the Google spreadsheet key (required when Kind is sheets)
	SpreadsheetID string `env:"SPREADSHEET_ID" envAlt:"GOOGLE_SHEET_ID"`

	// CredentialsPath is the service account key file (default: credentials.json)
	CredentialsPath string `env:"GOOGLE_CREDENTIALS_PATH" default:"credentials.json"`

	// Worksheet is the tab holding the participant table
	Worksheet string `env:"SOURCE_WORKSHEET" default:"TABELA - BASE DE DADOS"`

	// FilePath is a local .xlsx or .csv export (required when Kind is file)
	FilePath string `env:"SOURCE_FILE"`

	// FileEncoding is the character set of CSV exports: utf-8 or latin1 (default: utf-8)
	FileEncoding string `env:"SOURCE_FILE_ENCODING" default:"utf-8"`

	// FetchTimeout bounds a single fetch against the source (default: 30s)
	FetchTimeout time.Duration `env:"SOURCE_FETCH_TIMEOUT" default:"30s"`

	// MaxConcurrent is the maximum number of parallel fetches (default: 4)
	MaxConcurrent int `env:"SOURCE_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long a request waits for a fetch slot (default: 10s)
	MaxWait time.Duration `env:"SOURCE_MAX_WAIT" default:"10s"`
}

// ProjectConfig holds program-level reference values.
type ProjectConfig struct {
	// Target is the enrollment goal used for the completion ratio (default: 23500)
	Target int `env:"PROJECT_TARGET" default:"23500"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 60)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"60"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// AllowedOrigins is the CORS origin allow list (default: *)
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"*"`
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
