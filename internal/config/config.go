// Package config provides centralized configuration management for the importer.
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
	Import   ImportConfig
	Media    MediaConfig
	Storage  StorageConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings for the job API.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP / X-Forwarded-For headers are honored. Empty means headers
	// are never trusted.
	TrustedProxies []string `env:"SERVER_TRUSTED_PROXIES"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 20)
	MaxConns int `env:"DB_MAX_CONNS" default:"20"`

	// MinConns is the minimum number of connections to keep open (default: 4)
	MinConns int `env:"DB_MIN_CONNS" default:"4"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ImportConfig holds WXR import job settings.
type ImportConfig struct {
	// MaxFileSize is the maximum allowed WXR file size in bytes (default: 256MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"268435456"`

	// MaxConcurrent is the maximum number of import jobs running at once (default: 2)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long to wait for a job slot (default: 10s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"10s"`

	// Statuses is the default allow-list of WordPress post statuses to import
	// (default: publish)
	Statuses []string `env:"IMPORT_STATUSES" default:"publish"`

	// UploadDir is where uploaded WXR files are spooled before processing.
	// Empty means the system temp dir.
	UploadDir string `env:"IMPORT_UPLOAD_DIR"`
}

// MediaConfig holds media relocation settings.
type MediaConfig struct {
	// AllowedHosts is a comma-separated list of hosts media may be fetched
	// from. Entries may be bare domains or full URLs; subdomains of an entry
	// are allowed. Empty means no remote fetches.
	AllowedHosts []string `env:"MEDIA_ALLOWED_HOSTS"`

	// Concurrency is the number of parallel media fetch/upload workers (default: 4)
	Concurrency int `env:"MEDIA_CONCURRENCY" default:"4"`

	// FetchTimeout is the per-request timeout for remote media fetches (default: 30s)
	FetchTimeout time.Duration `env:"MEDIA_FETCH_TIMEOUT" default:"30s"`

	// LocalUploadsDir, when set together with SourceRootURL, enables
	// local-copy mode: media under SourceRootURL is copied from this
	// directory instead of fetched over the network.
	LocalUploadsDir string `env:"MEDIA_LOCAL_UPLOADS_DIR"`

	// SourceRootURL is the URL prefix that maps onto LocalUploadsDir.
	SourceRootURL string `env:"MEDIA_SOURCE_ROOT_URL"`

	// PlaceholderURL is the image shown in place of embeds that cannot be
	// imported (default: /media/import-placeholder.svg)
	PlaceholderURL string `env:"MEDIA_PLACEHOLDER_URL" default:"/media/import-placeholder.svg"`
}

// StorageConfig holds object storage settings for relocated media.
type StorageConfig struct {
	// Backend selects the storage implementation: "s3", "fs" or "disabled"
	// (default: disabled). When disabled, media is still processed and
	// counted but no URL mapping is produced.
	Backend string `env:"STORAGE_BACKEND" default:"disabled"`

	// Bucket is the S3 bucket name (required for the s3 backend)
	Bucket string `env:"STORAGE_BUCKET"`

	// Region is the S3 region (default: us-east-1)
	Region string `env:"STORAGE_REGION" default:"us-east-1"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores (MinIO etc.)
	Endpoint string `env:"STORAGE_ENDPOINT"`

	// PublicBaseURL is the base URL relocated media is served from.
	// Required for the fs backend; for s3 it overrides the derived bucket URL.
	PublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL"`

	// LocalDir is the root directory for the fs backend.
	LocalDir string `env:"STORAGE_LOCAL_DIR"`

	// KeyPrefix is prepended to every stored object key (default: media)
	KeyPrefix string `env:"STORAGE_KEY_PREFIX" default:"media"`
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

// LocalCopyEnabled reports whether local-copy mode is fully configured.
func (c *MediaConfig) LocalCopyEnabled() bool {
	return c.LocalUploadsDir != "" && c.SourceRootURL != ""
}
