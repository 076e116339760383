// Package config loads dashview settings from the environment.
// Every field has a default except where noted, and Load validates the
// result so misconfiguration fails at startup rather than on first request.
package config

import (
	"net"
	"strconv"
	"time"
)

// Source backends.
const (
	BackendAPI      = "api"
	BackendPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Source    SourceConfig
	Upstream  UpstreamConfig
	View      ViewConfig
	Selection SelectionConfig
	Refresh   RefreshConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout bounds a single request, upstream fetch included.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds Postgres pool settings.
//
// The URL is optional: without it presets are kept in memory. It is required
// when SOURCE_BACKEND=postgres.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// SourceConfig controls where records come from and how long they are cached.
type SourceConfig struct {
	// Backend is "api" (the dashboard REST API) or "postgres" (direct table reads).
	Backend string `env:"SOURCE_BACKEND" default:"api"`

	// CacheTTL is how long fetched records are served before refetching.
	CacheTTL time.Duration `env:"SOURCE_CACHE_TTL" default:"30s"`

	// CacheSize is the number of resources whose records are kept.
	CacheSize int `env:"SOURCE_CACHE_SIZE" default:"64"`

	// MaxConcurrent caps parallel fetches; MaxWaitTime is how long a caller
	// waits for a slot before getting ErrTooManyFetches.
	MaxConcurrent int           `env:"SOURCE_MAX_CONCURRENT" default:"4"`
	MaxWaitTime   time.Duration `env:"SOURCE_MAX_WAIT_TIME" default:"10s"`
}

// UpstreamConfig configures the REST API source.
type UpstreamConfig struct {
	BaseURL string        `env:"UPSTREAM_BASE_URL" envAlt:"API_BASE_URL" default:"http://localhost:3000"`
	APIKey  string        `env:"UPSTREAM_API_KEY"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT" default:"10s"`

	// RequestsPerSecond paces calls to the API; Burst allows short spikes.
	RequestsPerSecond float64 `env:"UPSTREAM_REQUESTS_PER_SECOND" default:"20"`
	Burst             int     `env:"UPSTREAM_BURST" default:"10"`
}

// ViewConfig holds table view defaults.
type ViewConfig struct {
	DefaultPageSize int `env:"VIEW_DEFAULT_PAGE_SIZE" default:"25"`
	MaxPageSize     int `env:"VIEW_MAX_PAGE_SIZE" default:"500"`

	// Locale is the BCP 47 tag used to collate text columns.
	Locale string `env:"VIEW_LOCALE" default:"en"`

	// MemoSize and MemoTTL bound the memo of computed views.
	MemoSize int           `env:"VIEW_MEMO_SIZE" default:"256"`
	MemoTTL  time.Duration `env:"VIEW_MEMO_TTL" default:"1m"`
}

// SelectionConfig bounds server-held selection sessions.
type SelectionConfig struct {
	TTL         time.Duration `env:"SELECTION_TTL" default:"30m"`
	MaxSessions int           `env:"SELECTION_MAX_SESSIONS" default:"1024"`
}

// RefreshConfig controls background cache warm-up.
type RefreshConfig struct {
	Enabled     bool          `env:"REFRESH_ENABLED" default:"true"`
	Interval    time.Duration `env:"REFRESH_INTERVAL" default:"5m"`
	Parallelism int           `env:"REFRESH_PARALLELISM" default:"3"`
}

// RateLimitConfig holds per-IP request limits.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
	Burst             int  `env:"RATE_LIMIT_BURST" default:"50"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Forwarded-For / X-Real-IP headers are believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey guards /api with the keys in API_KEYS.
	RequireAPIKey bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
