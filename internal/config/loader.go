package config

import (
	"fmt"
	"net"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/text/language"
)

// Load reads configuration from environment variables, applies defaults and
// validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// normalize canonicalizes values that are matched case-insensitively.
func (c *Config) normalize() {
	c.Source.Backend = strings.ToLower(strings.TrimSpace(c.Source.Backend))
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

var durationType = reflect.TypeOf(time.Duration(0))

// loadStruct walks v's fields, recursing into nested section structs.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value, ok := lookupEnv(envName, field.Tag.Get("envAlt"))
		if !ok {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// lookupEnv returns the first non-empty value of name or alt.
func lookupEnv(name, alt string) (string, bool) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v, true
	}
	if alt != "" {
		if v := strings.TrimSpace(os.Getenv(alt)); v != "" {
			return v, true
		}
	}
	return "", false
}

// setField converts value to field's type.
func setField(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		i, err := cast.ToInt64E(value)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Float64:
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return fmt.Errorf("invalid number: %w", err)
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		var items []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		field.Set(reflect.ValueOf(items))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks cross-field constraints and returns every failure at once.
func (c *Config) Validate() error {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		fail("SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		fail("SERVER_READ_TIMEOUT and SERVER_WRITE_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		fail("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		fail("SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Database
	if c.Database.URL != "" {
		if c.Database.MaxConns <= 0 {
			fail("DB_MAX_CONNS must be positive")
		}
		if c.Database.MinConns < 0 {
			fail("DB_MIN_CONNS must be non-negative")
		}
		if c.Database.MaxConns < c.Database.MinConns {
			fail("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", c.Database.MaxConns, c.Database.MinConns)
		}
	}

	// Source
	switch c.Source.Backend {
	case BackendAPI:
		if c.Upstream.BaseURL == "" {
			fail("UPSTREAM_BASE_URL is required when SOURCE_BACKEND=api")
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			fail("DATABASE_URL is required when SOURCE_BACKEND=postgres")
		}
	default:
		fail("SOURCE_BACKEND (%q) must be one of: api, postgres", c.Source.Backend)
	}
	if c.Source.CacheTTL <= 0 {
		fail("SOURCE_CACHE_TTL must be positive")
	}
	if c.Source.CacheSize <= 0 {
		fail("SOURCE_CACHE_SIZE must be positive")
	}
	if c.Source.MaxConcurrent <= 0 {
		fail("SOURCE_MAX_CONCURRENT must be positive")
	}
	if c.Source.MaxWaitTime <= 0 {
		fail("SOURCE_MAX_WAIT_TIME must be positive")
	}

	// Upstream
	if c.Upstream.Timeout <= 0 {
		fail("UPSTREAM_TIMEOUT must be positive")
	}
	if c.Upstream.RequestsPerSecond <= 0 || c.Upstream.Burst <= 0 {
		fail("UPSTREAM_REQUESTS_PER_SECOND and UPSTREAM_BURST must be positive")
	}

	// View
	if c.View.DefaultPageSize <= 0 {
		fail("VIEW_DEFAULT_PAGE_SIZE must be positive")
	}
	if c.View.MaxPageSize < c.View.DefaultPageSize {
		fail("VIEW_MAX_PAGE_SIZE (%d) must be >= VIEW_DEFAULT_PAGE_SIZE (%d)", c.View.MaxPageSize, c.View.DefaultPageSize)
	}
	if _, err := language.Parse(c.View.Locale); err != nil {
		fail("VIEW_LOCALE (%q) is not a valid language tag", c.View.Locale)
	}
	if c.View.MemoSize <= 0 || c.View.MemoTTL <= 0 {
		fail("VIEW_MEMO_SIZE and VIEW_MEMO_TTL must be positive")
	}

	// Selection
	if c.Selection.TTL <= 0 {
		fail("SELECTION_TTL must be positive")
	}
	if c.Selection.MaxSessions <= 0 {
		fail("SELECTION_MAX_SESSIONS must be positive")
	}

	// Refresh
	if c.Refresh.Enabled {
		if c.Refresh.Interval <= 0 {
			fail("REFRESH_INTERVAL must be positive when refresh is enabled")
		}
		if c.Refresh.Parallelism <= 0 {
			fail("REFRESH_PARALLELISM must be positive when refresh is enabled")
		}
	}

	// Rate limit
	if c.Rate.Enabled && (c.Rate.RequestsPerMinute <= 0 || c.Rate.Burst <= 0) {
		fail("RATE_LIMIT_REQUESTS_PER_MINUTE and RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}

	// Security
	for _, cidr := range c.Security.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil && net.ParseIP(cidr) == nil {
			fail("TRUSTED_PROXIES entry %q is not a CIDR or IP", cidr)
		}
	}
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		fail("REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}

	// Logging
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		fail("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		fail("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a representation safe for logs. The database URL and the
// API keys are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Server: {Addr: %q}, ", c.Server.Addr())
	fmt.Fprintf(&b, "Database: {URL: %s, MaxConns: %d}, ", mask(c.Database.URL), c.Database.MaxConns)
	fmt.Fprintf(&b, "Source: {Backend: %q, CacheTTL: %s}, ", c.Source.Backend, c.Source.CacheTTL)
	fmt.Fprintf(&b, "Upstream: {BaseURL: %q, APIKey: %s}, ", c.Upstream.BaseURL, mask(c.Upstream.APIKey))
	fmt.Fprintf(&b, "View: {DefaultPageSize: %d, Locale: %q}, ", c.View.DefaultPageSize, c.View.Locale)
	fmt.Fprintf(&b, "Refresh: {Enabled: %v, Interval: %s}, ", c.Refresh.Enabled, c.Refresh.Interval)
	fmt.Fprintf(&b, "Rate: {Enabled: %v, RequestsPerMinute: %d}, ", c.Rate.Enabled, c.Rate.RequestsPerMinute)
	fmt.Fprintf(&b, "Security: {RequireAPIKey: %v, APIKeys: %d}, ", c.Security.RequireAPIKey, len(c.Security.APIKeys))
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}

func mask(s string) string {
	if s == "" {
		return "[unset]"
	}
	return "[MASKED]"
}
