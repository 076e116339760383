package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/dashview/internal/config"
	"github.com/JonMunkholm/dashview/internal/core"
	_ "github.com/JonMunkholm/dashview/internal/core/resources" // Register all resources
	"github.com/JonMunkholm/dashview/internal/logging"
	"github.com/JonMunkholm/dashview/internal/web"
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

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source_backend", cfg.Source.Backend,
		"database", cfg.Database.URL != "",
		"refresh_enabled", cfg.Refresh.Enabled,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		pool, err = connect(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	}

	presets, err := newPresetStore(ctx, pool)
	if err != nil {
		slog.Error("failed to prepare preset store", "error", err)
		os.Exit(1)
	}

	source, err := newSource(cfg, pool)
	if err != nil {
		slog.Error("failed to create record source", "error", err)
		os.Exit(1)
	}

	// Validate already checked the locale.
	locale := language.MustParse(cfg.View.Locale)

	service := core.NewService(source, presets, core.Options{
		Locale:               locale,
		CacheTTL:             cfg.Source.CacheTTL,
		CacheSize:            cfg.Source.CacheSize,
		MemoSize:             cfg.View.MemoSize,
		MemoTTL:              cfg.View.MemoTTL,
		MaxConcurrentFetches: cfg.Source.MaxConcurrent,
		FetchWait:            cfg.Source.MaxWaitTime,
		FetchTimeout:         cfg.Upstream.Timeout,
		DefaultPageSize:      cfg.View.DefaultPageSize,
		MaxPageSize:          cfg.View.MaxPageSize,
		SelectionTTL:         cfg.Selection.TTL,
		SelectionMaxSessions: cfg.Selection.MaxSessions,
		RefreshParallelism:   cfg.Refresh.Parallelism,
	})

	slog.Info("resources registered",
		"count", core.ResourceCount(),
		"groups", len(core.Groups()),
	)
	for _, group := range core.Groups() {
		slog.Debug("resource group", "group", group, "resources", len(core.ByGroup(group)))
	}

	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	if cfg.Refresh.Enabled {
		go service.StartRefreshScheduler(jobCtx, cfg.Refresh.Interval)
	}

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

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// connect opens and pings a connection pool.
func connect(ctx context.Context, dbCfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dbCfg.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(dbCfg.MaxConns)
	poolConfig.MinConns = int32(dbCfg.MinConns)
	poolConfig.MaxConnLifetime = dbCfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = dbCfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// Log which database we connected to
	if u, err := url.Parse(dbCfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}

// newPresetStore keeps presets in Postgres when a pool is available and in
// memory otherwise.
func newPresetStore(ctx context.Context, pool *pgxpool.Pool) (core.PresetStore, error) {
	if pool == nil {
		slog.Warn("no database configured, saved views will not survive a restart")
		return core.NewMemoryPresetStore(), nil
	}
	store := core.NewPGPresetStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// newSource picks the record source for the configured backend.
func newSource(cfg *config.Config, pool *pgxpool.Pool) (core.Source, error) {
	if cfg.Source.Backend == config.BackendPostgres {
		return core.NewPGSource(pool), nil
	}
	return core.NewAPISource(
		cfg.Upstream.BaseURL,
		cfg.Upstream.APIKey,
		cfg.Upstream.Timeout,
		cfg.Upstream.RequestsPerSecond,
		cfg.Upstream.Burst,
	)
}
