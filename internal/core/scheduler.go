package core

// scheduler.go keeps the record cache warm in the background.
//
// The refresh job refetches every registered resource so that interactive
// views are served from cache. Failures are logged per resource and never
// stop the scheduler; the next tick tries again.

import (
	"context"
	"log/slog"
	"time"
)

// defaultRefreshInterval is used when StartRefreshScheduler gets a
// non-positive interval.
const defaultRefreshInterval = 5 * time.Minute

// StartRefreshScheduler refreshes every resource immediately, then every
// interval until ctx is cancelled. It blocks; run it in a goroutine.
func (s *Service) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	slog.Info("refresh scheduler started",
		"interval", interval.String(),
		"parallelism", s.opts.RefreshParallelism,
		"resources", ResourceCount(),
	)

	// Run immediately on startup
	s.runRefreshJob(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.runRefreshJob(ctx)
		}
	}
}

// runRefreshJob performs one refresh cycle.
func (s *Service) runRefreshJob(ctx context.Context) {
	start := time.Now()
	if err := s.RefreshAll(ctx); err != nil {
		slog.Error("refresh job completed with errors",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	slog.Info("refresh job completed", "duration_ms", time.Since(start).Milliseconds())
}
