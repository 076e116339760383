package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/dashview/internal/table"
)

// Options tunes the Service. Zero values fall back to the defaults below.
type Options struct {
	Locale language.Tag

	CacheTTL  time.Duration // How long fetched records are served (default: 30s)
	CacheSize int           // Resources kept in the record cache (default: 64)

	MemoSize int           // Computed views kept (default: 256)
	MemoTTL  time.Duration // How long a computed view is reused (default: 1m)

	MaxConcurrentFetches int
	FetchWait            time.Duration
	FetchTimeout         time.Duration // Bounds one shared fetch (default: 30s)

	DefaultPageSize int // Used when neither the query nor the resource sets one (default: 25)
	MaxPageSize     int // Larger requested sizes are clamped (default: 500)

	SelectionTTL         time.Duration // Idle lifetime of a selection session (default: 30m)
	SelectionMaxSessions int           // default: 1024

	RefreshParallelism int // Concurrent fetches during RefreshAll (default: 3)
}

func (o Options) withDefaults() Options {
	if o.Locale == language.Und {
		o.Locale = language.English
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 30 * time.Second
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 64
	}
	if o.MemoSize <= 0 {
		o.MemoSize = 256
	}
	if o.MemoTTL <= 0 {
		o.MemoTTL = time.Minute
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 30 * time.Second
	}
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = 25
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = 500
	}
	if o.SelectionTTL <= 0 {
		o.SelectionTTL = 30 * time.Minute
	}
	if o.SelectionMaxSessions <= 0 {
		o.SelectionMaxSessions = 1024
	}
	if o.RefreshParallelism <= 0 {
		o.RefreshParallelism = 3
	}
	return o
}

// snapshot is one fetch of a resource. Generation increases with every fetch
// and keys the view memo, so a refresh never serves views of older records.
type snapshot struct {
	records    []table.Record
	generation uint64
	fetchedAt  time.Time
}

// Service serves computed views of the registered resources.
type Service struct {
	source     Source
	presets    PresetStore
	selections *SelectionStore
	limiter    *FetchLimiter
	opts       Options

	records    *expirable.LRU[string, *snapshot]
	views      *expirable.LRU[string, ViewResult]
	fetches    singleflight.Group
	generation atomic.Uint64

	enginesMu sync.Mutex
	engines   map[string]*table.Engine
}

// NewService creates a Service reading records from source and saving
// presets to presets.
func NewService(source Source, presets PresetStore, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		source:     source,
		presets:    presets,
		selections: NewSelectionStore(opts.SelectionMaxSessions, opts.SelectionTTL),
		limiter:    NewFetchLimiter(opts.MaxConcurrentFetches, opts.FetchWait),
		opts:       opts,
		records:    expirable.NewLRU[string, *snapshot](opts.CacheSize, nil, opts.CacheTTL),
		views:      expirable.NewLRU[string, ViewResult](opts.MemoSize, nil, opts.MemoTTL),
		engines:    make(map[string]*table.Engine),
	}
}

// ListResources returns information about all registered resources.
func (s *Service) ListResources() []ResourceInfo {
	defs := All()
	infos := make([]ResourceInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// ListResourcesByGroup returns resources organized by group.
func (s *Service) ListResourcesByGroup() map[string][]ResourceInfo {
	result := make(map[string][]ResourceInfo)
	for _, group := range Groups() {
		for _, def := range ByGroup(group) {
			result[group] = append(result[group], def.Info)
		}
	}
	return result
}

// Columns describes a resource's columns.
func (s *Service) Columns(resource string) ([]ColumnInfo, error) {
	def, err := s.definition(resource)
	if err != nil {
		return nil, err
	}
	return columnInfos(def.Columns), nil
}

// Refresh drops the cached records of a resource and fetches them again.
func (s *Service) Refresh(ctx context.Context, resource string) (*Summary, error) {
	def, err := s.definition(resource)
	if err != nil {
		return nil, err
	}

	s.records.Remove(def.Info.Key)
	s.fetches.Forget(def.Info.Key)

	snap, err := s.load(ctx, def)
	if err != nil {
		return nil, err
	}
	return s.summarize(def, snap)
}

// RefreshAll refreshes every resource, at most RefreshParallelism at a time.
// A failing resource does not stop the others; all failures are returned.
func (s *Service) RefreshAll(ctx context.Context) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(s.opts.RefreshParallelism)

	for _, def := range All() {
		key := def.Info.Key
		g.Go(func() error {
			start := time.Now()
			sum, err := s.Refresh(ctx, key)
			if err != nil {
				slog.Warn("refresh failed", "resource", key, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				mu.Unlock()
				return nil
			}
			slog.Debug("refreshed resource",
				"resource", key,
				"records", sum.Total,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		})
	}

	_ = g.Wait()
	return errors.Join(errs...)
}

// Selections returns the selection session store.
func (s *Service) Selections() *SelectionStore {
	return s.selections
}

// ServiceStatus is a snapshot for the status endpoint.
type ServiceStatus struct {
	Resources       int           `json:"resources"`
	CachedResources int           `json:"cachedResources"`
	MemoizedViews   int           `json:"memoizedViews"`
	Selections      int           `json:"selections"`
	Fetches         LimiterStatus `json:"fetches"`
}

// Status reports cache and limiter usage.
func (s *Service) Status() ServiceStatus {
	return ServiceStatus{
		Resources:       ResourceCount(),
		CachedResources: s.records.Len(),
		MemoizedViews:   s.views.Len(),
		Selections:      s.selections.Len(),
		Fetches:         s.limiter.Status(),
	}
}

// definition looks a resource up in the registry.
func (s *Service) definition(resource string) (ResourceDefinition, error) {
	def, ok := Get(resource)
	if !ok {
		return ResourceDefinition{}, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	return def, nil
}

// engine returns the resource's engine, building it on first use.
func (s *Service) engine(def ResourceDefinition) (*table.Engine, error) {
	s.enginesMu.Lock()
	defer s.enginesMu.Unlock()

	if e, ok := s.engines[def.Info.Key]; ok {
		return e, nil
	}
	e, err := table.New(def.Columns,
		table.WithLocale(s.opts.Locale),
		table.WithKeyField(def.Info.KeyField),
	)
	if err != nil {
		return nil, fmt.Errorf("resource %s: %w", def.Info.Key, err)
	}
	s.engines[def.Info.Key] = e
	return e, nil
}

// load returns the cached records of a resource, fetching them on a miss.
// Concurrent misses for the same resource share one fetch. The shared fetch
// is detached from the caller that started it and bounded by FetchTimeout,
// so one caller giving up does not fail the others.
func (s *Service) load(ctx context.Context, def ResourceDefinition) (*snapshot, error) {
	key := def.Info.Key
	if snap, ok := s.records.Get(key); ok {
		return snap, nil
	}

	ch := s.fetches.DoChan(key, func() (any, error) {
		if snap, ok := s.records.Get(key); ok {
			return snap, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.FetchTimeout)
		defer cancel()

		if err := s.limiter.Acquire(fetchCtx); err != nil {
			return nil, err
		}
		defer s.limiter.Release()

		records, err := s.source.Fetch(fetchCtx, def.Info)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", key, err)
		}
		if def.Normalize != nil {
			for i, r := range records {
				records[i] = def.Normalize(r)
			}
		}

		snap := &snapshot{
			records:    records,
			generation: s.generation.Add(1),
			fetchedAt:  time.Now().UTC(),
		}
		s.records.Add(key, snap)
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*snapshot), nil
	}
}

// summarize computes totals over every record of a snapshot.
func (s *Service) summarize(def ResourceDefinition, snap *snapshot) (*Summary, error) {
	e, err := s.engine(def)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Resource:   def.Info.Key,
		Total:      len(snap.records),
		Aggregates: e.Aggregate(snap.records),
		FetchedAt:  snap.fetchedAt,
	}, nil
}
