package core

// presets.go stores saved views: a named search, filter set, sort and page
// size for one resource. Postgres keeps them in a JSONB column; without a
// database they live in memory for the life of the process.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/dashview/internal/table"
)

var (
	// ErrPresetNotFound is returned for unknown or malformed preset IDs.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrPresetExists is returned when a resource already has a preset by that name.
	ErrPresetExists = errors.New("preset already exists")

	// ErrPresetName is returned when a preset has no name.
	ErrPresetName = errors.New("preset name is required")
)

// Preset is a saved view. The page number is never stored; applying a
// preset always starts at page 1.
type Preset struct {
	ID        string      `json:"id"`
	Resource  string      `json:"resource"`
	Name      string      `json:"name"`
	Query     table.Query `json:"query"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// PresetStore persists presets.
type PresetStore interface {
	Create(ctx context.Context, p Preset) (*Preset, error)
	Get(ctx context.Context, id string) (*Preset, error)
	List(ctx context.Context, resource string) ([]Preset, error)
	Update(ctx context.Context, p Preset) (*Preset, error)
	Delete(ctx context.Context, id string) error
}

// normalizePreset trims the name and drops state that should not persist.
func normalizePreset(p Preset) (Preset, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return p, ErrPresetName
	}
	p.Query.Page.Number = 0
	return p, nil
}

// ----------------------------------------------------------------------------
// In-memory store
// ----------------------------------------------------------------------------

// MemoryPresetStore keeps presets in a map.
type MemoryPresetStore struct {
	mu      sync.RWMutex
	presets map[string]Preset
	now     func() time.Time
}

// NewMemoryPresetStore returns an empty store.
func NewMemoryPresetStore() *MemoryPresetStore {
	return &MemoryPresetStore{presets: make(map[string]Preset), now: time.Now}
}

func (m *MemoryPresetStore) nameTaken(resource, name, exceptID string) bool {
	for _, p := range m.presets {
		if p.ID != exceptID && p.Resource == resource && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (m *MemoryPresetStore) Create(_ context.Context, p Preset) (*Preset, error) {
	p, err := normalizePreset(p)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nameTaken(p.Resource, p.Name, "") {
		return nil, fmt.Errorf("%w: %q", ErrPresetExists, p.Name)
	}
	p.ID = uuid.NewString()
	p.CreatedAt = m.now().UTC()
	p.UpdatedAt = p.CreatedAt
	m.presets[p.ID] = p
	return &p, nil
}

func (m *MemoryPresetStore) Get(_ context.Context, id string) (*Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.presets[id]
	if !ok {
		return nil, ErrPresetNotFound
	}
	return &p, nil
}

func (m *MemoryPresetStore) List(_ context.Context, resource string) ([]Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Preset, 0)
	for _, p := range m.presets {
		if p.Resource == resource {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (m *MemoryPresetStore) Update(_ context.Context, p Preset) (*Preset, error) {
	p, err := normalizePreset(p)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.presets[p.ID]
	if !ok {
		return nil, ErrPresetNotFound
	}
	if m.nameTaken(cur.Resource, p.Name, p.ID) {
		return nil, fmt.Errorf("%w: %q", ErrPresetExists, p.Name)
	}
	cur.Name = p.Name
	cur.Query = p.Query
	cur.UpdatedAt = m.now().UTC()
	m.presets[cur.ID] = cur
	return &cur, nil
}

func (m *MemoryPresetStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.presets[id]; !ok {
		return ErrPresetNotFound
	}
	delete(m.presets, id)
	return nil
}

// ----------------------------------------------------------------------------
// Postgres store
// ----------------------------------------------------------------------------

// presetSchema creates the presets table. Names are unique per resource,
// ignoring case.
const presetSchema = `
CREATE TABLE IF NOT EXISTS view_presets (
    id         UUID PRIMARY KEY,
    resource   TEXT NOT NULL,
    name       TEXT NOT NULL,
    query      JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS view_presets_resource_name_unique
    ON view_presets (resource, lower(name));`

const presetColumns = `id, resource, name, query, created_at, updated_at`

// PGPresetStore keeps presets in the view_presets table.
type PGPresetStore struct {
	db DBTX
}

// NewPGPresetStore creates a store over a pool or transaction.
func NewPGPresetStore(db DBTX) *PGPresetStore {
	return &PGPresetStore{db: db}
}

// EnsureSchema creates the presets table if it is missing.
func (s *PGPresetStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, presetSchema); err != nil {
		return fmt.Errorf("create view_presets: %w", err)
	}
	return nil
}

func (s *PGPresetStore) Create(ctx context.Context, p Preset) (*Preset, error) {
	p, err := normalizePreset(p)
	if err != nil {
		return nil, err
	}
	query, err := json.Marshal(p.Query)
	if err != nil {
		return nil, fmt.Errorf("marshal preset query: %w", err)
	}

	row := s.db.QueryRow(ctx,
		`INSERT INTO view_presets (id, resource, name, query)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+presetColumns,
		pgUUID(uuid.New()), p.Resource, p.Name, query)

	out, err := scanPreset(row)
	if err != nil {
		return nil, presetError("create preset", p.Name, err)
	}
	return out, nil
}

func (s *PGPresetStore) Get(ctx context.Context, id string) (*Preset, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrPresetNotFound
	}

	row := s.db.QueryRow(ctx, `SELECT `+presetColumns+` FROM view_presets WHERE id = $1`, pgUUID(uid))
	out, err := scanPreset(row)
	if err != nil {
		return nil, presetError("get preset", id, err)
	}
	return out, nil
}

func (s *PGPresetStore) List(ctx context.Context, resource string) ([]Preset, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+presetColumns+` FROM view_presets WHERE resource = $1 ORDER BY lower(name)`, resource)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}

	presets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Preset, error) {
		p, err := scanPreset(row)
		if err != nil {
			return Preset{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	return presets, nil
}

func (s *PGPresetStore) Update(ctx context.Context, p Preset) (*Preset, error) {
	p, err := normalizePreset(p)
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(p.ID)
	if err != nil {
		return nil, ErrPresetNotFound
	}
	query, err := json.Marshal(p.Query)
	if err != nil {
		return nil, fmt.Errorf("marshal preset query: %w", err)
	}

	row := s.db.QueryRow(ctx,
		`UPDATE view_presets SET name = $2, query = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING `+presetColumns,
		pgUUID(uid), p.Name, query)

	out, err := scanPreset(row)
	if err != nil {
		return nil, presetError("update preset", p.Name, err)
	}
	return out, nil
}

func (s *PGPresetStore) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrPresetNotFound
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM view_presets WHERE id = $1`, pgUUID(uid))
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPresetNotFound
	}
	return nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// scanPreset reads one row in presetColumns order.
func scanPreset(row pgx.Row) (*Preset, error) {
	var (
		id        pgtype.UUID
		p         Preset
		query     []byte
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &p.Resource, &p.Name, &query, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(query, &p.Query); err != nil {
		return nil, fmt.Errorf("unmarshal preset query: %w", err)
	}
	if id.Valid {
		p.ID = uuid.UUID(id.Bytes).String()
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return &p, nil
}

// presetError maps driver errors to the preset sentinels.
func presetError(op, name string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPresetNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %q", ErrPresetExists, name)
	}
	return fmt.Errorf("%s: %w", op, err)
}
