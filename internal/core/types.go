package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/dashview/internal/table"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// ResourceInfo describes one dashboard resource and where its records live.
type ResourceInfo struct {
	Key   string `json:"key"`   // Unique identifier: "audit_log"
	Group string `json:"group"` // Sidebar section: "People", "Operations"
	Label string `json:"label"` // Display name: "Audit Log"

	// Endpoint is the path under /api/ the REST source reads, e.g. "staff".
	Endpoint string `json:"endpoint"`

	// Table is the Postgres table (optionally schema-qualified) the PG source reads.
	Table string `json:"table"`

	KeyField    string              `json:"keyField"` // Defaults to "id"
	DefaultSort table.SortState     `json:"defaultSort"`
	PageSize    int                 `json:"pageSize,omitempty"` // 0 uses the configured default
	Selection   table.SelectionMode `json:"selection,omitempty"`
}

// NormalizeFunc reshapes a record after fetch, before it is cached.
type NormalizeFunc func(table.Record) table.Record

// ResourceDefinition contains everything needed to serve a resource's views.
type ResourceDefinition struct {
	Info      ResourceInfo
	Columns   []table.Column
	Normalize NormalizeFunc // Optional
}

// DefaultSortValid reports whether the default sort is unset or names a
// sortable column.
func (d ResourceDefinition) DefaultSortValid() bool {
	if !d.Info.DefaultSort.Active() {
		return true
	}
	for _, c := range d.Columns {
		if c.ID == d.Info.DefaultSort.ColumnID {
			return c.Sortable
		}
	}
	return false
}

// ColumnInfo is the client-facing description of a column.
type ColumnInfo struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	Sortable   bool     `json:"sortable"`
	Filterable bool     `json:"filterable"`
	Searchable bool     `json:"searchable"`
	EnumValues []string `json:"enumValues,omitempty"`
}

// columnInfos describes cols for clients.
func columnInfos(cols []table.Column) []ColumnInfo {
	out := make([]ColumnInfo, len(cols))
	for i, c := range cols {
		title := c.Title
		if title == "" {
			title = c.ID
		}
		out[i] = ColumnInfo{
			ID:         c.ID,
			Title:      title,
			Type:       c.ValueType().Name(),
			Sortable:   c.Sortable,
			Filterable: c.Filterable,
			Searchable: c.IsSearchable(),
			EnumValues: c.EnumValues,
		}
	}
	return out
}

// ViewResult is one computed page of a resource.
type ViewResult struct {
	Resource   ResourceInfo     `json:"resource"`
	Columns    []ColumnInfo     `json:"columns"`
	Rows       []table.Record   `json:"rows"`
	Cells      [][]any          `json:"cells"` // Column values per row, in Columns order
	Keys       []table.Key      `json:"keys"`
	Page       table.PageMeta   `json:"page"`
	Aggregates table.Aggregates `json:"aggregates,omitempty"`
	Query      table.Query      `json:"query"`
	FetchedAt  time.Time        `json:"fetchedAt"`

	// Set when the view is rendered against a selection session.
	Selection *SelectionState `json:"selection,omitempty"`
}

// SelectionState is a selection session seen from one page.
type SelectionState struct {
	ID          string      `json:"id"`
	Count       int         `json:"count"`
	Selected    []table.Key `json:"selected"`    // Selected keys on this page
	AllVisible  bool        `json:"allVisible"`  // Header checkbox checked
	SomeVisible bool        `json:"someVisible"` // Header checkbox indeterminate unless AllVisible
}

// Summary holds totals over every record of a resource.
type Summary struct {
	Resource   string           `json:"resource"`
	Total      int              `json:"total"`
	Aggregates table.Aggregates `json:"aggregates,omitempty"`
	FetchedAt  time.Time        `json:"fetchedAt"`
}
