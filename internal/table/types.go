package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPage is returned when a page number or page size is below one.
var ErrInvalidPage = errors.New("invalid page")

// Record is one row of data: field name to value. Values may be strings,
// numbers, booleans, times or nested maps reachable by dotted path.
type Record map[string]any

// Key identifies a record within a resource. It is the string form of the
// record's key field.
type Key string

// Direction is a sort direction. The zero value sorts ascending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps "asc"/"desc" (any case) to a Direction.
// Anything else is the unset direction, which sorts ascending.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc
	case "desc":
		return Desc
	default:
		return ""
	}
}

// SortState names the column to sort by. An empty ColumnID means unsorted.
type SortState struct {
	ColumnID  string    `json:"columnId,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Active reports whether s names a column.
func (s SortState) Active() bool {
	return s.ColumnID != ""
}

// PageState selects one page of results. Number is 1-based.
type PageState struct {
	Number int `json:"number"`
	Size   int `json:"size"`
}

// Validate rejects page numbers and sizes below one.
func (p PageState) Validate() error {
	if p.Number < 1 {
		return fmt.Errorf("%w: page number %d must be >= 1", ErrInvalidPage, p.Number)
	}
	if p.Size < 1 {
		return fmt.Errorf("%w: page size %d must be >= 1", ErrInvalidPage, p.Size)
	}
	return nil
}

// PageMeta describes a page relative to the full filtered result.
type PageMeta struct {
	Number     int `json:"number"`
	Size       int `json:"size"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// NewPageMeta computes page totals for totalItems results.
func NewPageMeta(totalItems int, page PageState) PageMeta {
	return PageMeta{
		Number:     page.Number,
		Size:       page.Size,
		TotalItems: totalItems,
		TotalPages: TotalPages(totalItems, page.Size),
	}
}

// TotalPages is ceil(totalItems / pageSize). A non-positive page size yields 0.
func TotalPages(totalItems, pageSize int) int {
	if pageSize < 1 || totalItems < 1 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// HasNext reports whether a page follows this one.
func (m PageMeta) HasNext() bool {
	return m.Number < m.TotalPages
}

// HasPrev reports whether a page precedes this one.
func (m PageMeta) HasPrev() bool {
	return m.Number > 1
}

// Query is the complete input to one pipeline run.
type Query struct {
	Search   string      `json:"search,omitempty"`
	SearchIn []string    `json:"searchIn,omitempty"` // Empty means every searchable column
	Filters  FilterState `json:"filters,omitempty"`
	Sort     SortState   `json:"sort"`
	ThenBy   []SortState `json:"thenBy,omitempty"` // Tie-break levels after Sort
	Page     PageState   `json:"page"`
}

// View is the output of one pipeline run.
type View struct {
	Records    []Record   // Records on the requested page
	Keys       []Key      // Keys of Records, same order
	Page       PageMeta   // TotalItems counts every match, not just this page
	Aggregates Aggregates // Totals over every match for Number columns
}
