package table

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

var (
	// ErrEmptyColumnID is returned when a column is declared without an ID.
	ErrEmptyColumnID = errors.New("column id is required")

	// ErrDuplicateColumn is returned when two columns share an ID.
	ErrDuplicateColumn = errors.New("duplicate column id")
)

// Accessor reads a cell value out of a record.
type Accessor func(Record) any

// Column declares one column of a view.
type Column struct {
	ID    string // Unique within a column set
	Title string // Header label

	// Field is the record field or dotted path to read. Defaults to ID.
	// Ignored when Accessor is set.
	Field    string
	Accessor Accessor

	Type ValueType // Defaults to Text

	// Compare overrides the value type's comparator when set.
	Compare func(a, b any) int

	Sortable   bool
	Filterable bool

	// Searchable overrides the default, which is to search Text columns only.
	Searchable *bool

	EnumValues []string // Declared order for Enum columns
}

// Value returns the column's cell for r.
func (c Column) Value(r Record) any {
	if c.Accessor != nil {
		return c.Accessor(r)
	}
	field := c.Field
	if field == "" {
		field = c.ID
	}
	return Lookup(r, field)
}

// ValueType returns the column's type, defaulting to Text.
func (c Column) ValueType() ValueType {
	if c.Type == nil {
		return Text
	}
	return c.Type
}

// IsSearchable reports whether free-text search looks at this column by default.
func (c Column) IsSearchable() bool {
	if c.Searchable != nil {
		return *c.Searchable
	}
	return c.ValueType().Name() == Text.Name()
}

// comparator picks Column.Compare over the value type strategy.
func (c Column) comparator(locale language.Tag) Comparator {
	if c.Compare != nil {
		return c.Compare
	}
	return c.ValueType().Comparator(c, locale)
}

// Lookup reads a field from r. A path containing dots walks nested maps
// ("owner.email") unless r has a literal key with that name. Missing fields
// and paths through non-map values return nil.
func Lookup(r Record, path string) any {
	if r == nil {
		return nil
	}
	if v, ok := r[path]; ok {
		return v
	}
	if !strings.Contains(path, ".") {
		return nil
	}

	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case map[string]any:
			cur = m[part]
		case Record:
			cur = m[part]
		default:
			return nil
		}
	}
	return cur
}

// ColumnSet is an ordered, validated set of columns indexed by ID.
type ColumnSet struct {
	cols []Column
	byID map[string]int
}

// NewColumnSet validates that every column has a unique, non-empty ID.
func NewColumnSet(cols []Column) (*ColumnSet, error) {
	set := &ColumnSet{
		cols: slices.Clone(cols),
		byID: make(map[string]int, len(cols)),
	}
	for i, col := range set.cols {
		if strings.TrimSpace(col.ID) == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyColumnID)
		}
		if _, exists := set.byID[col.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.ID)
		}
		set.byID[col.ID] = i
	}
	return set, nil
}

// Get returns the column with the given ID.
func (s *ColumnSet) Get(id string) (Column, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Column{}, false
	}
	return s.cols[i], true
}

// All returns the columns in declaration order.
func (s *ColumnSet) All() []Column {
	return slices.Clone(s.cols)
}

// Len returns the number of columns.
func (s *ColumnSet) Len() int {
	return len(s.cols)
}
