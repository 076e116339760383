package table

import (
	"slices"

	"golang.org/x/text/language"
)

// DefaultKeyField is the record field that identifies a record.
const DefaultKeyField = "id"

// Engine runs the view pipeline over one column set. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	columns  *ColumnSet
	locale   language.Tag
	keyField string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocale sets the collation locale for text comparison (default: English).
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) {
		e.locale = tag
	}
}

// WithKeyField sets the field that identifies records (default: "id").
func WithKeyField(field string) Option {
	return func(e *Engine) {
		if field != "" {
			e.keyField = field
		}
	}
}

// New validates columns and returns an Engine over them.
func New(columns []Column, opts ...Option) (*Engine, error) {
	set, err := NewColumnSet(columns)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		columns:  set,
		locale:   language.English,
		keyField: DefaultKeyField,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Columns returns the engine's columns in declaration order.
func (e *Engine) Columns() []Column {
	return e.columns.All()
}

// Column returns a column by ID.
func (e *Engine) Column(id string) (Column, bool) {
	return e.columns.Get(id)
}

// Locale returns the collation locale.
func (e *Engine) Locale() language.Tag {
	return e.locale
}

// KeyField returns the field that identifies records.
func (e *Engine) KeyField() string {
	return e.keyField
}

// Key returns the identity of r.
func (e *Engine) Key(r Record) Key {
	return Key(Stringify(Lookup(r, e.keyField)))
}

// Keys returns the identity of each record, in order.
func (e *Engine) Keys(records []Record) []Key {
	keys := make([]Key, len(records))
	for i, r := range records {
		keys[i] = e.Key(r)
	}
	return keys
}

// Run executes search, column filters, sort and pagination in that order.
// Page totals and aggregates are computed from every match before slicing.
func (e *Engine) Run(records []Record, q Query) (View, error) {
	if err := q.Page.Validate(); err != nil {
		return View{}, err
	}

	matched := e.ApplySearch(records, q.Search, q.SearchIn...)
	matched = e.ApplyFilters(matched, q.Filters)
	ordered := e.ApplySort(matched, q.Sort, q.ThenBy...)

	visible, err := e.ApplyPagination(ordered, q.Page)
	if err != nil {
		return View{}, err
	}

	return View{
		Records:    visible,
		Keys:       e.Keys(visible),
		Page:       NewPageMeta(len(ordered), q.Page),
		Aggregates: e.Aggregate(ordered),
	}, nil
}

// Distinct returns the distinct non-empty stringified values of a column,
// ordered by the column's comparator. Useful for filter option lists.
// Returns nil for an unknown column.
func (e *Engine) Distinct(records []Record, columnID string) []string {
	col, ok := e.columns.Get(columnID)
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	values := []string{}
	for _, r := range records {
		s := Stringify(col.Value(r))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		values = append(values, s)
	}

	compare := col.comparator(e.locale)
	slices.SortStableFunc(values, func(a, b string) int {
		return compare(a, b)
	})
	return values
}
