package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Operator is a comparison applied by a column filter.
type Operator string

const (
	OpContains   Operator = "contains"
	OpEquals     Operator = "eq"
	OpStartsWith Operator = "starts"
	OpEndsWith   Operator = "ends"
	OpGreaterEq  Operator = "gte"
	OpLessEq     Operator = "lte"
	OpGreater    Operator = "gt"
	OpLess       Operator = "lt"
	OpIn         Operator = "in"
)

// ParseOperator validates an operator name.
func ParseOperator(s string) (Operator, bool) {
	switch op := Operator(strings.ToLower(strings.TrimSpace(s))); op {
	case OpContains, OpEquals, OpStartsWith, OpEndsWith,
		OpGreaterEq, OpLessEq, OpGreater, OpLess, OpIn:
		return op, true
	}
	return "", false
}

// Filter is the filter value for one column.
//
// With no Op, a single value means "contains" on text-like columns and
// "equals" otherwise, and several values mean "is one of".
type Filter struct {
	Op     Operator
	Values []string
}

// Value is a scalar filter whose meaning depends on the column type.
func Value(v string) Filter {
	return Filter{Values: []string{v}}
}

// OneOf keeps records whose cell is any of values.
func OneOf(values ...string) Filter {
	return Filter{Op: OpIn, Values: values}
}

// Where applies an explicit operator.
func Where(op Operator, v string) Filter {
	return Filter{Op: op, Values: []string{v}}
}

// ActiveValues returns the trimmed, non-blank filter values.
func (f Filter) ActiveValues() []string {
	var out []string
	for _, v := range f.Values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsActive reports whether the filter constrains anything.
func (f Filter) IsActive() bool {
	return len(f.ActiveValues()) > 0
}

// MarshalJSON writes a scalar as a string, a one-of list as an array and
// anything else as {"op": ..., "value": ...}.
func (f Filter) MarshalJSON() ([]byte, error) {
	switch {
	case f.Op == "" && len(f.Values) == 1:
		return json.Marshal(f.Values[0])
	case f.Op == "" || f.Op == OpIn:
		values := f.Values
		if values == nil {
			values = []string{}
		}
		return json.Marshal(values)
	case len(f.Values) == 1:
		return json.Marshal(struct {
			Op    Operator `json:"op"`
			Value string   `json:"value"`
		}{f.Op, f.Values[0]})
	default:
		return json.Marshal(struct {
			Op    Operator `json:"op"`
			Value []string `json:"value"`
		}{f.Op, f.Values})
	}
}

// UnmarshalJSON accepts the forms MarshalJSON writes. Scalars and array
// elements may be any JSON primitive.
func (f *Filter) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = Filter{}
		return nil
	}

	switch data[0] {
	case '[':
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("filter list: %w", err)
		}
		*f = OneOf(stringifyAll(raw)...)
		return nil

	case '{':
		var obj struct {
			Op    string          `json:"op"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("filter object: %w", err)
		}
		var inner Filter
		if len(obj.Value) > 0 {
			if err := inner.UnmarshalJSON(obj.Value); err != nil {
				return err
			}
		}
		if obj.Op != "" {
			op, ok := ParseOperator(obj.Op)
			if !ok {
				return fmt.Errorf("unknown filter operator %q", obj.Op)
			}
			inner.Op = op
		}
		*f = inner
		return nil

	default:
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("filter value: %w", err)
		}
		*f = Value(Stringify(raw))
		return nil
	}
}

func stringifyAll(raw []any) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = Stringify(v)
	}
	return out
}

// FilterState maps column IDs to their active filter.
type FilterState map[string]Filter

// Active returns the IDs of columns with an active filter, sorted.
func (fs FilterState) Active() []string {
	ids := make([]string, 0, len(fs))
	for id, f := range fs {
		if f.IsActive() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// predicate reports whether a record passes one filter.
type predicate func(Record) bool

// ApplyFilters keeps records that pass every active filter. Filters naming
// unknown or non-filterable columns are ignored, as are unknown operators.
// Order is preserved and records is not modified.
func (e *Engine) ApplyFilters(records []Record, fs FilterState) []Record {
	var preds []predicate
	for _, id := range fs.Active() {
		col, ok := e.columns.Get(id)
		if !ok || !col.Filterable {
			continue
		}
		if p := e.predicate(col, fs[id]); p != nil {
			preds = append(preds, p)
		}
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matchAll(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

func matchNone(Record) bool { return false }

func matchAll(r Record, preds []predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// predicate builds the match function for one column filter.
func (e *Engine) predicate(col Column, f Filter) predicate {
	values := f.ActiveValues()
	if len(values) == 0 {
		return nil
	}

	vt := col.ValueType()
	op := f.Op
	if op == "" {
		switch {
		case len(values) > 1:
			op = OpIn
		case vt.TextLike():
			op = OpContains
		default:
			op = OpEquals
		}
	}

	fold := cases.Fold()
	folded := make([]string, len(values))
	for i, v := range values {
		folded[i] = fold.String(v)
	}

	textMatch := func(match func(cell, needle string) bool) predicate {
		return func(r Record) bool {
			cell := fold.String(Stringify(col.Value(r)))
			for _, needle := range folded {
				if match(cell, needle) {
					return true
				}
			}
			return false
		}
	}

	compare := col.comparator(e.locale)

	// Values that cannot be read under the column type match nothing rather
	// than comparing as the type's zero value.
	typed := values
	if col.Compare == nil {
		typed = typed[:0:0]
		for _, v := range values {
			if parsesAs(vt, v) {
				typed = append(typed, v)
			}
		}
	}

	switch op {
	case OpContains:
		return textMatch(strings.Contains)
	case OpStartsWith:
		return textMatch(strings.HasPrefix)
	case OpEndsWith:
		return textMatch(strings.HasSuffix)

	case OpEquals, OpIn:
		if vt.TextLike() && col.Compare == nil {
			return func(r Record) bool {
				cell := Stringify(col.Value(r))
				for _, v := range values {
					if cell == v {
						return true
					}
				}
				return false
			}
		}
		if len(typed) == 0 {
			return matchNone
		}
		return func(r Record) bool {
			cell := col.Value(r)
			for _, v := range typed {
				if compare(cell, v) == 0 {
					return true
				}
			}
			return false
		}

	case OpGreater, OpGreaterEq, OpLess, OpLessEq:
		if len(typed) == 0 || typed[0] != values[0] {
			return matchNone
		}
		bound := values[0]
		return func(r Record) bool {
			c := compare(col.Value(r), bound)
			switch op {
			case OpGreater:
				return c > 0
			case OpGreaterEq:
				return c >= 0
			case OpLess:
				return c < 0
			default:
				return c <= 0
			}
		}
	}

	return nil
}
