// Package resources registers the dashboard's resources with the core
// registry. Import it for side effects.
package resources

import (
	"strings"

	"github.com/JonMunkholm/dashview/internal/table"
)

// col is a sortable, filterable column of the given type.
func col(id, title string, vt table.ValueType) table.Column {
	return table.Column{ID: id, Title: title, Type: vt, Sortable: true, Filterable: true}
}

// enum is a sortable, filterable enum column in declared order.
func enum(id, title string, values ...string) table.Column {
	return table.Column{ID: id, Title: title, Type: table.Enum, Sortable: true, Filterable: true, EnumValues: values}
}

// lowerField lower-cases a string field in place so enum ranks match.
func lowerField(r table.Record, field string) {
	if s, ok := r[field].(string); ok {
		r[field] = strings.ToLower(strings.TrimSpace(s))
	}
}
