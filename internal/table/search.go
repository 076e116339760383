package table

import (
	"strings"

	"golang.org/x/text/cases"
)

// ApplySearch keeps records where any searchable column contains term,
// ignoring case. columnIDs narrows the columns searched; when empty, every
// column with IsSearchable is used. Unknown IDs are ignored. A blank term
// keeps every record. Order is preserved and records is not modified.
func (e *Engine) ApplySearch(records []Record, term string, columnIDs ...string) []Record {
	term = strings.TrimSpace(term)
	if term == "" {
		return cloneRecords(records)
	}

	cols := e.searchColumns(columnIDs)
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		for _, col := range cols {
			if strings.Contains(fold.String(Stringify(col.Value(r))), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func (e *Engine) searchColumns(ids []string) []Column {
	if len(ids) == 0 {
		var cols []Column
		for _, col := range e.columns.All() {
			if col.IsSearchable() {
				cols = append(cols, col)
			}
		}
		return cols
	}

	cols := make([]Column, 0, len(ids))
	for _, id := range ids {
		if col, ok := e.columns.Get(id); ok {
			cols = append(cols, col)
		}
	}
	return cols
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}
