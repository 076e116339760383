package table

import "slices"

// sortKey is one resolved sort level.
type sortKey struct {
	col     Column
	compare Comparator
	desc    bool
}

// ApplySort orders records by sort, then by each thenBy level to break ties.
//
// If sort names no column, an unknown column or a column that is not
// Sortable, records come back in their original order. Invalid thenBy levels
// are skipped. The sort is stable: records that compare equal keep their
// relative order. records is not modified.
func (e *Engine) ApplySort(records []Record, sort SortState, thenBy ...SortState) []Record {
	primary, ok := e.sortKey(sort)
	if !ok {
		return cloneRecords(records)
	}
	keys := []sortKey{primary}
	for _, s := range thenBy {
		if k, ok := e.sortKey(s); ok {
			keys = append(keys, k)
		}
	}

	// Read every sort cell once; accessors may be arbitrarily expensive.
	type row struct {
		rec   Record
		cells []any
	}
	rows := make([]row, len(records))
	for i, r := range records {
		cells := make([]any, len(keys))
		for j, k := range keys {
			cells[j] = k.col.Value(r)
		}
		rows[i] = row{rec: r, cells: cells}
	}

	slices.SortStableFunc(rows, func(a, b row) int {
		for j, k := range keys {
			c := k.compare(a.cells[j], b.cells[j])
			if c == 0 {
				continue
			}
			if k.desc {
				return -c
			}
			return c
		}
		return 0
	})

	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r.rec
	}
	return out
}

func (e *Engine) sortKey(s SortState) (sortKey, bool) {
	if !s.Active() {
		return sortKey{}, false
	}
	col, ok := e.columns.Get(s.ColumnID)
	if !ok || !col.Sortable {
		return sortKey{}, false
	}
	return sortKey{
		col:     col,
		compare: col.comparator(e.locale),
		desc:    s.Direction == Desc,
	}, true
}
