package table

// Aggregate holds totals for one Number column.
type Aggregate struct {
	Column string   `json:"column"`
	Sum    *float64 `json:"sum,omitempty"` // nil when Count is 0
	Avg    *float64 `json:"avg,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Count  int64    `json:"count"` // Cells holding a number
}

// Aggregates maps column IDs to their totals.
type Aggregates map[string]*Aggregate

// Aggregate totals every Number column over records. Cells that hold no
// number are left out of Count, Avg, Min and Max.
func (e *Engine) Aggregate(records []Record) Aggregates {
	result := make(Aggregates)
	for _, col := range e.columns.All() {
		if col.ValueType().Name() != Number.Name() {
			continue
		}

		agg := &Aggregate{Column: col.ID}
		var sum, lo, hi float64
		for _, r := range records {
			f, ok := numberOf(col.Value(r))
			if !ok {
				continue
			}
			if agg.Count == 0 || f < lo {
				lo = f
			}
			if agg.Count == 0 || f > hi {
				hi = f
			}
			sum += f
			agg.Count++
		}

		if agg.Count > 0 {
			avg := sum / float64(agg.Count)
			agg.Sum, agg.Avg, agg.Min, agg.Max = &sum, &avg, &lo, &hi
		}
		result[col.ID] = agg
	}
	return result
}
