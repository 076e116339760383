// Package params converts between URL query parameters and table queries.
//
// The format, shared by the JSON API and the HTML pages:
//
//	search=ada            free-text search
//	in=name,email         limit search to these columns
//	filter[role]=admin    scalar filter (contains for text, equals otherwise)
//	filter[salary]=gte:50000
//	filter[role]=in:admin,owner
//	filter[role]=admin&filter[role]=owner   one of
//	filter[role]=in:admin&filter[role]=in:owner   one of, as Encode writes it
//	sort=dept,name&dir=asc,desc
//	page=2&pageSize=50
package params

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/dashview/internal/core"
	"github.com/JonMunkholm/dashview/internal/table"
)

// inPrefix marks a one-of value.
const inPrefix = string(table.OpIn) + ":"

// MaxSortLevels caps sort plus tie-break columns.
const MaxSortLevels = 3

// Parse reads a query from URL values. Missing page values are left at zero
// for the service to default. Non-integer page values are an error.
func Parse(v url.Values) (table.Query, error) {
	q := table.Query{
		Search:   strings.TrimSpace(v.Get("search")),
		SearchIn: splitList(v.Get("in")),
		Filters:  parseFilters(v),
	}

	sorts := parseSorts(v.Get("sort"), v.Get("dir"))
	if len(sorts) > 0 {
		q.Sort = sorts[0]
	}
	if len(sorts) > 1 {
		q.ThenBy = sorts[1:]
	}

	var err error
	if q.Page.Number, err = parseInt(v, "page"); err != nil {
		return table.Query{}, err
	}
	if q.Page.Size, err = parseInt(v, "pageSize"); err != nil {
		return table.Query{}, err
	}
	return q, nil
}

func parseInt(v url.Values, name string) (int, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", core.ErrInvalidQuery, name, raw)
	}
	return i, nil
}

// parseSorts pairs comma-separated columns with comma-separated directions.
func parseSorts(sortStr, dirStr string) []table.SortState {
	if sortStr == "" {
		return nil
	}

	cols := strings.Split(sortStr, ",")
	dirs := strings.Split(dirStr, ",")

	var sorts []table.SortState
	for i, col := range cols {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		dir := table.Asc
		if i < len(dirs) && table.ParseDirection(dirs[i]) == table.Desc {
			dir = table.Desc
		}
		sorts = append(sorts, table.SortState{ColumnID: col, Direction: dir})
		if len(sorts) >= MaxSortLevels {
			break
		}
	}
	return sorts
}

// parseFilters extracts filter[col] parameters.
func parseFilters(v url.Values) table.FilterState {
	fs := table.FilterState{}
	for key, values := range v {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}
		col := key[len("filter[") : len(key)-1]
		if col == "" {
			continue
		}

		var nonEmpty []string
		for _, val := range values {
			if strings.TrimSpace(val) != "" {
				nonEmpty = append(nonEmpty, val)
			}
		}

		switch len(nonEmpty) {
		case 0:
		case 1:
			fs[col] = parseFilter(nonEmpty[0])
		default:
			seen := make(map[string]bool, len(nonEmpty))
			var list []string
			for _, val := range nonEmpty {
				val = strings.TrimPrefix(val, inPrefix)
				if !seen[val] {
					seen[val] = true
					list = append(list, val)
				}
			}
			fs[col] = table.OneOf(list...)
		}
	}
	if len(fs) == 0 {
		return nil
	}
	return fs
}

// parseFilter reads "op:value" when op is a known operator, otherwise the
// whole string is a scalar value.
func parseFilter(raw string) table.Filter {
	prefix, value, found := strings.Cut(raw, ":")
	if !found {
		return table.Value(raw)
	}
	op, ok := table.ParseOperator(prefix)
	if !ok {
		return table.Value(raw)
	}
	if op == table.OpIn {
		return table.OneOf(splitList(value)...)
	}
	return table.Where(op, value)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Encode writes q in the format Parse reads. Zero page values are omitted.
func Encode(q table.Query) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if len(q.SearchIn) > 0 {
		v.Set("in", strings.Join(q.SearchIn, ","))
	}

	ids := make([]string, 0, len(q.Filters))
	for id := range q.Filters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		f := q.Filters[id]
		if !f.IsActive() {
			continue
		}
		key := "filter[" + id + "]"
		switch {
		case f.Op == "" && len(f.Values) == 1:
			v.Set(key, f.Values[0])
		case f.Op == "" || f.Op == table.OpIn:
			// Each value is written whole as in:<v>. A lone value is written
			// twice so it is read as a list entry and never split on commas.
			values := f.ActiveValues()
			if len(values) == 1 {
				values = append(values, values[0])
			}
			for _, val := range values {
				v.Add(key, inPrefix+val)
			}
		default:
			v.Set(key, string(f.Op)+":"+f.Values[0])
		}
	}

	var cols, dirs []string
	for _, s := range append([]table.SortState{q.Sort}, q.ThenBy...) {
		if !s.Active() {
			continue
		}
		dir := s.Direction
		if dir == "" {
			dir = table.Asc
		}
		cols = append(cols, s.ColumnID)
		dirs = append(dirs, string(dir))
	}
	if len(cols) > 0 {
		v.Set("sort", strings.Join(cols, ","))
		v.Set("dir", strings.Join(dirs, ","))
	}

	if q.Page.Number > 0 {
		v.Set("page", strconv.Itoa(q.Page.Number))
	}
	if q.Page.Size > 0 {
		v.Set("pageSize", strconv.Itoa(q.Page.Size))
	}
	return v
}

// WithPage returns q on another page.
func WithPage(q table.Query, number int) table.Query {
	q.Page.Number = number
	return q
}

// WithSort returns q sorted by column. Sorting by the current primary column
// flips its direction; any other column starts ascending. Tie-breaks are
// dropped and the page resets to 1.
func WithSort(q table.Query, column string) table.Query {
	dir := table.Asc
	if q.Sort.ColumnID == column && q.Sort.Direction != table.Desc {
		dir = table.Desc
	}
	q.Sort = table.SortState{ColumnID: column, Direction: dir}
	q.ThenBy = nil
	q.Page.Number = 1
	return q
}
