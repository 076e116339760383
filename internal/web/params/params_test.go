package params

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/dashview/internal/core"
	"github.com/JonMunkholm/dashview/internal/table"
)

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("ParseQuery(%q): %v", raw, err)
	}
	return v
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want table.Query
	}{
		{
			name: "empty",
			raw:  "",
			want: table.Query{},
		},
		{
			name: "search with columns",
			raw:  "search=+ada+&in=name,+email,",
			want: table.Query{Search: "ada", SearchIn: []string{"name", "email"}},
		},
		{
			name: "filter forms",
			raw: "filter[name]=ada&filter[salary]=gte:50000&filter[role]=in:admin,owner" +
				"&filter[status]=active&filter[status]=invited&filter[time]=12:30&filter[blank]=",
			want: table.Query{Filters: table.FilterState{
				"name":   table.Value("ada"),
				"salary": table.Where(table.OpGreaterEq, "50000"),
				"role":   table.OneOf("admin", "owner"),
				"status": table.OneOf("active", "invited"),
				"time":   table.Value("12:30"),
			}},
		},
		{
			name: "multi-level sort capped",
			raw:  "sort=dept,name,salary,email&dir=desc,,DESC",
			want: table.Query{
				Sort: table.SortState{ColumnID: "dept", Direction: table.Desc},
				ThenBy: []table.SortState{
					{ColumnID: "name", Direction: table.Asc},
					{ColumnID: "salary", Direction: table.Desc},
				},
			},
		},
		{
			name: "page values passed through",
			raw:  "page=-2&pageSize=50",
			want: table.Query{Page: table.PageState{Number: -2, Size: 50}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(mustParseQuery(t, tt.raw))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_InvalidPage(t *testing.T) {
	for _, raw := range []string{"page=two", "pageSize=1.5"} {
		if _, err := Parse(mustParseQuery(t, raw)); !errors.Is(err, core.ErrInvalidQuery) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidQuery", raw, err)
		}
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	q := table.Query{
		Search:   "ada",
		SearchIn: []string{"name"},
		Filters: table.FilterState{
			"name":   table.Value("lovelace"),
			"role":   table.OneOf("admin", "owner"),
			"salary": table.Where(table.OpLess, "90000"),
		},
		Sort:   table.SortState{ColumnID: "dept", Direction: table.Desc},
		ThenBy: []table.SortState{{ColumnID: "name", Direction: table.Asc}},
		Page:   table.PageState{Number: 3, Size: 10},
	}

	got, err := Parse(Encode(q))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if diff := cmp.Diff(q, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeParseRoundTrip_OneOf(t *testing.T) {
	tests := []struct {
		name   string
		filter table.Filter
	}{
		{"single value", table.OneOf("active")},
		{"value with comma", table.OneOf("Smith, Jane")},
		{"several values", table.OneOf("active", "in:review", "a,b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := table.Query{Filters: table.FilterState{"status": tt.filter}}
			got, err := Parse(Encode(q))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if diff := cmp.Diff(q, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeParseRoundTrip_KeepsMatches(t *testing.T) {
	e, err := table.New([]table.Column{
		{ID: "status", Type: table.Enum, Filterable: true, EnumValues: []string{"active", "inactive"}},
	}, table.WithKeyField("id"))
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	records := []table.Record{
		{"id": 1, "status": "active"},
		{"id": 2, "status": "inactive"},
	}

	q := table.Query{Filters: table.FilterState{"status": table.OneOf("active")}}
	parsed, err := Parse(Encode(q))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	before := e.Keys(e.ApplyFilters(records, q.Filters))
	after := e.Keys(e.ApplyFilters(records, parsed.Filters))
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("matches changed after round trip (-before +after):\n%s", diff)
	}
	if len(after) != 1 {
		t.Errorf("matches = %v, want only the active record", after)
	}
}

func TestEncode_OmitsDefaults(t *testing.T) {
	if got := Encode(table.Query{}).Encode(); got != "" {
		t.Errorf("Encode(zero) = %q, want empty", got)
	}
}

func TestWithSort(t *testing.T) {
	q := table.Query{
		Sort:   table.SortState{ColumnID: "name", Direction: table.Asc},
		ThenBy: []table.SortState{{ColumnID: "dept"}},
		Page:   table.PageState{Number: 4, Size: 10},
	}

	flipped := WithSort(q, "name")
	if flipped.Sort.Direction != table.Desc || flipped.ThenBy != nil || flipped.Page.Number != 1 {
		t.Errorf("WithSort same column = %+v", flipped)
	}
	if back := WithSort(flipped, "name"); back.Sort.Direction != table.Asc {
		t.Errorf("second flip direction = %q, want asc", back.Sort.Direction)
	}
	if other := WithSort(flipped, "salary"); other.Sort != (table.SortState{ColumnID: "salary", Direction: table.Asc}) {
		t.Errorf("WithSort new column = %+v", other.Sort)
	}
	if q.Page.Number != 4 {
		t.Error("WithSort must not modify its argument")
	}
}
