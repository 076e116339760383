package table

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
)

// Bravo and alpha sort alpha first regardless of case.
func TestApplySort_Scenario(t *testing.T) {
	e, err := New([]Column{{ID: "id"}, {ID: "name", Type: Text, Sortable: true}})
	if err != nil {
		t.Fatal(err)
	}
	records := []Record{{"id": 1, "name": "Bravo"}, {"id": 2, "name": "alpha"}}

	got := keysOf(e, e.ApplySort(records, SortState{ColumnID: "name", Direction: Asc}))
	if diff := cmp.Diff([]Key{"2", "1"}, got); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestApplySort(t *testing.T) {
	e := newStaffEngine(t)

	tests := []struct {
		name   string
		sort   SortState
		thenBy []SortState
		want   []Key
	}{
		{name: "unsorted keeps order", sort: SortState{}, want: []Key{"1", "2", "3", "4", "5"}},
		{name: "unknown column keeps order", sort: SortState{ColumnID: "ghost", Direction: Desc}, want: []Key{"1", "2", "3", "4", "5"}},
		{name: "non-sortable column keeps order", sort: SortState{ColumnID: "notes"}, want: []Key{"1", "2", "3", "4", "5"}},
		{name: "text asc", sort: SortState{ColumnID: "name", Direction: Asc}, want: []Key{"4", "3", "2", "5", "1"}},
		{name: "text desc", sort: SortState{ColumnID: "name", Direction: Desc}, want: []Key{"1", "5", "2", "3", "4"}},
		{name: "unset direction is asc", sort: SortState{ColumnID: "name"}, want: []Key{"4", "3", "2", "5", "1"}},
		{name: "number with missing as zero", sort: SortState{ColumnID: "salary"}, want: []Key{"5", "3", "1", "4", "2"}},
		{name: "date with invalid as epoch", sort: SortState{ColumnID: "hired"}, want: []Key{"5", "2", "4", "1", "3"}},
		{name: "enum declared order", sort: SortState{ColumnID: "status"}, want: []Key{"1", "4", "5", "2", "3"}},
		{
			name:   "then by breaks ties",
			sort:   SortState{ColumnID: "status"},
			thenBy: []SortState{{ColumnID: "salary", Direction: Desc}},
			want:   []Key{"4", "1", "5", "2", "3"},
		},
		{
			name:   "invalid then-by levels skipped",
			sort:   SortState{ColumnID: "team"},
			thenBy: []SortState{{ColumnID: "ghost"}, {ColumnID: "name"}},
			want:   []Key{"5", "3", "2", "4", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keysOf(e, e.ApplySort(staffRecords(), tt.sort, tt.thenBy...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplySort_Stable(t *testing.T) {
	e, err := New([]Column{{ID: "id"}, {ID: "group", Type: Text, Sortable: true}})
	if err != nil {
		t.Fatal(err)
	}
	records := []Record{
		{"id": "a1", "group": "B"},
		{"id": "b1", "group": "a"},
		{"id": "a2", "group": "b"},
		{"id": "b2", "group": "A"},
		{"id": "a3", "group": "B"},
		{"id": "b3", "group": "a"},
	}

	for _, dir := range []Direction{Asc, Desc} {
		got := keysOf(e, e.ApplySort(records, SortState{ColumnID: "group", Direction: dir}))

		// Within each group the input order (1, 2, 3) must survive.
		last := map[byte]byte{}
		for _, k := range got {
			group, seq := k[0], k[1]
			if seq < last[group] {
				t.Errorf("%s: order %v is not stable", dir, got)
				break
			}
			last[group] = seq
		}
	}
}

func TestApplySort_Locale(t *testing.T) {
	cols := []Column{{ID: "name", Sortable: true}}
	records := []Record{{"name": "zebra"}, {"name": "äpple"}}

	english, _ := New(cols, WithKeyField("name"))
	got := keysOf(english, english.ApplySort(records, SortState{ColumnID: "name"}))
	if diff := cmp.Diff([]Key{"äpple", "zebra"}, got); diff != "" {
		t.Errorf("english mismatch (-want +got):\n%s", diff)
	}

	swedish, _ := New(cols, WithKeyField("name"), WithLocale(language.Swedish))
	got = keysOf(swedish, swedish.ApplySort(records, SortState{ColumnID: "name"}))
	if diff := cmp.Diff([]Key{"zebra", "äpple"}, got); diff != "" {
		t.Errorf("swedish mismatch (-want +got):\n%s", diff)
	}
}

func TestApplySort_CompareOverride(t *testing.T) {
	byLength := func(a, b any) int {
		return len(Stringify(a)) - len(Stringify(b))
	}
	e, err := New([]Column{
		{ID: "word", Type: Custom, Sortable: true, Compare: byLength},
	}, WithKeyField("word"))
	if err != nil {
		t.Fatal(err)
	}
	records := []Record{{"word": "ccc"}, {"word": "a"}, {"word": "bb"}}

	got := keysOf(e, e.ApplySort(records, SortState{ColumnID: "word"}))
	if diff := cmp.Diff([]Key{"a", "bb", "ccc"}, got); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestApplySort_AccessorCalledOncePerRecord(t *testing.T) {
	calls := 0
	e, err := New([]Column{{
		ID:       "upper",
		Sortable: true,
		Accessor: func(r Record) any {
			calls++
			return strings.ToUpper(Stringify(r["id"]))
		},
	}})
	if err != nil {
		t.Fatal(err)
	}
	records := []Record{{"id": "c"}, {"id": "a"}, {"id": "b"}, {"id": "d"}}

	got := keysOf(e, e.ApplySort(records, SortState{ColumnID: "upper"}))
	if diff := cmp.Diff([]Key{"a", "b", "c", "d"}, got); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if calls != len(records) {
		t.Errorf("accessor calls = %d, want %d", calls, len(records))
	}
}

func TestApplySort_DateValues(t *testing.T) {
	e, err := New([]Column{{ID: "id"}, {ID: "at", Type: Date, Sortable: true}})
	if err != nil {
		t.Fatal(err)
	}
	records := []Record{
		{"id": "iso", "at": "2024-03-01T10:00:00Z"},
		{"id": "time", "at": time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"id": "millis", "at": float64(86_400_000)},
		{"id": "us", "at": "12/31/2023"},
		{"id": "missing"},
	}

	got := keysOf(e, e.ApplySort(records, SortState{ColumnID: "at", Direction: Desc}))
	if diff := cmp.Diff([]Key{"iso", "us", "time", "millis", "missing"}, got); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}
