package templates

import (
	"context"
	"encoding/json"
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/dashview/internal/core"
	"github.com/JonMunkholm/dashview/internal/table"
)

func renderString(t *testing.T, data TableData, full bool) string {
	t.Helper()
	var b strings.Builder
	c := TablePartial(data)
	if full {
		c = TableView(data)
	}
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return b.String()
}

func crewView(keys ...table.Key) *core.ViewResult {
	v := &core.ViewResult{
		Resource: core.ResourceInfo{Key: "crew", Label: "Crew"},
		Columns: []core.ColumnInfo{
			{ID: "status", Title: "Status", Type: "enum", Filterable: true},
		},
		Selection: &core.SelectionState{ID: "sel-1"},
	}
	for _, k := range keys {
		v.Keys = append(v.Keys, k)
		v.Rows = append(v.Rows, table.Record{"id": string(k)})
		v.Cells = append(v.Cells, []any{"active"})
	}
	v.Page = table.NewPageMeta(len(keys), table.PageState{Number: 1, Size: 10})
	return v
}

var hxValsRe = regexp.MustCompile(`hx-vals="([^"]*)"`)

func TestTablePartial_RowKeysAreJSON(t *testing.T) {
	keys := []table.Key{`plain`, "café \"quoted\"", "ctl\x7f\x01", `back\slash`}
	out := renderString(t, TableData{View: crewView(keys...), SelectionID: "sel-1"}, false)

	var got []table.Key
	for _, m := range hxValsRe.FindAllStringSubmatch(out, -1) {
		var vals map[string]any
		if err := json.Unmarshal([]byte(html.UnescapeString(m[1])), &vals); err != nil {
			t.Fatalf("hx-vals %q is not JSON: %v", m[1], err)
		}
		if key, ok := vals["key"].(string); ok {
			got = append(got, table.Key(key))
		}
	}
	if diff := cmp.Diff(keys, got); diff != "" {
		t.Errorf("row keys mismatch (-want +got):\n%s", diff)
	}
}

func TestTableView_KeepsEveryFilterValue(t *testing.T) {
	v := crewView("a1")
	v.Query = table.Query{Filters: table.FilterState{"status": table.OneOf("active", "invited")}}

	out := renderString(t, TableData{View: v}, true)
	for _, want := range []string{`value="in:active"`, `value="in:invited"`} {
		if !strings.Contains(out, want) {
			t.Errorf("search form missing %s", want)
		}
	}
	if !strings.Contains(out, `src="`+HTMXScript+`"`) {
		t.Error("page should load htmx")
	}
}
