package templates

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dashview/internal/core"
	"github.com/JonMunkholm/dashview/internal/table"
	"github.com/JonMunkholm/dashview/internal/web/params"
)

// TableData is everything the table page renders.
type TableData struct {
	View        *core.ViewResult
	Presets     []core.Preset
	SelectionID string
}

// basePath is the page URL of the viewed resource.
func (d TableData) basePath() string {
	return "/view/" + url.PathEscape(d.View.Resource.Key)
}

// link builds a page URL for q, keeping the selection session.
func (d TableData) link(q table.Query) string {
	v := params.Encode(q)
	if d.SelectionID != "" {
		v.Set("selection", d.SelectionID)
	}
	if len(v) == 0 {
		return d.basePath()
	}
	return d.basePath() + "?" + v.Encode()
}

// TableView renders the full table page: search form, saved views and table.
func TableView(data TableData) templ.Component {
	body := component(func(h *htmlWriter) {
		v := data.View
		h.raw(`<h1>`)
		h.text(v.Resource.Label)
		h.raw(`</h1>`)

		searchForm(h, data)

		if len(data.Presets) > 0 {
			h.raw(`<nav class="presets"><span>Saved views:</span>`)
			for _, p := range data.Presets {
				h.raw(`<a`)
				h.attr("href", data.basePath()+"?preset="+url.QueryEscape(p.ID))
				h.raw(`>`)
				h.text(p.Name)
				h.raw(`</a>`)
			}
			h.raw(`</nav>`)
		}

		h.raw(`<div id="table">`)
		h.component(TablePartial(data))
		h.raw(`</div>`)
	})
	return Layout(data.View.Resource.Label, body)
}

// searchForm renders the search box and one filter input per filterable column.
func searchForm(h *htmlWriter, data TableData) {
	v := data.View
	current := params.Encode(v.Query)

	h.raw(`<form class="search" method="get"`)
	h.attr("action", data.basePath())
	h.attr("hx-get", data.basePath())
	h.raw(` hx-target="#table" hx-push-url="true">`)

	h.raw(`<input type="search" name="search" placeholder="Search"`)
	h.attr("value", v.Query.Search)
	h.raw(`>`)

	for _, col := range v.Columns {
		if !col.Filterable {
			continue
		}
		name := "filter[" + col.ID + "]"
		values := current[name]
		if len(values) == 0 {
			values = []string{""}
		}
		h.raw(`<label>`)
		h.text(col.Title)
		for _, val := range values {
			h.raw(`<input type="text"`)
			h.attr("name", name)
			h.attr("value", val)
			if len(col.EnumValues) > 0 {
				h.attr("list", "enum-"+col.ID)
			}
			h.raw(`>`)
		}
		h.raw(`</label>`)
		if len(col.EnumValues) > 0 {
			h.raw(`<datalist`)
			h.attr("id", "enum-"+col.ID)
			h.raw(`>`)
			for _, ev := range col.EnumValues {
				h.raw(`<option`)
				h.attr("value", ev)
				h.raw(`>`)
			}
			h.raw(`</datalist>`)
		}
	}

	for _, key := range []string{"sort", "dir", "pageSize"} {
		if val := current.Get(key); val != "" {
			h.raw(`<input type="hidden"`)
			h.attr("name", key)
			h.attr("value", val)
			h.raw(`>`)
		}
	}
	if data.SelectionID != "" {
		h.raw(`<input type="hidden" name="selection"`)
		h.attr("value", data.SelectionID)
		h.raw(`>`)
	}
	h.raw(`<button type="submit">Apply</button></form>`)
}

// TablePartial renders the table, totals and pager. HTMX requests swap it
// into #table.
func TablePartial(data TableData) templ.Component {
	return component(func(h *htmlWriter) {
		v := data.View
		sel := v.Selection

		selected := make(map[table.Key]bool)
		if sel != nil {
			for _, k := range sel.Selected {
				selected[k] = true
			}
		}

		h.raw(`<table class="grid"><thead><tr>`)
		if sel != nil {
			h.raw(`<th class="select"><input type="checkbox" name="visible" aria-label="Select page"`)
			h.attr("hx-post", "/api/selections/"+url.PathEscape(sel.ID)+"/visible?"+params.Encode(v.Query).Encode())
			h.attr("hx-vals", fmt.Sprintf(`{"checked": %t}`, !sel.AllVisible))
			if sel.AllVisible {
				h.raw(` checked`)
			} else if sel.SomeVisible {
				h.raw(` data-indeterminate="true"`)
			}
			h.raw(`></th>`)
		}

		for _, col := range v.Columns {
			h.raw(`<th`)
			h.attr("data-type", col.Type)
			h.raw(`>`)
			if !col.Sortable {
				h.text(col.Title)
				h.raw(`</th>`)
				continue
			}
			href := data.link(params.WithSort(v.Query, col.ID))
			h.raw(`<a`)
			h.attr("href", href)
			h.attr("hx-get", href)
			h.raw(` hx-target="#table" hx-push-url="true">`)
			h.text(col.Title)
			h.raw(sortIndicator(v.Query, col.ID))
			h.raw(`</a></th>`)
		}
		h.raw(`</tr></thead><tbody>`)

		if len(v.Rows) == 0 {
			h.raw(`<tr><td class="empty"`)
			h.attr("colspan", strconv.Itoa(len(v.Columns)+boolInt(sel != nil)))
			h.raw(`>No matching records.</td></tr>`)
		}

		for i, row := range v.Cells {
			key := v.Keys[i]
			h.raw(`<tr`)
			h.attr("data-key", string(key))
			h.raw(`>`)
			if sel != nil {
				h.raw(`<td class="select"><input type="checkbox" aria-label="Select row"`)
				h.attr("hx-post", "/api/selections/"+url.PathEscape(sel.ID)+"/toggle")
				vals, err := json.Marshal(map[string]string{"key": string(key)})
				if err != nil {
					h.fail(err)
					return
				}
				h.attr("hx-vals", string(vals))
				if selected[key] {
					h.raw(` checked`)
				}
				h.raw(`></td>`)
			}
			for _, cell := range row {
				h.raw(`<td>`)
				h.text(table.Stringify(cell))
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody>`)

		if len(v.Aggregates) > 0 {
			h.raw(`<tfoot><tr>`)
			if sel != nil {
				h.raw(`<td></td>`)
			}
			for _, col := range v.Columns {
				h.raw(`<td>`)
				if agg, ok := v.Aggregates[col.ID]; ok && agg.Sum != nil {
					h.text("Σ " + strconv.FormatFloat(*agg.Sum, 'f', -1, 64))
				}
				h.raw(`</td>`)
			}
			h.raw(`</tr></tfoot>`)
		}
		h.raw(`</table>`)

		pager(h, data)
	})
}

// pager renders previous/next links and the page position.
func pager(h *htmlWriter, data TableData) {
	v := data.View
	h.raw(`<nav class="pager">`)
	if v.Page.HasPrev() {
		pageLink(h, data, v.Page.Number-1, "Previous")
	}
	h.raw(`<span>`)
	if v.Page.TotalPages == 0 {
		h.raw(`No results`)
	} else {
		h.text(fmt.Sprintf("Page %d of %d · %d records", v.Page.Number, v.Page.TotalPages, v.Page.TotalItems))
	}
	if v.Selection != nil && v.Selection.Count > 0 {
		h.text(fmt.Sprintf(" · %d selected", v.Selection.Count))
	}
	h.raw(`</span>`)
	if v.Page.HasNext() {
		pageLink(h, data, v.Page.Number+1, "Next")
	}
	h.raw(`</nav>`)
}

func pageLink(h *htmlWriter, data TableData, number int, label string) {
	href := data.link(params.WithPage(data.View.Query, number))
	h.raw(`<a`)
	h.attr("href", href)
	h.attr("hx-get", href)
	h.raw(` hx-target="#table" hx-push-url="true">`)
	h.text(label)
	h.raw(`</a>`)
}

// sortIndicator marks the primary sort column.
func sortIndicator(q table.Query, columnID string) string {
	if q.Sort.ColumnID != columnID {
		return ""
	}
	if q.Sort.Direction == table.Desc {
		return " ▼"
	}
	return " ▲"
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
