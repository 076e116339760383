package resources

import (
	"strings"

	"github.com/JonMunkholm/dashview/internal/core"
	"github.com/JonMunkholm/dashview/internal/table"
)

func init() {
	registerReports()
	registerSettings()
}

func registerReports() {
	core.Register(core.ResourceDefinition{
		Info: core.ResourceInfo{
			Key:         "reports",
			Group:       "Insights",
			Label:       "Reports",
			DefaultSort: table.SortState{ColumnID: "generated_at", Direction: table.Desc},
		},
		Columns: []table.Column{
			col("title", "Title", table.Text),
			enum("format", "Format", "pdf", "csv", "xlsx"),
			{ID: "owner", Title: "Owner", Field: "owner.name", Type: table.Text, Sortable: true, Filterable: true},
			col("rows", "Rows", table.Number),
			col("generated_at", "Generated", table.Date),
		},
		Normalize: func(r table.Record) table.Record {
			lowerField(r, "format")
			return r
		},
	})
}

func registerSettings() {
	core.Register(core.ResourceDefinition{
		Info: core.ResourceInfo{
			Key:         "settings",
			Group:       "Insights",
			Label:       "Settings",
			KeyField:    "key",
			DefaultSort: table.SortState{ColumnID: "key", Direction: table.Asc},
			Selection:   table.SelectSingle,
		},
		Columns: []table.Column{
			// Dotted keys sort segment by segment: "mail.smtp" before "mail.smtp.port".
			{ID: "key", Title: "Key", Type: table.Custom, Sortable: true, Filterable: true, Compare: compareDotted},
			col("value", "Value", table.Text),
			col("section", "Section", table.Text),
			col("updated_at", "Updated", table.Date),
		},
	})
}

// compareDotted orders dotted setting keys by segment.
func compareDotted(a, b any) int {
	as := strings.Split(strings.ToLower(table.Stringify(a)), ".")
	bs := strings.Split(strings.ToLower(table.Stringify(b)), ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := strings.Compare(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return len(as) - len(bs)
}
