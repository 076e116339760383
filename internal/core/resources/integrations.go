package resources

import (
	"github.com/JonMunkholm/dashview/internal/core"
	"github.com/JonMunkholm/dashview/internal/table"
)

func init() {
	registerIntegrations()
	registerMonitors()
}

func registerIntegrations() {
	core.Register(core.ResourceDefinition{
		Info: core.ResourceInfo{
			Key:         "integrations",
			Group:       "Platform",
			Label:       "Integrations",
			DefaultSort: table.SortState{ColumnID: "name", Direction: table.Asc},
		},
		Columns: []table.Column{
			col("name", "Name", table.Text),
			col("provider", "Provider", table.Text),
			enum("status", "Status", "connected", "degraded", "disconnected"),
			col("last_sync_at", "Last Sync", table.Date),
			col("error_count", "Errors", table.Number),
		},
		Normalize: func(r table.Record) table.Record {
			lowerField(r, "status")
			return r
		},
	})
}

func registerMonitors() {
	core.Register(core.ResourceDefinition{
		Info: core.ResourceInfo{
			Key:         "monitors",
			Group:       "Platform",
			Label:       "Monitoring",
			Endpoint:    "monitoring",
			DefaultSort: table.SortState{ColumnID: "state"},
		},
		Columns: []table.Column{
			col("name", "Check", table.Text),
			col("target", "Target", table.Text),
			// Failing checks first.
			enum("state", "State", "down", "degraded", "up", "paused"),
			{ID: "latency", Title: "Latency (ms)", Field: "latency_ms", Type: table.Number, Sortable: true, Filterable: true},
			{ID: "uptime", Title: "Uptime %", Field: "uptime_pct", Type: table.Number, Sortable: true, Filterable: true},
			col("checked_at", "Last Check", table.Date),
		},
		Normalize: func(r table.Record) table.Record {
			lowerField(r, "state")
			return r
		},
	})
}
