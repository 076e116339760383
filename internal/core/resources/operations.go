package resources

import (
	"github.com/JonMunkholm/dashview/internal/core"
	"github.com/JonMunkholm/dashview/internal/table"
)

func init() {
	registerAuditLog()
	registerBackups()
	registerBackupSchedules()
}

// severityOrder ranks audit severities from least to most urgent.
var severityOrder = []string{"low", "medium", "high", "critical"}

func registerAuditLog() {
	core.Register(core.ResourceDefinition{
		Info: core.ResourceInfo{
			Key:         "audit_log",
			Group:       "Operations",
			Label:       "Audit Log",
			Endpoint:    "audit-log",
			DefaultSort: table.SortState{ColumnID: "created_at", Direction: table.Desc},
			PageSize:    50,
		},
		Columns: []table.Column{
			col("created_at", "Time", table.Date),
			{ID: "actor", Title: "Actor", Field: "actor.email", Type: table.Text, Sortable: true, Filterable: true},
			col("action", "Action", table.Text),
			col("target", "Target", table.Text),
			enum("severity", "Severity", severityOrder...),
			{ID: "ip", Title: "IP Address", Field: "ip_address", Type: table.Text, Filterable: true},
		},
		Normalize: func(r table.Record) table.Record {
			lowerField(r, "severity")
			return r
		},
	})
}

func registerBackups() {
	core.Register(core.ResourceDefinition{
		Info: core.ResourceInfo{
			Key:         "backups",
			Group:       "Operations",
			Label:       "Backups",
			DefaultSort: table.SortState{ColumnID: "started_at", Direction: table.Desc},
		},
		Columns: []table.Column{
			col("name", "Name", table.Text),
			enum("kind", "Type", "full", "incremental", "snapshot"),
			enum("status", "Status", "running", "completed", "failed"),
			{ID: "size", Title: "Size (MB)", Field: "size_mb", Type: table.Number, Sortable: true, Filterable: true},
			col("started_at", "Started", table.Date),
			col("finished_at", "Finished", table.Date),
		},
		Normalize: func(r table.Record) table.Record {
			lowerField(r, "kind")
			lowerField(r, "status")
			return r
		},
	})
}

func registerBackupSchedules() {
	core.Register(core.ResourceDefinition{
		Info: core.ResourceInfo{
			Key:         "backup_schedules",
			Group:       "Operations",
			Label:       "Backup Schedules",
			Endpoint:    "backups/schedules",
			DefaultSort: table.SortState{ColumnID: "next_run_at"},
			Selection:   table.SelectSingle,
		},
		Columns: []table.Column{
			col("name", "Name", table.Text),
			{ID: "cron", Title: "Schedule", Type: table.Text},
			col("retention_days", "Retention (days)", table.Number),
			col("enabled", "Enabled", table.Boolean),
			col("next_run_at", "Next Run", table.Date),
		},
	})
}
