package resources

import (
	"strings"

	"github.com/JonMunkholm/dashview/internal/core"
	"github.com/JonMunkholm/dashview/internal/table"
)

func init() {
	registerStaff()
	registerUsers()
}

func registerStaff() {
	core.Register(core.ResourceDefinition{
		Info: core.ResourceInfo{
			Key:         "staff",
			Group:       "People",
			Label:       "Staff",
			DefaultSort: table.SortState{ColumnID: "name", Direction: table.Asc},
		},
		Columns: []table.Column{
			col("name", "Name", table.Text),
			col("email", "Email", table.Text),
			enum("role", "Role", "owner", "admin", "manager", "member", "viewer"),
			enum("status", "Status", "active", "invited", "suspended"),
			col("department", "Department", table.Text),
			col("salary", "Salary", table.Number),
			col("hired_at", "Hired", table.Date),
			{ID: "mfa", Title: "MFA", Field: "mfa_enabled", Type: table.Boolean, Sortable: true, Filterable: true},
		},
		Normalize: func(r table.Record) table.Record {
			lowerField(r, "role")
			lowerField(r, "status")
			return r
		},
	})
}

func registerUsers() {
	core.Register(core.ResourceDefinition{
		Info: core.ResourceInfo{
			Key:         "users",
			Group:       "People",
			Label:       "Users",
			DefaultSort: table.SortState{ColumnID: "created_at", Direction: table.Desc},
		},
		Columns: []table.Column{
			{
				ID: "name", Title: "Name", Type: table.Text, Sortable: true, Filterable: true,
				Accessor: fullName,
			},
			col("email", "Email", table.Text),
			enum("plan", "Plan", "free", "pro", "team", "enterprise"),
			{ID: "org", Title: "Organization", Field: "organization.name", Type: table.Text, Sortable: true, Filterable: true},
			col("verified", "Verified", table.Boolean),
			col("last_login_at", "Last Login", table.Date),
			col("created_at", "Created", table.Date),
		},
		Normalize: func(r table.Record) table.Record {
			lowerField(r, "plan")
			return r
		},
	})
}

// fullName prefers first/last name fields and falls back to "name".
func fullName(r table.Record) any {
	first := table.Stringify(r["first_name"])
	last := table.Stringify(r["last_name"])
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	return r["name"]
}
