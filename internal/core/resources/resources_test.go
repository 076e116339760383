package resources

import (
	"testing"

	"github.com/JonMunkholm/dashview/internal/core"
	"github.com/JonMunkholm/dashview/internal/table"
)

func TestAllResourcesRegistered(t *testing.T) {
	want := []string{
		"audit_log", "backup_schedules", "backups", "integrations",
		"monitors", "reports", "settings", "staff", "users",
	}
	for _, key := range want {
		def, ok := core.Get(key)
		if !ok {
			t.Errorf("resource %q not registered", key)
			continue
		}
		if def.DefaultSortValid() {
			continue
		}
		t.Errorf("resource %q default sort %q is not a sortable column", key, def.Info.DefaultSort.ColumnID)
	}
	if got := core.ResourceCount(); got != len(want) {
		t.Errorf("ResourceCount() = %d, want %d", got, len(want))
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		r    table.Record
		want any
	}{
		{table.Record{"first_name": "Ada", "last_name": "Lovelace"}, "Ada Lovelace"},
		{table.Record{"first_name": "Ada"}, "Ada"},
		{table.Record{"name": "fallback"}, "fallback"},
	}
	for _, tt := range tests {
		if got := fullName(tt.r); got != tt.want {
			t.Errorf("fullName(%v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestCompareDotted(t *testing.T) {
	e, err := table.New([]table.Column{
		{ID: "key", Type: table.Custom, Sortable: true, Compare: compareDotted},
	}, table.WithKeyField("key"))
	if err != nil {
		t.Fatal(err)
	}

	records := []table.Record{
		{"key": "mail.smtp.port"},
		{"key": "mail.from"},
		{"key": "mail.smtp"},
		{"key": "auth"},
	}
	got := e.Keys(e.ApplySort(records, table.SortState{ColumnID: "key"}))
	want := []table.Key{"auth", "mail.from", "mail.smtp", "mail.smtp.port"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestNormalizeLowersEnums(t *testing.T) {
	def, _ := core.Get("staff")
	r := def.Normalize(table.Record{"role": " Admin ", "status": "ACTIVE"})
	if r["role"] != "admin" || r["status"] != "active" {
		t.Errorf("Normalize() = %v", r)
	}
}
