package table

import (
	"testing"
	"time"
)

func TestStringify(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"float", 3.5, "3.5"},
		{"whole float", float64(7), "7"},
		{"bool", true, "true"},
		{"date", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "2024-01-15"},
		{"timestamp", time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), "2024-01-15 09:30:00"},
		{"zero time", time.Time{}, ""},
		{"nested map", map[string]any{"a": 1}, "map[a:1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.input); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"nil", nil, 0},
		{"int", 12, 12},
		{"float", 1.25, 1.25},
		{"plain string", "99.5", 99.5},
		{"currency", "$1,234.56", 1234.56},
		{"euro", "€10", 10},
		{"accounting negative", "($12.50)", -12.5},
		{"not a number", "abc", 0},
		{"blank", "  ", 0},
		{"NaN string", "NaN", 0},
		{"Inf string", "Inf", 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toNumber(tt.input); got != tt.want {
				t.Errorf("toNumber(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToTime(t *testing.T) {
	day := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  time.Time
	}{
		{"iso date", "2024-02-29", day},
		{"rfc3339", "2024-02-29T00:00:00Z", day},
		{"us date", "2/29/2024", day},
		{"long form", "Feb 29, 2024", day},
		{"time value", day, day},
		{"millis", day.UnixMilli(), day},
		{"millis string", "1709164800000", day},
		{"invalid", "someday", epoch},
		{"nil", nil, epoch},
		{"zero time", time.Time{}, epoch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toTime(tt.input); !got.Equal(tt.want) {
				t.Errorf("toTime(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToBool(t *testing.T) {
	for _, in := range []any{true, "yes", "Y", " true ", "1", 1} {
		if !toBool(in) {
			t.Errorf("toBool(%v) = false, want true", in)
		}
	}
	for _, in := range []any{false, nil, "no", "maybe", "", 0} {
		if toBool(in) {
			t.Errorf("toBool(%v) = true, want false", in)
		}
	}
}

func TestLookup(t *testing.T) {
	r := Record{
		"name":     "Ada",
		"a.b":      "literal",
		"owner":    map[string]any{"email": "ada@example.com", "team": Record{"name": "Ops"}},
		"scalar":   5,
		"nullable": nil,
	}

	tests := []struct {
		path string
		want any
	}{
		{"name", "Ada"},
		{"a.b", "literal"},
		{"owner.email", "ada@example.com"},
		{"owner.team.name", "Ops"},
		{"owner.missing", nil},
		{"scalar.deeper", nil},
		{"missing", nil},
		{"nullable", nil},
	}

	for _, tt := range tests {
		if got := Lookup(r, tt.path); got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if got := Lookup(nil, "name"); got != nil {
		t.Errorf("Lookup(nil) = %v, want nil", got)
	}
}
