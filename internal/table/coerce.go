package table

// coerce.go turns loosely typed cell values into the shapes comparators need.
//
// Records arrive as decoded JSON or as driver values, so a "number" column may
// hold float64, int64, json.Number or a formatted string such as "$1,234.50".
// Coercion never fails: values that cannot be read become "", 0, false or the
// Unix epoch.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// numericRegex validates that a string is a plain decimal number after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// epoch is what invalid dates sort as.
var epoch = time.Unix(0, 0).UTC()

// dateLayouts are tried in order before falling back to cast's parser.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006",
	"Jan 2, 2006", "2 Jan 2006",
	"20060102",
}

// Stringify renders a cell value the way search and text filters see it.
// nil renders as the empty string.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case time.Time:
		return formatTime(val)
	case *time.Time:
		if val == nil {
			return ""
		}
		return formatTime(*val)
	}

	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// numberOf reports the numeric value of v and whether v held a number at all.
func numberOf(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case string:
		return parseNumber(val)
	case bool, time.Time, *time.Time:
		return 0, false
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// toNumber coerces v to a float64; anything non-numeric is 0.
func toNumber(v any) float64 {
	f, _ := numberOf(v)
	return f
}

// parseNumber accepts plain decimals plus the usual spreadsheet decorations:
// currency symbols, thousands separators and accounting negatives "(12.50)".
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if !numericRegex.MatchString(s) {
		negative := false
		if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
			negative = true
			s = strings.TrimSpace(s[1 : len(s)-1])
		}

		s = strings.ReplaceAll(s, "$", "")
		s = strings.ReplaceAll(s, "€", "") // Euro
		s = strings.ReplaceAll(s, "£", "") // Pound
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSpace(s)

		if negative {
			s = "-" + s
		}
		if !numericRegex.MatchString(s) {
			return 0, false
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toTime coerces v to a timestamp. Numbers are Unix milliseconds, matching
// what browser clients send. Invalid values are the Unix epoch.
func toTime(v any) time.Time {
	switch val := v.(type) {
	case nil, bool:
		return epoch
	case time.Time:
		if val.IsZero() {
			return epoch
		}
		return val
	case *time.Time:
		if val == nil || val.IsZero() {
			return epoch
		}
		return *val
	case string:
		return parseTime(val)
	}

	if f, ok := numberOf(v); ok {
		return time.UnixMilli(int64(f)).UTC()
	}
	return epoch
}

func parseTime(s string) time.Time {
	t, _ := timeOf(s)
	return t
}

// timeOf parses s as a date, or as Unix milliseconds when it is a plain
// number. It reports false, with the epoch, when s is neither.
func timeOf(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return epoch, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if t, err := cast.ToTimeE(s); err == nil && !t.IsZero() {
		return t, true
	}
	if numericRegex.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return time.UnixMilli(int64(f)).UTC(), true
		}
	}
	return epoch, false
}

// boolOf reports whether s is one of the words toBool understands.
func boolOf(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "false", "f", "no", "n", "0":
		return true
	}
	return false
}

// parsesAs reports whether a filter value can be read under vt. Types other
// than the built-in number, date and boolean accept anything.
func parsesAs(vt ValueType, s string) bool {
	switch vt.Name() {
	case Number.Name():
		_, ok := parseNumber(s)
		return ok
	case Date.Name():
		_, ok := timeOf(s)
		return ok
	case Boolean.Name():
		return boolOf(s)
	}
	return true
}

// toBool accepts true/false, yes/no, t/f, y/n and 1/0. Anything else is false.
func toBool(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "yes", "y", "1":
			return true
		}
		return false
	}

	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}
