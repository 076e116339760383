package table

import (
	"cmp"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders two cell values: negative if a sorts first, positive if b
// does, zero if they are equal. A Comparator may hold per-call state such as
// a collator and must not be shared between goroutines.
type Comparator func(a, b any) int

// ValueType is the comparison strategy for a column.
type ValueType interface {
	// Name is the identifier used in JSON column declarations.
	Name() string

	// TextLike reports whether a scalar filter value means "contains" (true)
	// or "equals" (false) for columns of this type.
	TextLike() bool

	// Comparator builds a comparator for col under the given locale.
	Comparator(col Column, locale language.Tag) Comparator
}

// Built-in value types.
var (
	Text    ValueType = textType{}
	Number  ValueType = numberType{}
	Date    ValueType = dateType{}
	Boolean ValueType = booleanType{}
	Enum    ValueType = enumType{}
	Custom  ValueType = customType{}
)

var (
	valueTypes = map[string]ValueType{
		"text":    Text,
		"number":  Number,
		"date":    Date,
		"boolean": Boolean,
		"enum":    Enum,
		"custom":  Custom,
	}
	valueTypesMu sync.RWMutex
)

// RegisterValueType makes vt available to LookupValueType.
// Returns an error if the name is empty or already taken.
func RegisterValueType(vt ValueType) error {
	name := strings.ToLower(strings.TrimSpace(vt.Name()))
	if name == "" {
		return fmt.Errorf("value type name is required")
	}

	valueTypesMu.Lock()
	defer valueTypesMu.Unlock()

	if _, exists := valueTypes[name]; exists {
		return fmt.Errorf("value type already registered: %s", name)
	}
	valueTypes[name] = vt
	return nil
}

// LookupValueType resolves a value type by name (case-insensitive).
// The empty name resolves to Text.
func LookupValueType(name string) (ValueType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Text, true
	}

	valueTypesMu.RLock()
	defer valueTypesMu.RUnlock()

	vt, ok := valueTypes[name]
	return vt, ok
}

// textComparator compares stringified values with locale collation, ignoring case.
func textComparator(locale language.Tag) Comparator {
	c := collate.New(locale, collate.IgnoreCase)
	return func(a, b any) int {
		return c.CompareString(Stringify(a), Stringify(b))
	}
}

type textType struct{}

func (textType) Name() string   { return "text" }
func (textType) TextLike() bool { return true }
func (textType) Comparator(_ Column, locale language.Tag) Comparator {
	return textComparator(locale)
}

type numberType struct{}

func (numberType) Name() string   { return "number" }
func (numberType) TextLike() bool { return false }
func (numberType) Comparator(Column, language.Tag) Comparator {
	return func(a, b any) int {
		return cmp.Compare(toNumber(a), toNumber(b))
	}
}

type dateType struct{}

func (dateType) Name() string   { return "date" }
func (dateType) TextLike() bool { return false }
func (dateType) Comparator(Column, language.Tag) Comparator {
	return func(a, b any) int {
		return toTime(a).Compare(toTime(b))
	}
}

type booleanType struct{}

func (booleanType) Name() string   { return "boolean" }
func (booleanType) TextLike() bool { return false }
func (booleanType) Comparator(Column, language.Tag) Comparator {
	return func(a, b any) int {
		return cmp.Compare(boolRank(toBool(a)), boolRank(toBool(b)))
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// enumType orders by the column's declared EnumValues. Values outside the
// declaration sort after declared ones, by text.
type enumType struct{}

func (enumType) Name() string   { return "enum" }
func (enumType) TextLike() bool { return true }
func (enumType) Comparator(col Column, locale language.Tag) Comparator {
	text := textComparator(locale)
	if len(col.EnumValues) == 0 {
		return text
	}

	rank := make(map[string]int, len(col.EnumValues))
	for i, v := range col.EnumValues {
		if _, seen := rank[v]; !seen {
			rank[v] = i
		}
	}

	return func(a, b any) int {
		ra, okA := rank[Stringify(a)]
		rb, okB := rank[Stringify(b)]
		switch {
		case okA && okB:
			return cmp.Compare(ra, rb)
		case okA:
			return -1
		case okB:
			return 1
		}
		return text(a, b)
	}
}

// customType is for columns that supply Column.Compare. Without one it
// behaves like Text.
type customType struct{}

func (customType) Name() string   { return "custom" }
func (customType) TextLike() bool { return true }
func (customType) Comparator(_ Column, locale language.Tag) Comparator {
	return textComparator(locale)
}
