package table

import (
	"encoding/json"
	"slices"
)

// SelectionMode controls how ToggleSelection treats existing keys.
type SelectionMode string

const (
	SelectSingle   SelectionMode = "single"
	SelectMultiple SelectionMode = "multiple"
)

// Selection is the set of checked record keys. It is independent of
// pagination and filtering.
type Selection map[Key]struct{}

// NewSelection returns a selection holding keys.
func NewSelection(keys ...Key) Selection {
	s := make(Selection, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is selected.
func (s Selection) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Len returns the number of selected keys.
func (s Selection) Len() int {
	return len(s)
}

// Clone returns an independent copy. Cloning nil yields an empty selection.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Keys returns the selected keys, sorted.
func (s Selection) Keys() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// MarshalJSON encodes the selection as a sorted array of keys.
func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys())
}

// UnmarshalJSON decodes an array of keys.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var keys []Key
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*s = NewSelection(keys...)
	return nil
}

// ToggleSelection flips key and returns the new selection.
//
// In SelectSingle mode the result is {key}, or empty if key was already the
// only selected key. In SelectMultiple mode (and for unknown modes) key is
// added or removed and every other key is kept. cur is not modified.
func ToggleSelection(cur Selection, key Key, mode SelectionMode) Selection {
	if mode == SelectSingle {
		if cur.Len() == 1 && cur.Has(key) {
			return Selection{}
		}
		return NewSelection(key)
	}

	next := cur.Clone()
	if next.Has(key) {
		delete(next, key)
	} else {
		next[key] = struct{}{}
	}
	return next
}

// SelectAllVisible adds (checked) or removes (unchecked) the visible keys.
// Keys that are not visible are never touched. cur is not modified.
func SelectAllVisible(cur Selection, visible []Key, checked bool) Selection {
	next := cur.Clone()
	for _, k := range visible {
		if checked {
			next[k] = struct{}{}
		} else {
			delete(next, k)
		}
	}
	return next
}

// VisibleState reports whether all and whether some of the visible keys are
// selected, for driving a header checkbox. With no visible keys both are false.
func VisibleState(cur Selection, visible []Key) (all, some bool) {
	if len(visible) == 0 {
		return false, false
	}
	n := 0
	for _, k := range visible {
		if cur.Has(k) {
			n++
		}
	}
	return n == len(visible), n > 0
}
