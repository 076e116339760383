// Package table is the in-memory engine behind every dashboard grid.
//
// A view over a resource is computed by a fixed pipeline:
//
//	search -> column filters -> sort -> paginate
//
// Each stage is a pure function of its inputs. Nothing in this package performs
// I/O or keeps state between calls, so an [Engine] may be shared freely and a
// pipeline may be re-run on every keystroke, header click or page change.
//
// # Columns and value types
//
// A [Column] describes how to read a cell (a field name, a dotted path such as
// "owner.email", or an [Accessor]) and which [ValueType] governs comparison.
// Value types are strategy objects; the built-ins are [Text], [Number], [Date],
// [Boolean], [Enum] and [Custom]. Additional types can be added with
// [RegisterValueType] without modifying the engine.
//
// # Degradation
//
// Data-shape problems never fail a view. Missing fields read as empty or zero,
// unparseable numbers and dates coerce to 0 and the Unix epoch, and filters or
// sorts naming unknown columns are ignored. Only invalid calls, such as a page
// size below one, return an error.
//
// # Selection
//
// [Selection] tracks checked record keys independently of the current page.
// [ToggleSelection] and [SelectAllVisible] return new sets and leave keys that
// are not on screen untouched.
package table
