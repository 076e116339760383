// Package core provides the business logic behind the dashboard views.
//
// It sits between the record sources and the web layer and has no knowledge
// of HTTP. Web handlers, the refresh scheduler and tests all use it directly.
//
// # Resources
//
// Every grid the dashboard shows is a resource registered at init time with
// [Register]. A [ResourceDefinition] names where the records come from and
// declares the columns the table engine works with:
//
//	core.Register(core.ResourceDefinition{
//	    Info: core.ResourceInfo{
//	        Key: "staff", Group: "People", Label: "Staff",
//	        DefaultSort: table.SortState{ColumnID: "name", Direction: table.Asc},
//	    },
//	    Columns: []table.Column{
//	        {ID: "name", Title: "Name", Sortable: true, Filterable: true},
//	        {ID: "joined", Title: "Joined", Type: table.Date, Sortable: true},
//	    },
//	})
//
// The built-in resources live in the resources subpackage.
//
// # Views
//
// [Service.View] loads a resource's records through a [Source], runs the
// table pipeline (search, filter, sort, paginate) and returns one page with
// totals. Records are cached per resource for a short TTL and computed views
// are memoized per record generation, so repeated queries do not refetch or
// recompute. Concurrent fetches are bounded by a [FetchLimiter].
//
// # Presets and Selections
//
// Presets are saved views stored by a [PresetStore] in Postgres or memory.
// Selections are server-held sets of checked record keys that expire after
// sitting idle; see [SelectionStore].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - VIEW001-VIEW004: View errors (unknown resource or column, bad page or query)
//   - SRC001-SRC002: Source errors (busy, upstream failure)
//   - PRE001-PRE003: Preset errors
//   - SEL001-SEL002: Selection errors
//   - DB004-DB007, REQ001-REQ002, RATE001: Infrastructure errors
//   - ERR000: Unknown errors (check logs)
package core
