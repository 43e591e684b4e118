// Package layout ties the grid trees and the dock together into a single
// immutable [Snapshot] and applies typed operations to it.
//
// # Grids
//
// A snapshot owns one grid per area: the main grid under [MainGrid] and one
// grid per activity, keyed by the activity id. Activity grids are created
// lazily: declaring an activity only reserves its root part id, and the grid
// appears the first time content is added to or navigated into that part.
// Removing the last part of an activity grid removes the activity.
//
// Part and view ids are unique across every grid of a snapshot.
//
// # Operations
//
// Every mutation is an [Operation]. [Apply] runs one against a snapshot and
// returns the next snapshot, or an error and no change at all:
//
//	next, err := layout.Apply(snap, layout.AddView{View: "readme", Part: "editor"})
//
// [Engine] wraps Apply with a mutex, logging, hooks, active-view
// notifications and persistence through a [store.Store].
//
// # Persistence
//
// [Serialize] and [Deserialize] convert a snapshot to and from a
// [layoutio.Document]. The conversion is lossless for every snapshot
// reachable through operations.
//
// [store.Store]: github.com/matzehuels/dockgrid/pkg/store.Store
package layout
