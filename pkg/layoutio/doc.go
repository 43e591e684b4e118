// Package layoutio defines the persisted form of a layout and encodes it as
// JSON, YAML or CBOR.
//
// A [Document] is a plain tagged tree with no behavior. Splits and parts are
// both [Node] values distinguished by their "type" field:
//
//	{"type": "split", "direction": "row", "ratio": 0.3, "child1": {...}, "child2": {...}}
//	{"type": "part", "id": "editor", "views": ["a", "b"], "active": "a", "navigated": true}
//
// Activities are keyed by id and carry their slot, their position within the
// slot, display metadata, and their grid once it has been materialized.
// Panels are keyed by name and only present once resized.
//
// Converting between a Document and a live layout is done by the layout
// package; this package only moves bytes.
//
// # Formats
//
// JSON is the default and the format used by the HTTP API. YAML is handy for
// hand-written fixtures. CBOR is the compact binary form used by the remote
// stores.
package layoutio
