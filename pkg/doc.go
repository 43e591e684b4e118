// Package pkg provides the core libraries of dockgrid, a docking layout
// engine for workbench-style applications.
//
// # Overview
//
// A workbench is a primary area surrounded by four panels. Each panel is fed
// by two of eight fixed slots, and each slot holds an ordered list of
// activities of which at most one is active. The primary area and every
// activity own a grid: a binary tree of splits whose leaves are parts, and
// parts hold views as tabs. The pkg directory is organized as follows:
//
//  1. [core] - Domain logic (grid trees, dock bookkeeping, layout operations, anchoring)
//  2. [layoutio] - The persisted document form and its JSON, YAML and CBOR codecs
//  3. [store] - Persistence backends for serialized layouts
//  4. [render] - DOT, SVG, PDF and PNG views of a layout
//  5. [config] - TOML configuration shared by the CLI and the server
//
// # Architecture
//
// The typical data flow through dockgrid:
//
//	Operation (add-part, activate-view, move-sash, ...)
//	         ↓
//	    [core/layout] Apply (validated, pure, revision + 1)
//	         ↓
//	    [core/layout] Engine (serialized, listeners, auto-save)
//	         ↓
//	    [layoutio] Document → [store] backend
//
// # Quick Start
//
// Build a layout and query it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/dockgrid/pkg/core/layout"
//	)
//
//	e := layout.NewEngine(layout.Options{})
//	ctx := context.Background()
//
//	// 1. Dock an activity in the left-top slot
//	e.Apply(ctx, layout.AddPart{ID: "explorer", Slot: "left-top", Label: "Explorer"})
//
//	// 2. Route a view into it and open its panel
//	e.Apply(ctx, layout.NavigateView{View: "files", Part: "explorer"})
//	e.Apply(ctx, layout.ActivatePart{Part: "explorer"})
//
//	// 3. Ask the registry what is on screen
//	visible := e.Registry().IsViewActive("files")
//
// # Main Packages
//
// [core/grid] - Persistent copy-on-write binary layout tree. Every operation
// returns a new tree and shares untouched subtrees with the old one.
//
// [core/dock] - Immutable slot and panel bookkeeping: one active activity
// per slot, panel sizes and stacking ratios.
//
// [core/layout] - Snapshots combining the main grid, the activity grids and
// the dock; typed operations; the view registry and the engine.
//
// [core/anchor] - Popup placement against an anchor element or view, with
// visibility tracking and stale-update rejection.
//
// [store] - File, diskv, Redis, MongoDB, memory and null backends behind a
// single Load/Save interface.
//
// [render/nodelink] - Graphviz rendering of the grids of a snapshot.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/core/grid/...  # Specific package
//
// [core]: https://pkg.go.dev/github.com/matzehuels/dockgrid/pkg/core
// [core/grid]: https://pkg.go.dev/github.com/matzehuels/dockgrid/pkg/core/grid
// [core/dock]: https://pkg.go.dev/github.com/matzehuels/dockgrid/pkg/core/dock
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/dockgrid/pkg/core/layout
// [core/anchor]: https://pkg.go.dev/github.com/matzehuels/dockgrid/pkg/core/anchor
// [layoutio]: https://pkg.go.dev/github.com/matzehuels/dockgrid/pkg/layoutio
// [store]: https://pkg.go.dev/github.com/matzehuels/dockgrid/pkg/store
// [render]: https://pkg.go.dev/github.com/matzehuels/dockgrid/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/dockgrid/pkg/render/nodelink
// [config]: https://pkg.go.dev/github.com/matzehuels/dockgrid/pkg/config
package pkg
