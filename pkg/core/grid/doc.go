// Package grid implements the persistent binary layout tree that arranges
// parts.
//
// # Overview
//
// A grid is a binary tree whose inner nodes are [Split] containers and whose
// leaves are [Part] containers. Each part holds an ordered list of view ids
// (its tabs) and an active-view pointer. A tree with a single part has no
// split; an empty tree has a nil root.
//
//	      Split(row, 0.3)
//	     /               \
//	Part(explorer)   Split(column, 0.5)
//	                 /               \
//	           Part(editor)     Part(terminal)
//
// # Persistence
//
// [Tree] is a value type and every operation returns a new tree. Nodes are
// never mutated in place: an update copies the path from the root to the
// changed leaf and shares every untouched subtree with the previous tree.
// Holding on to an older [Tree] is therefore always safe, which is what the
// layout engine relies on to hand out immutable snapshots.
//
// # Operations
//
//   - [Tree.AddPart]: split an existing part (or the whole grid) to insert a new one
//   - [Tree.RemovePart]: delete a leaf and promote its sibling (tree contraction)
//   - [Tree.AddView], [Tree.RemoveView], [Tree.ActivateView]: tab bookkeeping
//   - [Tree.NavigatePart], [Tree.NavigateView]: mark routed content
//   - [Tree.MoveView], [Tree.SwapParts], [Tree.MovePart]: drag-and-drop effects
//   - [Tree.MoveSash], [Tree.SetSplitRatio]: splitter drags
//
// Failures are returned as *errors.Error values from pkg/errors with one of
// the layout codes (DUPLICATE_PART_ID, UNKNOWN_REFERENCE, INVALID_RATIO,
// STRUCTURAL_INVARIANT). A failed operation never returns a partial tree.
//
// # Geometry
//
// [Bounds] lays the tree out inside an outer rectangle and reports the
// rectangle of every part. Row splits divide width, column splits divide
// height, and the split ratio is always the fraction given to the first
// child.
package grid
