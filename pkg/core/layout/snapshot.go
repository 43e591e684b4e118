package layout

import (
	"maps"
	"sort"

	"github.com/matzehuels/dockgrid/pkg/core/dock"
	"github.com/matzehuels/dockgrid/pkg/core/grid"
	"github.com/matzehuels/dockgrid/pkg/errors"
)

const (
	// MainGrid keys the primary area's grid.
	MainGrid = "main"

	// MainAreaPartID is the reserved part seeded into the main grid by
	// [Default].
	MainAreaPartID = "main-area"
)

// Snapshot is an immutable layout state. Operations never modify a snapshot;
// they return a new one sharing whatever did not change.
type Snapshot struct {
	// Grids holds the main grid and every materialized activity grid.
	Grids map[string]grid.Tree
	Dock  dock.State

	// Maximized is a main-grid part shown alone, or "".
	Maximized string

	// Revision counts applied operations.
	Revision uint64
}

// Empty returns a snapshot with an empty main grid and no activities.
func Empty(sizing dock.Sizing) Snapshot {
	return Snapshot{
		Grids: map[string]grid.Tree{MainGrid: {}},
		Dock:  dock.New(sizing),
	}
}

// Default returns a snapshot whose main grid holds the reserved main area
// part.
func Default(sizing dock.Sizing) Snapshot {
	s := Empty(sizing)
	s.Grids[MainGrid] = grid.Single(&grid.Part{ID: MainAreaPartID})
	return s
}

// Grid returns the grid with the given key. Unmaterialized activity grids
// and unknown keys yield an empty tree.
func (s Snapshot) Grid(key string) grid.Tree {
	return s.Grids[key]
}

// GridKeys returns the main grid key followed by the materialized activity
// grid keys in sorted order.
func (s Snapshot) GridKeys() []string {
	keys := []string{MainGrid}
	for k := range s.Grids {
		if k != MainGrid {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys[1:])
	return keys
}

// Walk visits the nodes of a grid depth-first, first child before second.
func (s Snapshot) Walk(key string, fn func(n grid.Node, depth int) bool) {
	s.Grids[key].Walk(fn)
}

// Materialized reports whether the activity's grid exists.
func (s Snapshot) Materialized(activityID string) bool {
	_, ok := s.Grids[activityID]
	return ok && activityID != MainGrid
}

// Title resolves the display title of an activity.
func (s Snapshot) Title(activityID string) (string, bool) {
	a, ok := s.Dock.Activity(activityID)
	if !ok {
		return "", false
	}
	return dock.ResolveTitle(a, s.Grids[activityID]), true
}

// Part returns the part with the given id from any grid, along with its grid
// key. Unmaterialized activity parts are not returned.
func (s Snapshot) Part(id string) (*grid.Part, string) {
	for key, t := range s.Grids {
		if p := t.Find(id); p != nil {
			return p, key
		}
	}
	return nil, ""
}

// ViewOwner returns the part holding the view and its grid key.
func (s Snapshot) ViewOwner(viewID string) (*grid.Part, string) {
	for key, t := range s.Grids {
		if p := t.FindView(viewID); p != nil {
			return p, key
		}
	}
	return nil, ""
}

// locate returns the grid key of a part, including the reserved root part
// of an activity whose grid is not materialized yet.
func (s Snapshot) locate(partID string) (key string, materialized bool, ok bool) {
	if _, key := s.Part(partID); key != "" {
		return key, true, true
	}
	if a, ok := s.Dock.ActivityOfPart(partID); ok {
		return a.ID, false, true
	}
	return "", false, false
}

// partTaken reports whether id is used by a part in any grid or reserved by
// an activity.
func (s Snapshot) partTaken(id string) bool {
	_, _, ok := s.locate(id)
	return ok
}

func (s Snapshot) withGrid(key string, t grid.Tree) Snapshot {
	grids := maps.Clone(s.Grids)
	if t.IsEmpty() && key != MainGrid {
		delete(grids, key)
	} else {
		grids[key] = t
	}
	s.Grids = grids
	return s
}

func (s Snapshot) withDock(d dock.State) Snapshot {
	s.Dock = d
	return s
}

// resolve returns the grid holding partID, materializing the activity grid
// when the part is an activity's reserved root part.
func (s Snapshot) resolve(partID string) (Snapshot, string, error) {
	key, materialized, ok := s.locate(partID)
	if !ok {
		return s, "", errors.UnknownReference("part", partID)
	}
	if !materialized {
		s = s.withGrid(key, grid.Single(&grid.Part{ID: partID}))
	}
	return s, key, nil
}

// activityOf returns the activity owning the grid key, if any.
func (s Snapshot) activityOf(key string) (dock.Activity, bool) {
	if key == MainGrid {
		return dock.Activity{}, false
	}
	return s.Dock.Activity(key)
}

// Validate checks the invariants spanning grids and dock: ids are unique
// across all grids, every grid other than the main grid belongs to an
// activity and contains that activity's root part, and reserved activity
// parts do not collide with grid parts.
func (s Snapshot) Validate() error {
	if _, ok := s.Grids[MainGrid]; !ok {
		return errors.Structural("snapshot has no main grid")
	}
	parts := make(map[string]string)
	views := make(map[string]string)
	for _, key := range s.GridKeys() {
		t := s.Grids[key]
		if key != MainGrid {
			a, ok := s.Dock.Activity(key)
			if !ok {
				return errors.Structural("grid %q has no activity", key)
			}
			if t.IsEmpty() {
				return errors.Structural("activity %q has an empty grid", key)
			}
			if t.Find(a.PartID) == nil {
				return errors.Structural("activity %q grid lacks its part %q", key, a.PartID)
			}
		}
		if err := t.Validate(parts, views); err != nil {
			return err
		}
	}
	for _, a := range s.Dock.Activities {
		if s.Materialized(a.ID) {
			continue
		}
		if _, dup := parts[a.PartID]; dup {
			return errors.DuplicateID("part", a.PartID)
		}
		parts[a.PartID] = a.PartID
	}
	if s.Maximized != "" && s.Grids[MainGrid].Find(s.Maximized) == nil {
		return errors.Structural("maximized part %q is not in the main grid", s.Maximized)
	}
	return nil
}
