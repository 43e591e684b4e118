package layout

import (
	"slices"
	"strings"

	"github.com/matzehuels/dockgrid/pkg/core/grid"
)

// Registry indexes a snapshot for constant-time lookups of parts and views.
// It is immutable and tied to the snapshot it was built from.
type Registry struct {
	snap     Snapshot
	parts    map[string]*grid.Part
	partGrid map[string]string
	viewPart map[string]string
}

// NewRegistry indexes every grid of s. Reserved root parts of
// unmaterialized activities are indexed too, without a *grid.Part.
func NewRegistry(s Snapshot) *Registry {
	r := &Registry{
		snap:     s,
		parts:    make(map[string]*grid.Part),
		partGrid: make(map[string]string),
		viewPart: make(map[string]string),
	}
	for key, t := range s.Grids {
		for _, p := range t.Parts() {
			r.parts[p.ID] = p
			r.partGrid[p.ID] = key
			for _, v := range p.Views {
				r.viewPart[v] = p.ID
			}
		}
	}
	for id, a := range s.Dock.Activities {
		if _, ok := r.partGrid[a.PartID]; !ok {
			r.partGrid[a.PartID] = id
		}
	}
	return r
}

// Snapshot returns the indexed snapshot.
func (r *Registry) Snapshot() Snapshot { return r.snap }

// Part returns the part with the given id, or nil.
func (r *Registry) Part(id string) *grid.Part { return r.parts[id] }

// PartOfView returns the id of the part holding the view.
func (r *Registry) PartOfView(viewID string) (string, bool) {
	id, ok := r.viewPart[viewID]
	return id, ok
}

// GridOfPart returns the grid key of the part: MainGrid or an activity id.
func (r *Registry) GridOfPart(partID string) (string, bool) {
	key, ok := r.partGrid[partID]
	return key, ok
}

// IsGridVisible reports whether a grid is on screen: the main grid always
// is, an activity grid only while its activity is active.
func (r *Registry) IsGridVisible(key string) bool {
	if key == MainGrid {
		return true
	}
	return r.snap.Dock.IsActive(key)
}

// IsPartVisible reports whether the part's grid is visible and, in the main
// grid, whether no other part is maximized.
func (r *Registry) IsPartVisible(partID string) bool {
	key, ok := r.partGrid[partID]
	if !ok || !r.IsGridVisible(key) {
		return false
	}
	if key == MainGrid && r.snap.Maximized != "" {
		return r.snap.Maximized == partID
	}
	return true
}

// IsViewActive reports whether the view is the active view of its part and
// that part is visible.
func (r *Registry) IsViewActive(viewID string) bool {
	partID, ok := r.viewPart[viewID]
	if !ok {
		return false
	}
	return r.parts[partID].Active == viewID && r.IsPartVisible(partID)
}

// ActiveViewChange reports that a part's active view changed between two
// snapshots. Current is empty when the part lost its last view or was
// removed.
type ActiveViewChange struct {
	PartID   string `json:"part"`
	Previous string `json:"previous,omitempty"`
	Current  string `json:"current,omitempty"`
}

// ActiveViewChanges lists the parts whose active view differs between prev
// and next, ordered by part id.
func ActiveViewChanges(prev, next *Registry) []ActiveViewChange {
	var out []ActiveViewChange
	for id, p := range next.parts {
		before := ""
		if old := prev.parts[id]; old != nil {
			before = old.Active
		}
		if before != p.Active {
			out = append(out, ActiveViewChange{PartID: id, Previous: before, Current: p.Active})
		}
	}
	for id, old := range prev.parts {
		if _, ok := next.parts[id]; !ok && old.Active != "" {
			out = append(out, ActiveViewChange{PartID: id, Previous: old.Active})
		}
	}
	sortChanges(out)
	return out
}

func sortChanges(c []ActiveViewChange) {
	slices.SortFunc(c, func(a, b ActiveViewChange) int { return strings.Compare(a.PartID, b.PartID) })
}
