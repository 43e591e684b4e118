package anchor

import (
	"sync"

	"github.com/matzehuels/dockgrid/pkg/core/geom"
	"github.com/matzehuels/dockgrid/pkg/core/grid"
	"github.com/matzehuels/dockgrid/pkg/core/layout"
)

// ElementSource reports the live on-screen box of rendered elements. ok is
// false for elements that are not attached.
type ElementSource interface {
	ElementBounds(id string) (r geom.Rect, ok bool)
}

// ElementMap is an ElementSource backed by a map.
type ElementMap map[string]geom.Rect

// ElementBounds implements ElementSource.
func (m ElementMap) ElementBounds(id string) (geom.Rect, bool) {
	r, ok := m[id]
	return r, ok
}

// Anchor is what a popup attaches to: either the box of a live element, or
// a point relative to a reference element's origin. An anchor with a Point
// and no Element is in screen coordinates.
type Anchor struct {
	Element string      `json:"element,omitempty"`
	Point   *geom.Point `json:"point,omitempty"`
}

// Popup describes a popup scoped to a view or, when ViewID is empty, to a
// part.
type Popup struct {
	ID     string `json:"id"`
	ViewID string `json:"view,omitempty"`
	PartID string `json:"part,omitempty"`
	Anchor Anchor `json:"anchor"`
	Align  Align  `json:"align"`
	Size   Size   `json:"size"`
}

// Result is the outcome of one tracker update. Hidden popups carry no
// placement but keep their state.
type Result struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Visible   bool      `json:"visible"`
	Placement Placement `json:"placement"`
	State     any       `json:"state,omitempty"`
}

// Tracker recomputes popup placements against a layout. It is safe for
// concurrent use. Each Update is stamped with a sequence number so callers
// can drop results superseded by a newer sample.
type Tracker struct {
	elements ElementSource
	offset   float64

	mu     sync.Mutex
	seq    uint64
	states map[string]any
}

// NewTracker creates a tracker reading element geometry from elements.
// A non-positive offset uses DefaultDiamondOffset.
func NewTracker(elements ElementSource, offset float64) *Tracker {
	if offset <= 0 {
		offset = DefaultDiamondOffset
	}
	if elements == nil {
		elements = ElementMap(nil)
	}
	return &Tracker{elements: elements, offset: offset, states: make(map[string]any)}
}

// SetState stores opaque popup state that survives hiding.
func (t *Tracker) SetState(popupID string, state any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[popupID] = state
}

// Forget drops a popup's state.
func (t *Tracker) Forget(popupID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, popupID)
}

// Update samples the layout and element geometry and places the popup.
// areas maps grid keys (layout.MainGrid or an activity id) to the outer box
// the renderer gave that grid.
//
// The popup is hidden, never failed, when its view is inactive, its part is
// off screen, its anchor element is detached, or its scoping bounds cannot
// be resolved.
func (t *Tracker) Update(reg *layout.Registry, areas map[string]geom.Rect, p Popup) Result {
	t.mu.Lock()
	t.seq++
	res := Result{ID: p.ID, Seq: t.seq, State: t.states[p.ID]}
	t.mu.Unlock()

	partID := p.PartID
	if p.ViewID != "" {
		owner, ok := reg.PartOfView(p.ViewID)
		if !ok || !reg.IsViewActive(p.ViewID) {
			return res
		}
		partID = owner
	}
	if partID == "" || !reg.IsPartVisible(partID) {
		return res
	}

	bounds, ok := t.scope(reg, areas, p.ViewID, partID)
	if !ok {
		return res
	}
	box, ok := t.resolve(p.Anchor)
	if !ok {
		return res
	}
	res.Visible = true
	res.Placement = Place(box, bounds, p.Align, p.Size, t.offset)
	return res
}

// scope returns the part's box within its grid area, narrowed to the view's
// live box when the renderer reports one. A view box that does not overlap
// its part leaves nothing to scope to.
func (t *Tracker) scope(reg *layout.Registry, areas map[string]geom.Rect, viewID, partID string) (geom.Rect, bool) {
	part, ok := PartBounds(reg, areas, partID)
	if !ok {
		return geom.Rect{}, false
	}
	if viewID == "" {
		return part, true
	}
	r, ok := t.elements.ElementBounds(viewID)
	if !ok {
		return part, true
	}
	clip := r.Intersect(part)
	if clip.Empty() {
		return geom.Rect{}, false
	}
	return clip, true
}

// PartBounds lays out the grid holding partID inside its area and returns
// the part's box. A maximized main-grid part fills the whole area.
func PartBounds(reg *layout.Registry, areas map[string]geom.Rect, partID string) (geom.Rect, bool) {
	key, ok := reg.GridOfPart(partID)
	if !ok {
		return geom.Rect{}, false
	}
	area, ok := areas[key]
	if !ok {
		return geom.Rect{}, false
	}
	s := reg.Snapshot()
	if key == layout.MainGrid && s.Maximized == partID {
		return area, true
	}
	tree := s.Grid(key)
	if tree.IsEmpty() {
		// reserved part of an activity that has no content yet
		return area, true
	}
	r, ok := grid.Bounds(tree, area)[partID]
	return r, ok
}

func (t *Tracker) resolve(a Anchor) (geom.Rect, bool) {
	var origin geom.Rect
	if a.Element != "" {
		r, ok := t.elements.ElementBounds(a.Element)
		if !ok {
			return geom.Rect{}, false
		}
		origin = r
	}
	if a.Point == nil {
		if a.Element == "" {
			return geom.Rect{}, false
		}
		return origin, true
	}
	return geom.Rect{X: origin.X + a.Point.X, Y: origin.Y + a.Point.Y}, true
}

// Latest keeps the newest result per popup, discarding stale ones.
type Latest struct {
	mu      sync.Mutex
	results map[string]Result
}

// Offer records r unless a result with a higher sequence number is already
// held for the same popup. It reports whether r was kept.
func (l *Latest) Offer(r Result) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.results == nil {
		l.results = make(map[string]Result)
	}
	if cur, ok := l.results[r.ID]; ok && cur.Seq > r.Seq {
		return false
	}
	l.results[r.ID] = r
	return true
}

// Get returns the newest result for a popup.
func (l *Latest) Get(popupID string) (Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.results[popupID]
	return r, ok
}
