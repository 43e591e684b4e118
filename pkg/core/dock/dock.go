// Package dock keeps the bookkeeping for activities docked around the
// primary area: which activities sit in which of the eight slots, which one
// is active per slot, and the size and internal ratio of the four panels
// those slots feed.
//
// [State] is immutable. Every operation returns a new State and leaves the
// receiver untouched, so snapshots holding an older State stay valid.
//
// Each slot behaves as a small state machine:
//
//	no activities --Declare--> present, none active --Activate--> one active
//	one active --Deactivate--> present, none active
//	any --Remove--> present, none active | no activities
//
// A panel is open iff at least one of its two slots has an active activity.
package dock

import (
	"maps"
	"slices"

	"github.com/matzehuels/dockgrid/pkg/core/grid"
	"github.com/matzehuels/dockgrid/pkg/errors"
)

// Sizing defaults, in pixels.
const (
	DefaultPanelSize  = 300
	MinPanelSize      = 100
	DefaultPanelRatio = 0.5

	// MinRatio keeps both stacked activities visible when the internal
	// splitter is dragged to an extreme.
	MinRatio = 0.05
)

// Activity is a dockable entry whose content lives in its own grid.
type Activity struct {
	ID          string
	Icon        string
	Label       string
	Title       string // optional fallback title for the activity grid
	TooltipText string // optional; Tooltip falls back to Label
	Slot        Slot
	PartID      string // root part of the activity grid
}

// Tooltip returns the tooltip text, falling back to the label.
func (a Activity) Tooltip() string {
	if a.TooltipText != "" {
		return a.TooltipText
	}
	return a.Label
}

// SlotState is the ordered activity list of a slot and its active member.
type SlotState struct {
	Activities []string
	Active     string // empty when no activity is active
}

// PanelState holds user-resized panel dimensions. Zero fields mean "use the
// default".
type PanelState struct {
	Size  float64
	Ratio float64
}

// Sizing configures panel defaults and limits.
type Sizing struct {
	DefaultSize float64
	MinSize     float64
	// Overrides replaces DefaultSize for individual panels.
	Overrides map[Panel]float64
}

// DefaultSizing returns the built-in sizing.
func DefaultSizing() Sizing {
	return Sizing{DefaultSize: DefaultPanelSize, MinSize: MinPanelSize}
}

func (z Sizing) defaultFor(p Panel) float64 {
	if v, ok := z.Overrides[p]; ok && v > 0 {
		return v
	}
	if z.DefaultSize > 0 {
		return z.DefaultSize
	}
	return DefaultPanelSize
}

// State is the immutable dock state.
type State struct {
	Slots      map[Slot]SlotState // only slots holding activities
	Activities map[string]Activity
	Panels     map[Panel]PanelState // only panels that were resized
	Sizing     Sizing
}

// New returns an empty dock with the given sizing.
func New(sizing Sizing) State {
	return State{
		Slots:      map[Slot]SlotState{},
		Activities: map[string]Activity{},
		Panels:     map[Panel]PanelState{},
		Sizing:     sizing,
	}
}

func (s State) clone() State {
	return State{
		Slots:      maps.Clone(s.Slots),
		Activities: maps.Clone(s.Activities),
		Panels:     maps.Clone(s.Panels),
		Sizing:     s.Sizing,
	}
}

// Activity returns the activity with the given id.
func (s State) Activity(id string) (Activity, bool) {
	a, ok := s.Activities[id]
	return a, ok
}

// ActivityOfPart returns the activity whose root part is partID.
func (s State) ActivityOfPart(partID string) (Activity, bool) {
	for _, a := range s.Activities {
		if a.PartID == partID {
			return a, true
		}
	}
	return Activity{}, false
}

// InSlot returns the ordered activity ids docked in the slot.
func (s State) InSlot(slot Slot) []string {
	return slices.Clone(s.Slots[slot].Activities)
}

// ActiveIn returns the active activity of the slot, or "".
func (s State) ActiveIn(slot Slot) string {
	return s.Slots[slot].Active
}

// IsActive reports whether the activity is the active one in its slot.
func (s State) IsActive(id string) bool {
	a, ok := s.Activities[id]
	return ok && s.Slots[a.Slot].Active == id
}

// Declare docks a new activity at the end of its slot.
func (s State) Declare(a Activity) (State, error) {
	if err := errors.ValidateID("activity", a.ID); err != nil {
		return s, err
	}
	if err := errors.ValidateID("part", a.PartID); err != nil {
		return s, err
	}
	if !a.Slot.valid() {
		return s, errors.UnknownReference("slot", a.Slot.String())
	}
	if _, dup := s.Activities[a.ID]; dup {
		return s, errors.DuplicateID("activity", a.ID)
	}
	if _, dup := s.ActivityOfPart(a.PartID); dup {
		return s, errors.DuplicateID("part", a.PartID)
	}

	next := s.clone()
	next.Activities[a.ID] = a
	st := next.Slots[a.Slot]
	st.Activities = append(slices.Clone(st.Activities), a.ID)
	next.Slots[a.Slot] = st
	return next, nil
}

// Activate makes the activity the active one of its slot, deactivating the
// previous one. Activating the active activity is a no-op.
func (s State) Activate(id string) (State, error) {
	a, ok := s.Activities[id]
	if !ok {
		return s, errors.UnknownReference("activity", id)
	}
	if s.Slots[a.Slot].Active == id {
		return s, nil
	}
	next := s.clone()
	st := next.Slots[a.Slot]
	st.Active = id
	next.Slots[a.Slot] = st
	return next, nil
}

// Deactivate clears the active activity of its slot. It fails unless id is
// the slot's active activity.
func (s State) Deactivate(id string) (State, error) {
	a, ok := s.Activities[id]
	if !ok {
		return s, errors.UnknownReference("activity", id)
	}
	if s.Slots[a.Slot].Active != id {
		return s, errors.Structural("activity %q is not active in slot %s", id, a.Slot)
	}
	next := s.clone()
	st := next.Slots[a.Slot]
	st.Active = ""
	next.Slots[a.Slot] = st
	return next, nil
}

// Remove drops the activity from its slot, clearing the slot's active
// activity if it was the removed one.
func (s State) Remove(id string) (State, error) {
	a, ok := s.Activities[id]
	if !ok {
		return s, errors.UnknownReference("activity", id)
	}
	next := s.clone()
	delete(next.Activities, id)

	st := next.Slots[a.Slot]
	st.Activities = slices.DeleteFunc(slices.Clone(st.Activities), func(v string) bool { return v == id })
	if st.Active == id {
		st.Active = ""
	}
	if len(st.Activities) == 0 {
		delete(next.Slots, a.Slot)
	} else {
		next.Slots[a.Slot] = st
	}
	return next, nil
}

// Rebind points the activity at a new root part. The layout calls it when
// the previous root part is removed from a grid that still has parts.
func (s State) Rebind(id, partID string) (State, error) {
	a, ok := s.Activities[id]
	if !ok {
		return s, errors.UnknownReference("activity", id)
	}
	if err := errors.ValidateID("part", partID); err != nil {
		return s, err
	}
	if other, dup := s.ActivityOfPart(partID); dup && other.ID != id {
		return s, errors.DuplicateID("part", partID)
	}
	next := s.clone()
	a.PartID = partID
	next.Activities[id] = a
	return next, nil
}

// ResolveTitle returns the title shown for the activity's content: the title
// of the top-left-most part of its grid that defines one, else the
// activity's own title, else its label.
func ResolveTitle(a Activity, t grid.Tree) string {
	if p := t.TopLeft(func(p *grid.Part) bool { return p.Title != "" }); p != nil {
		return p.Title
	}
	if a.Title != "" {
		return a.Title
	}
	return a.Label
}
