package dock

import (
	"github.com/matzehuels/dockgrid/pkg/core/geom"
	"github.com/matzehuels/dockgrid/pkg/errors"
)

// IsOpen reports whether either slot feeding the panel has an active
// activity.
func (s State) IsOpen(p Panel) bool {
	lead, trail := s.slotsOpen(p)
	return lead || trail
}

// BothOpen reports whether both stacked slots of the panel are active, the
// only case in which the panel ratio matters.
func (s State) BothOpen(p Panel) bool {
	lead, trail := s.slotsOpen(p)
	return lead && trail
}

func (s State) slotsOpen(p Panel) (bool, bool) {
	slots := p.Slots()
	return s.Slots[slots[0]].Active != "", s.Slots[slots[1]].Active != ""
}

// PanelSize returns the panel's width (left/right) or height (top/bottom).
func (s State) PanelSize(p Panel) float64 {
	if ps, ok := s.Panels[p]; ok && ps.Size > 0 {
		return ps.Size
	}
	return s.Sizing.defaultFor(p)
}

// PanelRatio returns the fraction of the panel given to its leading slot
// when both slots are open.
func (s State) PanelRatio(p Panel) float64 {
	if ps, ok := s.Panels[p]; ok && ps.Ratio > 0 {
		return ps.Ratio
	}
	return DefaultPanelRatio
}

// Split returns how the panel's extent along its stacking axis is shared
// between the leading and trailing slot. A closed slot gets zero; a lone
// open slot gets everything.
func (s State) Split(p Panel, extent float64) (lead, trail float64) {
	l, t := s.slotsOpen(p)
	switch {
	case l && t:
		r := s.PanelRatio(p)
		return extent * r, extent * (1 - r)
	case l:
		return extent, 0
	case t:
		return 0, extent
	}
	return 0, 0
}

// Resize grows or shrinks the panel by deltaPx, clamped to the minimum size.
func (s State) Resize(p Panel, deltaPx float64) (State, error) {
	return s.SetPanelSize(p, s.PanelSize(p)+deltaPx)
}

// SetPanelSize sets the panel size, clamped to the minimum size.
func (s State) SetPanelSize(p Panel, size float64) (State, error) {
	if !p.valid() {
		return s, errors.UnknownReference("panel", p.String())
	}
	minSize := s.Sizing.MinSize
	if minSize <= 0 {
		minSize = MinPanelSize
	}
	if size < minSize {
		size = minSize
	}
	next := s.clone()
	ps := next.Panels[p]
	ps.Size = size
	next.Panels[p] = ps
	return next, nil
}

// MoveSplitter drags the splitter between the panel's two stacked
// activities by deltaPx. The ratio changes by deltaPx over the panel's
// stacking extent and is clamped to [MinRatio, 1-MinRatio].
//
// For left/right panels the stacking extent is the panel height, which the
// dock does not own; callers pass it in. Top/bottom panels stack along their
// width, likewise passed in.
func (s State) MoveSplitter(p Panel, deltaPx, extentPx float64) (State, error) {
	if !p.valid() {
		return s, errors.UnknownReference("panel", p.String())
	}
	if !(extentPx > 0) {
		return s, errors.New(errors.ErrCodeInvalidInput, "panel extent must be positive, got %v", extentPx)
	}
	r := geom.ClampValue(s.PanelRatio(p)+deltaPx/extentPx, MinRatio, 1-MinRatio)
	return s.SetPanelRatio(p, r)
}

// SetPanelRatio sets the leading slot's share of the panel.
func (s State) SetPanelRatio(p Panel, ratio float64) (State, error) {
	if !p.valid() {
		return s, errors.UnknownReference("panel", p.String())
	}
	if err := errors.ValidateRatio(ratio); err != nil {
		return s, err
	}
	next := s.clone()
	ps := next.Panels[p]
	ps.Ratio = ratio
	next.Panels[p] = ps
	return next, nil
}
