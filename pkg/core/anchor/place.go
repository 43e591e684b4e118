// Package anchor positions popups next to an anchor point or element and
// keeps them inside the view or part that scopes them.
//
// [Place] is a pure function of the anchor box, the scoping bounds, the
// alignment and the popup size; calling it twice with the same inputs yields
// the same placement. [Tracker] resolves those inputs from a layout snapshot
// and live element geometry every time the host samples it (scroll, resize,
// relayout) and decides whether the popup is visible at all.
package anchor

import (
	"github.com/matzehuels/dockgrid/pkg/core/geom"
	"github.com/matzehuels/dockgrid/pkg/errors"
)

// DefaultDiamondOffset is the gap, in pixels, left between the anchor and the
// popup for the diamond-shaped pointer.
const DefaultDiamondOffset = 8

// Align is the side of the anchor the popup sits on.
type Align int

const (
	North Align = iota
	South
	East
	West
)

var alignNames = [...]string{"north", "south", "east", "west"}

func (a Align) String() string {
	if a >= 0 && int(a) < len(alignNames) {
		return alignNames[a]
	}
	return "unknown"
}

// ParseAlign converts an alignment name to an Align.
func ParseAlign(name string) (Align, error) {
	for i, n := range alignNames {
		if n == name {
			return Align(i), nil
		}
	}
	return North, errors.New(errors.ErrCodeInvalidInput, "unknown popup alignment %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (a Align) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Align) UnmarshalText(b []byte) error {
	v, err := ParseAlign(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Size is a popup's width and height.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Placement is the computed popup position.
type Placement struct {
	// Popup is the popup's box.
	Popup geom.Rect `json:"popup"`
	// Anchor is the effective anchor point after clamping.
	Anchor geom.Point `json:"anchor"`
	// Clamped is true when the true anchor point lay outside the bounds.
	Clamped bool `json:"clamped"`
}

// edgePoint returns the point of the anchor box the popup attaches to: the
// middle of the edge facing the popup.
func edgePoint(r geom.Rect, align Align) geom.Point {
	c := r.Center()
	switch align {
	case South:
		return geom.Point{X: c.X, Y: r.Bottom()}
	case East:
		return geom.Point{X: r.Right(), Y: c.Y}
	case West:
		return geom.Point{X: r.Left(), Y: c.Y}
	}
	return geom.Point{X: c.X, Y: r.Top()}
}

// Place positions a popup of the given size on the align side of the anchor
// box, offset by the diamond gap. The attachment point is clamped into
// bounds on each axis first, so a popup whose anchor scrolled out of its
// view sticks to the nearest edge of that view.
//
//	north: popup bottom = anchor top - offset, centered horizontally
//	south: popup top = anchor bottom + offset, centered horizontally
//	east:  popup left = anchor right + offset, centered vertically
//	west:  popup right = anchor left - offset, centered vertically
func Place(anchor, bounds geom.Rect, align Align, size Size, offset float64) Placement {
	actual := edgePoint(anchor, align)
	p := geom.Clamp(actual, bounds)

	var r geom.Rect
	r.Width, r.Height = size.Width, size.Height
	switch align {
	case North:
		r.X, r.Y = p.X-size.Width/2, p.Y-offset-size.Height
	case South:
		r.X, r.Y = p.X-size.Width/2, p.Y+offset
	case East:
		r.X, r.Y = p.X+offset, p.Y-size.Height/2
	case West:
		r.X, r.Y = p.X-offset-size.Width, p.Y-size.Height/2
	}
	return Placement{Popup: r, Anchor: p, Clamped: p != actual}
}
