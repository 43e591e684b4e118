package grid

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/dockgrid/pkg/errors"
)

// MinRatio is the smallest fraction a sash drag may leave to either child.
const MinRatio = 0.05

// Direction is the axis along which a split divides its space.
type Direction int

const (
	// Row places the children side by side (first on the left).
	Row Direction = iota
	// Column stacks the children (first on top).
	Column
)

// String returns "row" or "column".
func (d Direction) String() string {
	if d == Column {
		return "column"
	}
	return "row"
}

// ParseDirection converts "row" or "column" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "row":
		return Row, nil
	case "column":
		return Column, nil
	}
	return Row, errors.New(errors.ErrCodeInvalidInput, "unknown split direction %q", s)
}

// Align says on which side of the reference part a new part is placed.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignTop
	AlignBottom
)

var alignNames = [...]string{"left", "right", "top", "bottom"}

// String returns the lowercase side name.
func (a Align) String() string {
	if int(a) < len(alignNames) {
		return alignNames[a]
	}
	return "unknown"
}

// ParseAlign converts a side name to an Align.
func ParseAlign(s string) (Align, error) {
	for i, name := range alignNames {
		if name == s {
			return Align(i), nil
		}
	}
	return AlignLeft, errors.New(errors.ErrCodeInvalidInput, "unknown align %q", s)
}

// direction returns the split axis produced by inserting on side a.
func (a Align) direction() Direction {
	if a == AlignTop || a == AlignBottom {
		return Column
	}
	return Row
}

// first reports whether the new part becomes the first child.
func (a Align) first() bool {
	return a == AlignLeft || a == AlignTop
}

// Node is either a *Split or a *Part.
type Node interface {
	isNode()
}

// Split is an inner node with exactly two children.
type Split struct {
	Direction Direction
	Ratio     float64 // fraction of space given to First, in (0,1)
	First     Node
	Second    Node
}

// Part is a leaf container of tabbed views.
//
// A Part reachable from a Tree must be treated as read-only; use the Tree
// operations to derive modified copies.
type Part struct {
	ID        string
	Views     []string // ordered, unique
	Active    string   // empty or one of Views
	Navigated bool     // content has been routed into the part
	Title     string   // optional title the part defines
}

func (*Split) isNode() {}
func (*Part) isNode()  {}

// HasView reports whether the part lists viewID.
func (p *Part) HasView(viewID string) bool {
	return slices.Contains(p.Views, viewID)
}

// Empty reports whether the part holds no views.
func (p *Part) Empty() bool {
	return len(p.Views) == 0
}

// clone returns a copy whose Views slice is not shared.
func (p *Part) clone() *Part {
	c := *p
	c.Views = slices.Clone(p.Views)
	return &c
}

// NewID returns a random identifier with the given prefix, e.g. "part-1b4e28ba".
func NewID(prefix string) string {
	id := uuid.NewString()[:8]
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
