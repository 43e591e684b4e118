package dock

import "github.com/matzehuels/dockgrid/pkg/errors"

// Slot is one of the eight fixed docking positions around the primary area.
type Slot int

const (
	LeftTop Slot = iota
	LeftBottom
	RightTop
	RightBottom
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

var slotNames = [...]string{
	"left-top", "left-bottom",
	"right-top", "right-bottom",
	"top-left", "top-right",
	"bottom-left", "bottom-right",
}

// Slots returns all slots in declaration order.
func Slots() []Slot {
	out := make([]Slot, len(slotNames))
	for i := range slotNames {
		out[i] = Slot(i)
	}
	return out
}

// String returns the slot's kebab-case name, e.g. "left-top".
func (s Slot) String() string {
	if s.valid() {
		return slotNames[s]
	}
	return "unknown"
}

func (s Slot) valid() bool {
	return s >= 0 && int(s) < len(slotNames)
}

// ParseSlot converts a slot name to a Slot.
func ParseSlot(name string) (Slot, error) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), nil
		}
	}
	return 0, errors.UnknownReference("slot", name)
}

// Panel returns the panel the slot feeds.
func (s Slot) Panel() Panel {
	return Panel(int(s) / 2)
}

// Leading reports whether the slot is the top (left/right panels) or left
// (top/bottom panels) half of its panel.
func (s Slot) Leading() bool {
	return int(s)%2 == 0
}

// Panel is one of the four aggregate regions, each fed by two slots.
type Panel int

const (
	PanelLeft Panel = iota
	PanelRight
	PanelTop
	PanelBottom
)

var panelNames = [...]string{"left", "right", "top", "bottom"}

// Panels returns all panels in declaration order.
func Panels() []Panel {
	return []Panel{PanelLeft, PanelRight, PanelTop, PanelBottom}
}

// String returns the panel name.
func (p Panel) String() string {
	if p.valid() {
		return panelNames[p]
	}
	return "unknown"
}

func (p Panel) valid() bool {
	return p >= 0 && int(p) < len(panelNames)
}

// ParsePanel converts a panel name to a Panel.
func ParsePanel(name string) (Panel, error) {
	for i, n := range panelNames {
		if n == name {
			return Panel(i), nil
		}
	}
	return 0, errors.UnknownReference("panel", name)
}

// Slots returns the two slots feeding the panel, leading slot first.
func (p Panel) Slots() [2]Slot {
	return [2]Slot{Slot(int(p) * 2), Slot(int(p)*2 + 1)}
}

// Horizontal reports whether the panel's size is a width (left/right).
func (p Panel) Horizontal() bool {
	return p == PanelLeft || p == PanelRight
}
