package dock

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/dockgrid/pkg/core/grid"
	"github.com/matzehuels/dockgrid/pkg/errors"
)

// declareAll docks two activities per slot: "<slot>-0" and "<slot>-1".
func declareAll(t *testing.T) State {
	t.Helper()
	s := New(DefaultSizing())
	for _, slot := range Slots() {
		for i := 0; i < 2; i++ {
			id := fmt.Sprintf("%s-%d", slot, i)
			var err error
			s, err = s.Declare(Activity{ID: id, Label: id, Slot: slot, PartID: id + "-part"})
			if err != nil {
				t.Fatalf("Declare(%s): %v", id, err)
			}
		}
	}
	return s
}

func activeSet(s State) []string {
	var out []string
	for _, slot := range Slots() {
		if a := s.ActiveIn(slot); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// 16 activities across 8 slots; activating each in turn shows
// exactly its own activity; deactivating restores the all-none baseline.
func TestActivateEachInTurn(t *testing.T) {
	s := declareAll(t)
	if got := activeSet(s); len(got) != 0 {
		t.Fatalf("baseline active = %v", got)
	}

	for _, slot := range Slots() {
		for _, id := range s.InSlot(slot) {
			on, err := s.Activate(id)
			if err != nil {
				t.Fatalf("Activate(%s): %v", id, err)
			}
			got := activeSet(on)
			if len(got) != 1 || got[0] != id {
				t.Errorf("after activating %s: active = %v", id, got)
			}
			if !on.IsOpen(slot.Panel()) {
				t.Errorf("panel %s should be open", slot.Panel())
			}
			for _, p := range Panels() {
				if p != slot.Panel() && on.IsOpen(p) {
					t.Errorf("panel %s should stay closed", p)
				}
			}

			off, err := on.Deactivate(id)
			if err != nil {
				t.Fatalf("Deactivate(%s): %v", id, err)
			}
			if got := activeSet(off); len(got) != 0 {
				t.Errorf("after deactivating %s: active = %v", id, got)
			}
		}
	}
}

func TestActivateReplacesWithinSlotOnly(t *testing.T) {
	s := declareAll(t)
	s, _ = s.Activate("left-top-0")
	s, _ = s.Activate("right-top-1")
	s, _ = s.Activate("left-top-1")

	if got := s.ActiveIn(LeftTop); got != "left-top-1" {
		t.Errorf("left-top active = %q", got)
	}
	if got := s.ActiveIn(RightTop); got != "right-top-1" {
		t.Errorf("right-top active = %q (other slots must be unaffected)", got)
	}

	again, err := s.Activate("left-top-1")
	if err != nil {
		t.Fatalf("double activation should be a no-op, got %v", err)
	}
	if again.ActiveIn(LeftTop) != "left-top-1" {
		t.Error("double activation changed state")
	}
}

func TestSingleActivePerSlotUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := declareAll(t)
	ids := make([]string, 0, len(s.Activities))
	for _, slot := range Slots() {
		ids = append(ids, s.InSlot(slot)...)
	}

	for i := 0; i < 2000; i++ {
		id := ids[rng.IntN(len(ids))]
		switch rng.IntN(4) {
		case 0, 1:
			s, _ = s.Activate(id)
		case 2:
			s, _ = s.Deactivate(id)
		case 3:
			if next, err := s.Remove(id); err == nil {
				s = next
			}
		}

		for slot, st := range s.Slots {
			if st.Active == "" {
				continue
			}
			count := 0
			for _, a := range st.Activities {
				if s.IsActive(a) {
					count++
				}
			}
			if count != 1 {
				t.Fatalf("step %d: slot %s has %d active activities", i, slot, count)
			}
		}
	}
}

func TestDeactivateRequiresActive(t *testing.T) {
	s := declareAll(t)
	if _, err := s.Deactivate("left-top-0"); !errors.Is(err, errors.ErrCodeStructuralInvariant) {
		t.Errorf("err = %v, want STRUCTURAL_INVARIANT", err)
	}
	if _, err := s.Deactivate("ghost"); !errors.Is(err, errors.ErrCodeUnknownReference) {
		t.Errorf("err = %v, want UNKNOWN_REFERENCE", err)
	}
}

func TestRemoveTransitions(t *testing.T) {
	s := declareAll(t)
	s, _ = s.Activate("top-left-0")

	s, err := s.Remove("top-left-0")
	if err != nil {
		t.Fatal(err)
	}
	if s.ActiveIn(TopLeft) != "" {
		t.Error("removing the active activity must clear the slot's active id")
	}
	if got := s.InSlot(TopLeft); len(got) != 1 || got[0] != "top-left-1" {
		t.Errorf("slot = %v", got)
	}

	s, _ = s.Remove("top-left-1")
	if _, ok := s.Slots[TopLeft]; ok {
		t.Error("empty slot should be dropped")
	}
	if _, err := s.Remove("top-left-1"); !errors.Is(err, errors.ErrCodeUnknownReference) {
		t.Errorf("err = %v", err)
	}
}

func TestDeclareErrors(t *testing.T) {
	s := declareAll(t)
	tests := []struct {
		name string
		a    Activity
		code errors.Code
	}{
		{"duplicate id", Activity{ID: "left-top-0", PartID: "x", Slot: LeftTop}, errors.ErrCodeDuplicatePartID},
		{"duplicate part", Activity{ID: "new", PartID: "left-top-0-part", Slot: LeftTop}, errors.ErrCodeDuplicatePartID},
		{"bad slot", Activity{ID: "new", PartID: "x", Slot: Slot(42)}, errors.ErrCodeUnknownReference},
		{"empty part", Activity{ID: "new", Slot: LeftTop}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Declare(tt.a); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestStateIsImmutable(t *testing.T) {
	s := declareAll(t)
	before := s.InSlot(LeftTop)

	next, _ := s.Activate("left-top-0")
	next, _ = next.Remove("left-top-1")
	next, _ = next.Resize(PanelLeft, 50)

	if s.ActiveIn(LeftTop) != "" {
		t.Error("Activate mutated the receiver")
	}
	if got := s.InSlot(LeftTop); len(got) != len(before) {
		t.Errorf("Remove mutated the receiver: %v", got)
	}
	if s.PanelSize(PanelLeft) != DefaultPanelSize {
		t.Error("Resize mutated the receiver")
	}
	if next.PanelSize(PanelLeft) != DefaultPanelSize+50 {
		t.Errorf("PanelSize = %v", next.PanelSize(PanelLeft))
	}
}

func TestPanelSizing(t *testing.T) {
	s := New(Sizing{DefaultSize: 250, MinSize: 120, Overrides: map[Panel]float64{PanelBottom: 200}})

	if got := s.PanelSize(PanelLeft); got != 250 {
		t.Errorf("default = %v", got)
	}
	if got := s.PanelSize(PanelBottom); got != 200 {
		t.Errorf("override = %v", got)
	}

	s, _ = s.Resize(PanelLeft, 100)
	if got := s.PanelSize(PanelLeft); got != 350 {
		t.Errorf("after +100 = %v", got)
	}
	s, _ = s.Resize(PanelLeft, -1000)
	if got := s.PanelSize(PanelLeft); got != 120 {
		t.Errorf("clamped = %v, want min 120", got)
	}
	if _, err := s.Resize(Panel(9), 10); !errors.Is(err, errors.ErrCodeUnknownReference) {
		t.Errorf("err = %v", err)
	}
}

func TestMoveSplitter(t *testing.T) {
	s := declareAll(t)
	s, _ = s.Activate("left-top-0")
	s, _ = s.Activate("left-bottom-0")

	if !s.BothOpen(PanelLeft) {
		t.Fatal("both left slots should be open")
	}
	lead, trail := s.Split(PanelLeft, 800)
	if lead != 400 || trail != 400 {
		t.Errorf("Split = %v/%v", lead, trail)
	}

	s, err := s.MoveSplitter(PanelLeft, 80, 800)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.PanelRatio(PanelLeft); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("ratio = %v, want 0.6", got)
	}

	s, _ = s.MoveSplitter(PanelLeft, -10000, 800)
	if got := s.PanelRatio(PanelLeft); got != MinRatio {
		t.Errorf("ratio = %v, want clamp to %v", got, MinRatio)
	}

	s, _ = s.Deactivate("left-bottom-0")
	lead, trail = s.Split(PanelLeft, 800)
	if lead != 800 || trail != 0 {
		t.Errorf("lone slot Split = %v/%v, ratio must be ignored", lead, trail)
	}
}

func TestResolveTitle(t *testing.T) {
	a := Activity{ID: "explorer", Label: "Explorer"}

	tr := grid.Single(&grid.Part{ID: "root"})
	if got := ResolveTitle(a, tr); got != "Explorer" {
		t.Errorf("fallback = %q", got)
	}

	tr, _ = tr.AddPart(&grid.Part{ID: "outline", Title: "Outline"}, "root", grid.AlignBottom, 0.5)
	tr, _ = tr.AddPart(&grid.Part{ID: "files", Title: "Files"}, "root", grid.AlignTop, 0.5)
	if got := ResolveTitle(a, tr); got != "Files" {
		t.Errorf("top-left = %q, want Files", got)
	}

	tr, _ = tr.RemovePart("files")
	if got := ResolveTitle(a, tr); got != "Outline" {
		t.Errorf("after removal = %q, want Outline", got)
	}
}

func TestTooltipFallback(t *testing.T) {
	if got := (Activity{Label: "Search"}).Tooltip(); got != "Search" {
		t.Errorf("Tooltip = %q", got)
	}
	if got := (Activity{Label: "Search", TooltipText: "Find in files"}).Tooltip(); got != "Find in files" {
		t.Errorf("Tooltip = %q", got)
	}
}

func TestSlotPanelMapping(t *testing.T) {
	for _, p := range Panels() {
		for _, slot := range p.Slots() {
			if slot.Panel() != p {
				t.Errorf("slot %s maps to %s, want %s", slot, slot.Panel(), p)
			}
		}
	}
	if s, err := ParseSlot("bottom-right"); err != nil || s != BottomRight {
		t.Errorf("ParseSlot = %v, %v", s, err)
	}
	if _, err := ParseSlot("middle"); !errors.Is(err, errors.ErrCodeUnknownReference) {
		t.Errorf("err = %v", err)
	}
}
