package layout

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/dockgrid/pkg/core/dock"
	"github.com/matzehuels/dockgrid/pkg/core/grid"
	"github.com/matzehuels/dockgrid/pkg/errors"
	"github.com/matzehuels/dockgrid/pkg/layoutio"
)

func mustApply(t *testing.T, s Snapshot, ops ...Operation) Snapshot {
	t.Helper()
	for _, op := range ops {
		next, err := Apply(s, op)
		if err != nil {
			t.Fatalf("%s %+v: %v", op.Name(), op, err)
		}
		s = next
	}
	return s
}

// 16 activities across 8 slots; activating each part shows only
// that activity's part.
func TestActivatePartShowsOnlyItsActivity(t *testing.T) {
	s := Default(dock.DefaultSizing())
	var parts []string
	for _, slot := range dock.Slots() {
		for i := 0; i < 2; i++ {
			id := fmt.Sprintf("%s-%d", slot, i)
			s = mustApply(t, s, AddPart{ID: id + "-part", Slot: slot.String(), Activity: id, Label: id})
			parts = append(parts, id+"-part")
		}
	}

	visible := func(s Snapshot) []string {
		reg := NewRegistry(s)
		var out []string
		for _, p := range parts {
			if reg.IsPartVisible(p) {
				out = append(out, p)
			}
		}
		return out
	}
	if got := visible(s); len(got) != 0 {
		t.Fatalf("baseline visible = %v", got)
	}

	for _, p := range parts {
		on := mustApply(t, s, ActivatePart{Part: p})
		if got := visible(on); len(got) != 1 || got[0] != p {
			t.Errorf("activating %s: visible = %v", p, got)
		}
		if !NewRegistry(on).IsPartVisible(MainAreaPartID) {
			t.Error("main area must stay visible")
		}
		activity, _ := NewRegistry(on).GridOfPart(p)
		off := mustApply(t, on, DeactivateActivity{Activity: activity})
		if got := visible(off); len(got) != 0 {
			t.Errorf("deactivating %s: visible = %v", p, got)
		}
	}
}

func TestRemovePartContractsMainGrid(t *testing.T) {
	s := Empty(dock.DefaultSizing())
	s = mustApply(t, s,
		AddPart{ID: "p1"},
		AddPart{ID: "p2", Ref: "p1", Align: "right"},
	)
	split, ok := s.Grid(MainGrid).Root.(*grid.Split)
	if !ok || split.Direction != grid.Row || split.Ratio != 0.5 {
		t.Fatalf("root = %#v", s.Grid(MainGrid).Root)
	}

	s = mustApply(t, s, RemovePart{Part: "p1"})
	p, ok := s.Grid(MainGrid).Root.(*grid.Part)
	if !ok || p.ID != "p2" {
		t.Fatalf("root = %#v, want part p2", s.Grid(MainGrid).Root)
	}
}

func dockedExplorer(t *testing.T) Snapshot {
	t.Helper()
	return mustApply(t, Default(dock.DefaultSizing()),
		AddPart{ID: "explorer-part", Slot: "left-top", Activity: "explorer", Label: "Explorer"},
	)
}

func TestRemoveLastViewAutoDeactivates(t *testing.T) {
	t.Run("not navigated", func(t *testing.T) {
		s := mustApply(t, dockedExplorer(t),
			AddView{View: "files", Part: "explorer-part"},
			ActivateView{View: "files"},
		)
		if !s.Dock.IsOpen(dock.PanelLeft) {
			t.Fatal("activating a view must open its panel")
		}

		s = mustApply(t, s, RemoveView{View: "files"})
		if s.Dock.IsActive("explorer") {
			t.Error("activity should auto-deactivate")
		}
		if s.Dock.IsOpen(dock.PanelLeft) {
			t.Error("panel should close")
		}
	})

	t.Run("navigated", func(t *testing.T) {
		s := mustApply(t, dockedExplorer(t),
			NavigateView{View: "files", Part: "explorer-part"},
		)
		if s.Dock.IsActive("explorer") {
			t.Fatal("first navigation must not activate the activity")
		}
		s = mustApply(t, s, ActivatePart{Part: "explorer-part"}, RemoveView{View: "files"})
		if !s.Dock.IsActive("explorer") {
			t.Error("navigated activity should stay active")
		}
		reg := NewRegistry(s)
		if p := reg.Part("explorer-part"); p == nil || !p.Empty() || !p.Navigated {
			t.Errorf("part = %+v, want empty navigated part", p)
		}
		if !reg.IsPartVisible("explorer-part") {
			t.Error("empty navigated part should remain visible")
		}
	})

	t.Run("other parts remain", func(t *testing.T) {
		s := mustApply(t, dockedExplorer(t),
			AddView{View: "files", Part: "explorer-part"},
			AddPart{ID: "outline", Ref: "explorer-part", Align: "bottom"},
			ActivateView{View: "files"},
			RemoveView{View: "files"},
		)
		if !s.Dock.IsActive("explorer") {
			t.Error("activity with other parts should stay active")
		}
	})
}

func TestPanelSizeSurvivesReload(t *testing.T) {
	s := mustApply(t, Default(dock.DefaultSizing()), ResizePanel{Panel: "left", Delta: 100})

	for _, f := range layoutio.Formats() {
		t.Run(string(f), func(t *testing.T) {
			data, err := Marshal(s, f)
			if err != nil {
				t.Fatal(err)
			}
			back, err := Unmarshal(data, f, dock.DefaultSizing())
			if err != nil {
				t.Fatal(err)
			}
			if got := back.Dock.PanelSize(dock.PanelLeft); got != dock.DefaultPanelSize+100 {
				t.Errorf("left panel = %v, want %v", got, dock.DefaultPanelSize+100)
			}
		})
	}
}

func TestActivityGridIsLazy(t *testing.T) {
	s := dockedExplorer(t)
	if s.Materialized("explorer") {
		t.Fatal("declaring an activity must not create its grid")
	}
	if key, ok := NewRegistry(s).GridOfPart("explorer-part"); !ok || key != "explorer" {
		t.Errorf("GridOfPart = %q, %v", key, ok)
	}

	s = mustApply(t, s, NavigatePart{Part: "explorer-part"})
	if !s.Materialized("explorer") {
		t.Fatal("navigation should materialize the grid")
	}
	if p, key := s.Part("explorer-part"); p == nil || key != "explorer" || !p.Navigated {
		t.Errorf("Part = %+v in %q", p, key)
	}
}

func TestUniquenessAcrossGrids(t *testing.T) {
	s := mustApply(t, dockedExplorer(t),
		AddView{View: "files", Part: "explorer-part"},
		AddView{View: "readme", Part: MainAreaPartID},
		AddPart{ID: "search-part", Slot: "right-top", Activity: "search"},
	)

	tests := []struct {
		name string
		op   Operation
		code errors.Code
	}{
		{"part id of activity grid", AddPart{ID: "explorer-part", Ref: MainAreaPartID}, errors.ErrCodeDuplicatePartID},
		{"reserved activity part", AddPart{ID: "search-part", Ref: MainAreaPartID}, errors.ErrCodeDuplicatePartID},
		{"main part into activity", AddPart{ID: MainAreaPartID, Ref: "explorer-part"}, errors.ErrCodeDuplicatePartID},
		{"view held by activity grid", AddView{View: "files", Part: MainAreaPartID}, errors.ErrCodeStructuralInvariant},
		{"view held by main grid", NavigateView{View: "readme", Part: "search-part"}, errors.ErrCodeStructuralInvariant},
		{"duplicate activity", AddPart{ID: "other", Slot: "left-bottom", Activity: "explorer"}, errors.ErrCodeDuplicatePartID},
		{"unknown ref", AddPart{ID: "x", Ref: "ghost"}, errors.ErrCodeUnknownReference},
		{"unknown slot", AddPart{ID: "x", Slot: "middle"}, errors.ErrCodeUnknownReference},
		{"bad ratio", AddPart{ID: "x", Ref: MainAreaPartID, Ratio: 1.5}, errors.ErrCodeInvalidRatio},
		{"unknown view", ActivateView{View: "ghost"}, errors.ErrCodeUnknownReference},
		{"inactive activity", DeactivateActivity{Activity: "explorer"}, errors.ErrCodeStructuralInvariant},
		{"swap across grids", SwapParts{A: MainAreaPartID, B: "explorer-part"}, errors.ErrCodeStructuralInvariant},
		{"maximize activity part", MaximizePart{Part: "explorer-part"}, errors.ErrCodeStructuralInvariant},
		{"unknown panel", ResizePanel{Panel: "center", Delta: 10}, errors.ErrCodeUnknownReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Apply(s, tt.op)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
			if next.Revision != s.Revision || !reflect.DeepEqual(next, s) {
				t.Error("failed operation must leave the snapshot unchanged")
			}
		})
	}
}

func TestRemovePartRemovesActivity(t *testing.T) {
	t.Run("unmaterialized", func(t *testing.T) {
		s := mustApply(t, dockedExplorer(t), ActivatePart{Part: "explorer-part"}, RemovePart{Part: "explorer-part"})
		if _, ok := s.Dock.Activity("explorer"); ok {
			t.Error("activity should be removed")
		}
		if s.Dock.IsOpen(dock.PanelLeft) {
			t.Error("panel should close")
		}
	})

	t.Run("last grid part", func(t *testing.T) {
		s := mustApply(t, dockedExplorer(t),
			AddView{View: "files", Part: "explorer-part"},
			RemovePart{Part: "explorer-part"},
		)
		if _, ok := s.Dock.Activity("explorer"); ok {
			t.Error("activity should be removed")
		}
		if s.Materialized("explorer") {
			t.Error("grid should be dropped")
		}
		if owner, _ := s.ViewOwner("files"); owner != nil {
			t.Error("views of the removed part should be gone")
		}
	})

	t.Run("root part with siblings", func(t *testing.T) {
		s := mustApply(t, dockedExplorer(t),
			AddPart{ID: "outline", Ref: "explorer-part", Align: "bottom", Title: "Outline"},
			RemovePart{Part: "explorer-part"},
		)
		a, ok := s.Dock.Activity("explorer")
		if !ok || a.PartID != "outline" {
			t.Errorf("activity = %+v, want rebound to outline", a)
		}
		if title, _ := s.Title("explorer"); title != "Outline" {
			t.Errorf("title = %q", title)
		}
	})
}

func TestActivityTitle(t *testing.T) {
	s := mustApply(t, dockedExplorer(t), AddView{View: "files", Part: "explorer-part"})
	if title, _ := s.Title("explorer"); title != "Explorer" {
		t.Errorf("title = %q, want label fallback", title)
	}
	s = mustApply(t, s,
		AddPart{ID: "outline", Ref: "explorer-part", Align: "bottom", Title: "Outline"},
		SetPartTitle{Part: "explorer-part", Title: "Files"},
	)
	if title, _ := s.Title("explorer"); title != "Files" {
		t.Errorf("title = %q, want top-left part title", title)
	}
}

func TestMoveViewAcrossGrids(t *testing.T) {
	s := mustApply(t, dockedExplorer(t),
		AddView{View: "files", Part: "explorer-part"},
		ActivateView{View: "files"},
		AddView{View: "readme", Part: MainAreaPartID},
		MoveView{View: "files", Part: MainAreaPartID},
	)
	owner, key := s.ViewOwner("files")
	if owner == nil || owner.ID != MainAreaPartID || key != MainGrid {
		t.Fatalf("owner = %+v in %q", owner, key)
	}
	if owner.Active != "files" {
		t.Errorf("moved view should be active, got %q", owner.Active)
	}
	if s.Dock.IsActive("explorer") {
		t.Error("emptied source activity should auto-deactivate")
	}
}

func TestMaximizePart(t *testing.T) {
	s := mustApply(t, Default(dock.DefaultSizing()),
		AddPart{ID: "terminal", Ref: MainAreaPartID, Align: "bottom", Ratio: 0.3},
		AddView{View: "shell", Part: "terminal"},
		MaximizePart{Part: MainAreaPartID},
	)
	reg := NewRegistry(s)
	if !reg.IsPartVisible(MainAreaPartID) || reg.IsPartVisible("terminal") {
		t.Error("only the maximized part should be visible")
	}
	if reg.IsViewActive("shell") {
		t.Error("views of hidden parts are not active")
	}

	s = mustApply(t, s, RemovePart{Part: MainAreaPartID})
	if s.Maximized != "" {
		t.Error("removing the maximized part should restore the grid")
	}
}

func TestRegistryVisibility(t *testing.T) {
	s := mustApply(t, dockedExplorer(t),
		AddView{View: "files", Part: "explorer-part"},
		AddView{View: "readme", Part: MainAreaPartID},
	)
	reg := NewRegistry(s)
	if !reg.IsViewActive("readme") {
		t.Error("main grid views are visible")
	}
	if reg.IsViewActive("files") {
		t.Error("view of an inactive activity is not active")
	}
	if part, ok := reg.PartOfView("files"); !ok || part != "explorer-part" {
		t.Errorf("PartOfView = %q, %v", part, ok)
	}

	reg = NewRegistry(mustApply(t, s, ActivatePart{Part: "explorer-part"}))
	if !reg.IsViewActive("files") {
		t.Error("view should be active once its activity is")
	}
}

func TestActiveViewChanges(t *testing.T) {
	s0 := Default(dock.DefaultSizing())
	s1 := mustApply(t, s0, AddView{View: "a", Part: MainAreaPartID}, AddView{View: "b", Part: MainAreaPartID})
	s2 := mustApply(t, s1, ActivateView{View: "b"})
	s3 := mustApply(t, s2, RemovePart{Part: MainAreaPartID})

	tests := []struct {
		name       string
		prev, next Snapshot
		want       []ActiveViewChange
	}{
		{"first view", s0, s1, []ActiveViewChange{{PartID: MainAreaPartID, Current: "a"}}},
		{"activation", s1, s2, []ActiveViewChange{{PartID: MainAreaPartID, Previous: "a", Current: "b"}}},
		{"removal", s2, s3, []ActiveViewChange{{PartID: MainAreaPartID, Previous: "b"}}},
		{"none", s2, s2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActiveViewChanges(NewRegistry(tt.prev), NewRegistry(tt.next))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("changes = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewOperation(t *testing.T) {
	for _, name := range OperationNames() {
		op, err := NewOperation(name)
		if err != nil {
			t.Fatalf("NewOperation(%s): %v", name, err)
		}
		if op.Name() != name {
			t.Errorf("NewOperation(%s).Name() = %s", name, op.Name())
		}
	}
	if _, err := NewOperation("explode"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v", err)
	}
}

func TestAssignID(t *testing.T) {
	op := &AddPart{Ref: MainAreaPartID, Align: "right"}
	id := AssignID(op)
	if id == "" || op.ID != id || !strings.HasPrefix(id, "part-") {
		t.Fatalf("AssignID = %q, op.ID = %q", id, op.ID)
	}
	s := mustApply(t, Default(dock.DefaultSizing()), op)
	if p, key := s.Part(id); p == nil || key != MainGrid {
		t.Errorf("generated part not in main grid")
	}

	if got := AssignID(&AddPart{ID: "fixed"}); got != "" {
		t.Errorf("explicit id overwritten: %q", got)
	}
	if got := AssignID(&AddView{View: "v", Part: "p"}); got != "" {
		t.Errorf("AssignID(add-view) = %q", got)
	}
}
