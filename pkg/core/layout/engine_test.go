package layout

import (
	"context"
	"io"
	"reflect"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dockgrid/pkg/core/dock"
	"github.com/matzehuels/dockgrid/pkg/errors"
	"github.com/matzehuels/dockgrid/pkg/layoutio"
	"github.com/matzehuels/dockgrid/pkg/store"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestEnginePersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	for _, f := range layoutio.Formats() {
		t.Run(string(f), func(t *testing.T) {
			key := store.NewDefaultKeyer().LayoutKey(string(f))
			e := NewEngine(Options{Store: st, Key: key, Format: f, AutoSave: true, Logger: quietLogger()})
			ops := []Operation{
				AddView{View: "readme", Part: MainAreaPartID},
				AddPart{ID: "explorer-part", Slot: "left-top", Activity: "explorer", Label: "Explorer"},
				NavigateView{View: "files", Part: "explorer-part"},
				ResizePanel{Panel: "left", Delta: 100},
			}
			for _, op := range ops {
				if _, err := e.Apply(ctx, op); err != nil {
					t.Fatalf("%s: %v", op.Name(), err)
				}
			}

			reloaded := NewEngine(Options{Store: st, Key: key, Format: f, Logger: quietLogger()})
			ok, err := reloaded.Load(ctx)
			if err != nil || !ok {
				t.Fatalf("Load = %v, %v", ok, err)
			}
			if !reflect.DeepEqual(reloaded.Snapshot(), e.Snapshot()) {
				t.Error("reloaded snapshot differs")
			}
			if got := reloaded.Snapshot().Dock.PanelSize(dock.PanelLeft); got != dock.DefaultPanelSize+100 {
				t.Errorf("left panel = %v", got)
			}
			if reloaded.Snapshot().Revision != uint64(len(ops)) {
				t.Errorf("revision = %d", reloaded.Snapshot().Revision)
			}
		})
	}
}

func TestEngineLoadMissing(t *testing.T) {
	e := NewEngine(Options{Store: store.NewMemoryStore(), Logger: quietLogger()})
	ok, err := e.Load(context.Background())
	if err != nil || ok {
		t.Errorf("Load = %v, %v, want false, nil", ok, err)
	}
	if e.Snapshot().Grid(MainGrid).Find(MainAreaPartID) == nil {
		t.Error("engine should keep the default layout")
	}
}

func TestEngineReset(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	e := NewEngine(Options{Store: st, AutoSave: true, Logger: quietLogger()})
	if _, err := e.Apply(ctx, AddView{View: "readme", Part: MainAreaPartID}); err != nil {
		t.Fatal(err)
	}
	if len(st.Keys()) != 1 {
		t.Fatalf("keys = %v", st.Keys())
	}

	var seen []ActiveViewChange
	e.OnActiveViewChange(func(c ActiveViewChange) { seen = append(seen, c) })

	if err := e.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if len(st.Keys()) != 0 {
		t.Error("Reset should delete the stored layout")
	}
	if e.Snapshot().Revision != 0 {
		t.Error("Reset should restore the default snapshot")
	}
	want := []ActiveViewChange{{PartID: MainAreaPartID, Previous: "readme"}}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("changes = %+v, want %+v", seen, want)
	}
}

func TestEngineLoadNotifiesListeners(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	saved := NewEngine(Options{Store: st, AutoSave: true, Logger: quietLogger()})
	for _, op := range []Operation{
		AddView{View: "readme", Part: MainAreaPartID},
		AddPart{ID: "terminal", Ref: MainAreaPartID, Align: "bottom"},
		AddView{View: "shell", Part: "terminal"},
	} {
		if _, err := saved.Apply(ctx, op); err != nil {
			t.Fatalf("%s: %v", op.Name(), err)
		}
	}

	e := NewEngine(Options{Store: st, Logger: quietLogger()})
	var seen []ActiveViewChange
	e.OnActiveViewChange(func(c ActiveViewChange) { seen = append(seen, c) })

	ok, err := e.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
	got := map[string]ActiveViewChange{}
	for _, c := range seen {
		got[c.PartID] = c
	}
	want := map[string]ActiveViewChange{
		MainAreaPartID: {PartID: MainAreaPartID, Current: "readme"},
		"terminal":     {PartID: "terminal", Current: "shell"},
	}
	if !reflect.DeepEqual(got, want) || len(seen) != len(want) {
		t.Errorf("changes = %+v, want %+v", seen, want)
	}

	// Reloading the same layout changes nothing on screen.
	seen = nil
	if _, err := e.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 0 {
		t.Errorf("reload fired %+v", seen)
	}
}

func TestEngineApplyNil(t *testing.T) {
	e := NewEngine(Options{Logger: quietLogger()})
	before := e.Snapshot()
	_, err := e.Apply(context.Background(), nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if !reflect.DeepEqual(e.Snapshot(), before) {
		t.Error("nil operation changed the engine state")
	}
}

func TestEngineRejectedOperation(t *testing.T) {
	e := NewEngine(Options{Logger: quietLogger()})
	before := e.Snapshot()
	_, err := e.Apply(context.Background(), AddView{View: "x", Part: "ghost"})
	if !errors.Is(err, errors.ErrCodeUnknownReference) {
		t.Errorf("err = %v", err)
	}
	if !reflect.DeepEqual(e.Snapshot(), before) {
		t.Error("rejected operation changed the engine state")
	}
}

func TestEngineActiveViewListeners(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(Options{Logger: quietLogger()})

	var got []ActiveViewChange
	e.OnActiveViewChange(func(c ActiveViewChange) { got = append(got, c) })

	for _, op := range []Operation{
		AddView{View: "a", Part: MainAreaPartID},
		AddView{View: "b", Part: MainAreaPartID},
		ActivateView{View: "b"},
		RemoveView{View: "b"},
	} {
		if _, err := e.Apply(ctx, op); err != nil {
			t.Fatal(err)
		}
	}

	want := []ActiveViewChange{
		{PartID: MainAreaPartID, Current: "a"},
		{PartID: MainAreaPartID, Previous: "a", Current: "b"},
		{PartID: MainAreaPartID, Previous: "b", Current: "a"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("changes = %+v, want %+v", got, want)
	}
}

func TestEngineConcurrentApply(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(Options{Logger: quietLogger()})

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = e.Apply(ctx, AddView{View: string(rune('A'+i%26)) + string(rune('a'+i/26)), Part: MainAreaPartID})
		}(i)
	}
	wg.Wait()

	s := e.Snapshot()
	if s.Revision != n {
		t.Errorf("revision = %d, want %d", s.Revision, n)
	}
	if got := len(s.Grid(MainGrid).Find(MainAreaPartID).Views); got != n {
		t.Errorf("views = %d, want %d", got, n)
	}
	if err := s.Validate(); err != nil {
		t.Error(err)
	}
}

func TestEngineReplace(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(Options{Logger: quietLogger()})
	for i := 0; i < 3; i++ {
		if _, err := e.Apply(ctx, AddView{View: "v" + string(rune('a'+i)), Part: MainAreaPartID}); err != nil {
			t.Fatal(err)
		}
	}

	var seen []ActiveViewChange
	e.OnActiveViewChange(func(c ActiveViewChange) { seen = append(seen, c) })

	imported := Default(dock.DefaultSizing())
	if err := e.Replace(ctx, imported); err != nil {
		t.Fatal(err)
	}
	if got := e.Snapshot().Revision; got != 4 {
		t.Errorf("revision = %d, want 4 (monotonic)", got)
	}
	if len(seen) != 1 || seen[0].Previous != "va" || seen[0].Current != "" {
		t.Errorf("changes = %+v", seen)
	}

	bad := Default(dock.DefaultSizing())
	bad.Maximized = "ghost"
	if err := e.Replace(ctx, bad); err == nil {
		t.Error("invalid snapshot accepted")
	}
	if e.Snapshot().Maximized != "" {
		t.Error("rejected replace changed the engine")
	}
}
