package layout

import (
	"sort"

	"github.com/matzehuels/dockgrid/pkg/core/dock"
	"github.com/matzehuels/dockgrid/pkg/core/grid"
	"github.com/matzehuels/dockgrid/pkg/errors"
)

// Operation is a single layout mutation. Enum-like fields (slots, panels,
// alignments) are names so operations decode directly from JSON requests.
type Operation interface {
	// Name is the kebab-case operation name, e.g. "add-part".
	Name() string
	apply(s Snapshot) (Snapshot, error)
}

// AddPart creates a part. With Slot set, the part becomes the root part of a
// new activity docked in that slot (the activity id defaults to the part
// id). Otherwise the part splits Ref in grid Grid (default the main grid)
// on the side given by Align. An empty Ref splits the whole grid, or makes
// the part the root of an empty grid.
//
// Ratio is the new part's share of the split; zero means an even split.
type AddPart struct {
	ID string `json:"id"`

	Slot     string `json:"slot,omitempty"`
	Activity string `json:"activity,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Label    string `json:"label,omitempty"`
	Tooltip  string `json:"tooltip,omitempty"`

	Grid  string  `json:"grid,omitempty"`
	Ref   string  `json:"ref,omitempty"`
	Align string  `json:"align,omitempty"`
	Ratio float64 `json:"ratio,omitempty"`

	Title string `json:"title,omitempty"`
}

// AddView appends a view to a part. The first view of a part becomes active.
type AddView struct {
	View string `json:"view"`
	Part string `json:"part"`
}

// NavigatePart marks a part as having routed content. It never activates
// the part's activity.
type NavigatePart struct {
	Part string `json:"part"`
}

// NavigateView routes a view into a part, adding it when missing. The view
// is activated only when the part had no active view.
type NavigateView struct {
	View string `json:"view"`
	Part string `json:"part"`
}

// ActivatePart activates the activity containing the part, opening its
// panel. Parts of the main grid are always visible; activating one is a
// no-op.
type ActivatePart struct {
	Part string `json:"part"`
}

// ActivateView makes a view active in its part and activates the part's
// activity.
type ActivateView struct {
	View string `json:"view"`
}

// DeactivateActivity closes an active activity.
type DeactivateActivity struct {
	Activity string `json:"activity"`
}

// RemovePart removes a part and its views. Removing the last part of an
// activity grid removes the activity.
type RemovePart struct {
	Part string `json:"part"`
}

// RemoveView removes a view. When this empties the sole, non-navigated part
// of an active activity, the activity is deactivated.
type RemoveView struct {
	View string `json:"view"`
}

// ResizePanel grows or shrinks a panel by Delta pixels.
type ResizePanel struct {
	Panel string  `json:"panel"`
	Delta float64 `json:"delta"`
}

// MoveSplitter drags the splitter between a panel's two stacked activities.
// Extent is the panel's stacking extent in pixels; zero uses the panel size.
type MoveSplitter struct {
	Panel  string  `json:"panel"`
	Delta  float64 `json:"delta"`
	Extent float64 `json:"extent,omitempty"`
}

// MoveView moves a view to the end of another part, possibly in another
// grid, and activates it there.
type MoveView struct {
	View string `json:"view"`
	Part string `json:"part"`
}

// SwapParts exchanges two parts of the same grid.
type SwapParts struct {
	A string `json:"a"`
	B string `json:"b"`
}

// MovePart detaches a part and reinserts it next to Ref in the same grid.
type MovePart struct {
	Part  string  `json:"part"`
	Ref   string  `json:"ref"`
	Align string  `json:"align"`
	Ratio float64 `json:"ratio,omitempty"`
}

// MoveSash drags the sash of the split directly containing Part by Delta
// pixels over a split extent of Extent pixels.
type MoveSash struct {
	Part   string  `json:"part"`
	Delta  float64 `json:"delta"`
	Extent float64 `json:"extent"`
}

// SetPartTitle sets the title a part defines. Activity titles resolve to
// the top-left-most part title of their grid.
type SetPartTitle struct {
	Part  string `json:"part"`
	Title string `json:"title"`
}

// MaximizePart shows a single main-grid part alone. An empty Part restores
// the full grid.
type MaximizePart struct {
	Part string `json:"part"`
}

func (AddPart) Name() string            { return "add-part" }
func (AddView) Name() string            { return "add-view" }
func (NavigatePart) Name() string       { return "navigate-part" }
func (NavigateView) Name() string       { return "navigate-view" }
func (ActivatePart) Name() string       { return "activate-part" }
func (ActivateView) Name() string       { return "activate-view" }
func (DeactivateActivity) Name() string { return "deactivate-activity" }
func (RemovePart) Name() string         { return "remove-part" }
func (RemoveView) Name() string         { return "remove-view" }
func (ResizePanel) Name() string        { return "resize-panel" }
func (MoveSplitter) Name() string       { return "move-splitter" }
func (MoveView) Name() string           { return "move-view" }
func (SwapParts) Name() string          { return "swap-parts" }
func (MovePart) Name() string           { return "move-part" }
func (MoveSash) Name() string           { return "move-sash" }
func (SetPartTitle) Name() string       { return "set-part-title" }
func (MaximizePart) Name() string       { return "maximize-part" }

var operations = map[string]func() Operation{
	"add-part":            func() Operation { return &AddPart{} },
	"add-view":            func() Operation { return &AddView{} },
	"navigate-part":       func() Operation { return &NavigatePart{} },
	"navigate-view":       func() Operation { return &NavigateView{} },
	"activate-part":       func() Operation { return &ActivatePart{} },
	"activate-view":       func() Operation { return &ActivateView{} },
	"deactivate-activity": func() Operation { return &DeactivateActivity{} },
	"remove-part":         func() Operation { return &RemovePart{} },
	"remove-view":         func() Operation { return &RemoveView{} },
	"resize-panel":        func() Operation { return &ResizePanel{} },
	"move-splitter":       func() Operation { return &MoveSplitter{} },
	"move-view":           func() Operation { return &MoveView{} },
	"swap-parts":          func() Operation { return &SwapParts{} },
	"move-part":           func() Operation { return &MovePart{} },
	"move-sash":           func() Operation { return &MoveSash{} },
	"set-part-title":      func() Operation { return &SetPartTitle{} },
	"maximize-part":       func() Operation { return &MaximizePart{} },
}

// NewOperation returns a pointer to a zero operation of the given name,
// ready to be decoded into.
func NewOperation(name string) (Operation, error) {
	mk, ok := operations[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown operation %q", name)
	}
	return mk(), nil
}

// OperationNames returns the names accepted by NewOperation, sorted.
func OperationNames() []string {
	names := make([]string, 0, len(operations))
	for n := range operations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Apply runs op against s. On success the returned snapshot has passed
// validation and its revision is one higher; on error s is returned
// unchanged.
func Apply(s Snapshot, op Operation) (Snapshot, error) {
	if op == nil {
		return s, errors.New(errors.ErrCodeInvalidInput, "nil operation")
	}
	next, err := op.apply(s)
	if err != nil {
		return s, err
	}
	if err := next.Validate(); err != nil {
		return s, errors.Wrap(errors.GetCode(err), err, "%s", op.Name())
	}
	next.Revision = s.Revision + 1
	return next, nil
}

// AssignID gives an add-part operation decoded without an id a generated
// one and returns it. Other operations are left alone and yield "".
func AssignID(op Operation) string {
	ap, ok := op.(*AddPart)
	if !ok || ap.ID != "" {
		return ""
	}
	ap.ID = grid.NewID("part")
	return ap.ID
}

func ratioOrDefault(r float64) float64 {
	if r == 0 {
		return 0.5
	}
	return r
}

func (op AddPart) apply(s Snapshot) (Snapshot, error) {
	if err := errors.ValidateID("part", op.ID); err != nil {
		return s, err
	}
	if s.partTaken(op.ID) {
		return s, errors.DuplicateID("part", op.ID)
	}

	if op.Slot != "" {
		slot, err := dock.ParseSlot(op.Slot)
		if err != nil {
			return s, err
		}
		id := op.Activity
		if id == "" {
			id = op.ID
		}
		if id == MainGrid {
			return s, errors.New(errors.ErrCodeInvalidInput, "activity id %q is reserved", id)
		}
		d, err := s.Dock.Declare(dock.Activity{
			ID:          id,
			Icon:        op.Icon,
			Label:       op.Label,
			Title:       op.Title,
			TooltipText: op.Tooltip,
			Slot:        slot,
			PartID:      op.ID,
		})
		if err != nil {
			return s, err
		}
		return s.withDock(d), nil
	}

	align := grid.AlignRight
	if op.Align != "" {
		a, err := grid.ParseAlign(op.Align)
		if err != nil {
			return s, err
		}
		align = a
	}
	ratio := ratioOrDefault(op.Ratio)
	if err := errors.ValidateRatio(ratio); err != nil {
		return s, err
	}

	key := op.Grid
	if op.Ref != "" {
		var err error
		if s, key, err = s.resolve(op.Ref); err != nil {
			return s, err
		}
		if op.Grid != "" && op.Grid != key {
			return s, errors.Structural("part %q is not in grid %q", op.Ref, op.Grid)
		}
	}
	if key == "" {
		key = MainGrid
	}
	if key != MainGrid && !s.Materialized(key) {
		return s, errors.UnknownReference("grid", key)
	}

	t, err := s.Grids[key].AddPart(&grid.Part{ID: op.ID, Title: op.Title}, op.Ref, align, ratio)
	if err != nil {
		return s, err
	}
	return s.withGrid(key, t), nil
}

func (op AddView) apply(s Snapshot) (Snapshot, error) {
	if err := errors.ValidateID("view", op.View); err != nil {
		return s, err
	}
	if owner, _ := s.ViewOwner(op.View); owner != nil {
		return s, errors.Structural("view %q already belongs to part %q", op.View, owner.ID)
	}
	s, key, err := s.resolve(op.Part)
	if err != nil {
		return s, err
	}
	t, err := s.Grids[key].AddView(op.View, op.Part)
	if err != nil {
		return s, err
	}
	return s.withGrid(key, t), nil
}

func (op NavigatePart) apply(s Snapshot) (Snapshot, error) {
	s, key, err := s.resolve(op.Part)
	if err != nil {
		return s, err
	}
	t, err := s.Grids[key].NavigatePart(op.Part)
	if err != nil {
		return s, err
	}
	return s.withGrid(key, t), nil
}

func (op NavigateView) apply(s Snapshot) (Snapshot, error) {
	if owner, _ := s.ViewOwner(op.View); owner != nil && owner.ID != op.Part {
		return s, errors.Structural("view %q already belongs to part %q", op.View, owner.ID)
	}
	s, key, err := s.resolve(op.Part)
	if err != nil {
		return s, err
	}
	t, err := s.Grids[key].NavigateView(op.View, op.Part)
	if err != nil {
		return s, err
	}
	return s.withGrid(key, t), nil
}

func (op ActivatePart) apply(s Snapshot) (Snapshot, error) {
	key, _, ok := s.locate(op.Part)
	if !ok {
		return s, errors.UnknownReference("part", op.Part)
	}
	return s.activateGrid(key)
}

func (s Snapshot) activateGrid(key string) (Snapshot, error) {
	if _, ok := s.activityOf(key); !ok {
		return s, nil
	}
	d, err := s.Dock.Activate(key)
	if err != nil {
		return s, err
	}
	return s.withDock(d), nil
}

func (op ActivateView) apply(s Snapshot) (Snapshot, error) {
	owner, key := s.ViewOwner(op.View)
	if owner == nil {
		return s, errors.UnknownReference("view", op.View)
	}
	t, err := s.Grids[key].ActivateView(op.View)
	if err != nil {
		return s, err
	}
	return s.withGrid(key, t).activateGrid(key)
}

func (op DeactivateActivity) apply(s Snapshot) (Snapshot, error) {
	d, err := s.Dock.Deactivate(op.Activity)
	if err != nil {
		return s, err
	}
	return s.withDock(d), nil
}

func (op RemovePart) apply(s Snapshot) (Snapshot, error) {
	key, materialized, ok := s.locate(op.Part)
	if !ok {
		return s, errors.UnknownReference("part", op.Part)
	}
	a, isActivity := s.activityOf(key)
	if !materialized {
		return s.removeActivity(a.ID)
	}

	t, err := s.Grids[key].RemovePart(op.Part)
	if err != nil {
		return s, err
	}
	if key == MainGrid && s.Maximized == op.Part {
		s.Maximized = ""
	}
	if !isActivity {
		return s.withGrid(key, t), nil
	}
	if t.IsEmpty() {
		return s.withGrid(key, t).removeActivity(a.ID)
	}
	s = s.withGrid(key, t)
	if a.PartID == op.Part {
		d, err := s.Dock.Rebind(a.ID, t.Parts()[0].ID)
		if err != nil {
			return s, err
		}
		s = s.withDock(d)
	}
	return s, nil
}

func (s Snapshot) removeActivity(id string) (Snapshot, error) {
	d, err := s.Dock.Remove(id)
	if err != nil {
		return s, err
	}
	return s.withGrid(id, grid.Tree{}).withDock(d), nil
}

func (op RemoveView) apply(s Snapshot) (Snapshot, error) {
	owner, key := s.ViewOwner(op.View)
	if owner == nil {
		return s, errors.UnknownReference("view", op.View)
	}
	t, err := s.Grids[key].RemoveView(op.View)
	if err != nil {
		return s, err
	}
	return s.withGrid(key, t).autoClose(key, owner.ID)
}

// autoClose deactivates an active activity whose sole part was just
// emptied and holds no routed content.
func (s Snapshot) autoClose(key, partID string) (Snapshot, error) {
	a, ok := s.activityOf(key)
	if !ok || !s.Dock.IsActive(a.ID) {
		return s, nil
	}
	t := s.Grids[key]
	p := t.Find(partID)
	if p == nil || !p.Empty() || p.Navigated || t.Len() != 1 {
		return s, nil
	}
	d, err := s.Dock.Deactivate(a.ID)
	if err != nil {
		return s, err
	}
	return s.withDock(d), nil
}

func (op ResizePanel) apply(s Snapshot) (Snapshot, error) {
	p, err := dock.ParsePanel(op.Panel)
	if err != nil {
		return s, err
	}
	d, err := s.Dock.Resize(p, op.Delta)
	if err != nil {
		return s, err
	}
	return s.withDock(d), nil
}

func (op MoveSplitter) apply(s Snapshot) (Snapshot, error) {
	p, err := dock.ParsePanel(op.Panel)
	if err != nil {
		return s, err
	}
	extent := op.Extent
	if extent == 0 {
		extent = s.Dock.PanelSize(p)
	}
	d, err := s.Dock.MoveSplitter(p, op.Delta, extent)
	if err != nil {
		return s, err
	}
	return s.withDock(d), nil
}

func (op MoveView) apply(s Snapshot) (Snapshot, error) {
	src, srcKey := s.ViewOwner(op.View)
	if src == nil {
		return s, errors.UnknownReference("view", op.View)
	}
	s, dstKey, err := s.resolve(op.Part)
	if err != nil {
		return s, err
	}
	if srcKey == dstKey {
		t, err := s.Grids[srcKey].MoveView(op.View, op.Part)
		if err != nil {
			return s, err
		}
		return s.withGrid(srcKey, t).activateGrid(dstKey)
	}

	t, err := s.Grids[srcKey].RemoveView(op.View)
	if err != nil {
		return s, err
	}
	s, err = s.withGrid(srcKey, t).autoClose(srcKey, src.ID)
	if err != nil {
		return s, err
	}
	dst, err := s.Grids[dstKey].AddView(op.View, op.Part)
	if err != nil {
		return s, err
	}
	if dst, err = dst.ActivateView(op.View); err != nil {
		return s, err
	}
	return s.withGrid(dstKey, dst).activateGrid(dstKey)
}

func (op SwapParts) apply(s Snapshot) (Snapshot, error) {
	ka, err := s.gridOf(op.A)
	if err != nil {
		return s, err
	}
	kb, err := s.gridOf(op.B)
	if err != nil {
		return s, err
	}
	if ka != kb {
		return s, errors.Structural("parts %q and %q are in different grids", op.A, op.B)
	}
	t, err := s.Grids[ka].SwapParts(op.A, op.B)
	if err != nil {
		return s, err
	}
	return s.withGrid(ka, t), nil
}

// gridOf returns the grid key of a part in a materialized grid.
func (s Snapshot) gridOf(partID string) (string, error) {
	if _, key := s.Part(partID); key != "" {
		return key, nil
	}
	return "", errors.UnknownReference("part", partID)
}

func (op MovePart) apply(s Snapshot) (Snapshot, error) {
	key, err := s.gridOf(op.Part)
	if err != nil {
		return s, err
	}
	if op.Ref != "" {
		refKey, err := s.gridOf(op.Ref)
		if err != nil {
			return s, err
		}
		if refKey != key {
			return s, errors.Structural("parts %q and %q are in different grids", op.Part, op.Ref)
		}
	}
	align, err := grid.ParseAlign(op.Align)
	if err != nil {
		return s, err
	}
	t, err := s.Grids[key].MovePart(op.Part, op.Ref, align, ratioOrDefault(op.Ratio))
	if err != nil {
		return s, err
	}
	return s.withGrid(key, t), nil
}

func (op MoveSash) apply(s Snapshot) (Snapshot, error) {
	key, err := s.gridOf(op.Part)
	if err != nil {
		return s, err
	}
	t, err := s.Grids[key].MoveSash(op.Part, op.Delta, op.Extent)
	if err != nil {
		return s, err
	}
	return s.withGrid(key, t), nil
}

func (op SetPartTitle) apply(s Snapshot) (Snapshot, error) {
	s, key, err := s.resolve(op.Part)
	if err != nil {
		return s, err
	}
	t, err := s.Grids[key].SetTitle(op.Part, op.Title)
	if err != nil {
		return s, err
	}
	return s.withGrid(key, t), nil
}

func (op MaximizePart) apply(s Snapshot) (Snapshot, error) {
	if op.Part != "" && s.Grids[MainGrid].Find(op.Part) == nil {
		if s.partTaken(op.Part) {
			return s, errors.Structural("only main grid parts can be maximized, %q is not one", op.Part)
		}
		return s, errors.UnknownReference("part", op.Part)
	}
	s.Maximized = op.Part
	return s, nil
}
