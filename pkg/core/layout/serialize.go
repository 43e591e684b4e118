package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/dockgrid/pkg/core/dock"
	"github.com/matzehuels/dockgrid/pkg/core/grid"
	"github.com/matzehuels/dockgrid/pkg/errors"
	"github.com/matzehuels/dockgrid/pkg/layoutio"
)

// Serialize converts a snapshot into its persisted document form.
func Serialize(s Snapshot) *layoutio.Document {
	doc := &layoutio.Document{
		Version:   layoutio.Version,
		Revision:  s.Revision,
		Main:      encodeNode(s.Grids[MainGrid].Root),
		Maximized: s.Maximized,
	}

	for _, slot := range dock.Slots() {
		for i, id := range s.Dock.InSlot(slot) {
			a := s.Dock.Activities[id]
			if doc.Activities == nil {
				doc.Activities = make(map[string]layoutio.Activity)
			}
			doc.Activities[id] = layoutio.Activity{
				Slot:         slot.String(),
				Order:        i,
				Icon:         a.Icon,
				Label:        a.Label,
				Title:        a.Title,
				Tooltip:      a.TooltipText,
				Part:         a.PartID,
				Active:       s.Dock.IsActive(id),
				Materialized: s.Materialized(id),
				Grid:         encodeNode(s.Grids[id].Root),
			}
		}
	}

	for p, ps := range s.Dock.Panels {
		if doc.Panels == nil {
			doc.Panels = make(map[string]layoutio.PanelState)
		}
		doc.Panels[p.String()] = layoutio.PanelState{Size: ps.Size, Ratio: ps.Ratio}
	}
	return doc
}

func encodeNode(n grid.Node) *layoutio.Node {
	switch n := n.(type) {
	case *grid.Split:
		return &layoutio.Node{
			Type:      layoutio.TypeSplit,
			Direction: n.Direction.String(),
			Ratio:     n.Ratio,
			Child1:    encodeNode(n.First),
			Child2:    encodeNode(n.Second),
		}
	case *grid.Part:
		return &layoutio.Node{
			Type:      layoutio.TypePart,
			ID:        n.ID,
			Views:     slices.Clone(n.Views),
			Active:    n.Active,
			Navigated: n.Navigated,
			Title:     n.Title,
		}
	}
	return nil
}

// Deserialize rebuilds a snapshot from a document. Panel defaults come from
// sizing, which is configuration rather than layout state. The result is
// validated as a whole; any inconsistency fails with the matching error
// code.
func Deserialize(doc *layoutio.Document, sizing dock.Sizing) (Snapshot, error) {
	if doc == nil {
		return Snapshot{}, errors.New(errors.ErrCodeInvalidFormat, "nil layout document")
	}
	s := Empty(sizing)
	s.Revision = doc.Revision
	s.Maximized = doc.Maximized

	main, err := decodeNode(doc.Main)
	if err != nil {
		return Snapshot{}, errors.Wrap(errors.GetCode(err), err, "main grid")
	}
	s.Grids[MainGrid] = grid.Tree{Root: main}

	type entry struct {
		id   string
		slot dock.Slot
		a    layoutio.Activity
	}
	entries := make([]entry, 0, len(doc.Activities))
	for id, a := range doc.Activities {
		if id == MainGrid {
			return Snapshot{}, errors.New(errors.ErrCodeInvalidInput, "activity id %q is reserved", id)
		}
		if err := errors.ValidateID("activity", id); err != nil {
			return Snapshot{}, err
		}
		slot, err := dock.ParseSlot(a.Slot)
		if err != nil {
			return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "activity %q", id)
		}
		entries = append(entries, entry{id: id, slot: slot, a: a})
	}
	slices.SortFunc(entries, func(x, y entry) int {
		return cmp.Or(cmp.Compare(x.slot, y.slot), cmp.Compare(x.a.Order, y.a.Order), cmp.Compare(x.id, y.id))
	})

	d := s.Dock
	for _, e := range entries {
		if d, err = d.Declare(dock.Activity{
			ID:          e.id,
			Icon:        e.a.Icon,
			Label:       e.a.Label,
			Title:       e.a.Title,
			TooltipText: e.a.Tooltip,
			Slot:        e.slot,
			PartID:      e.a.Part,
		}); err != nil {
			return Snapshot{}, err
		}
		if e.a.Active {
			if other := d.ActiveIn(e.slot); other != "" {
				return Snapshot{}, errors.Structural("slot %s has two active activities: %q and %q", e.slot, other, e.id)
			}
			if d, err = d.Activate(e.id); err != nil {
				return Snapshot{}, err
			}
		}
		if e.a.Materialized != (e.a.Grid != nil) {
			return Snapshot{}, errors.New(errors.ErrCodeInvalidFormat, "activity %q: materialized flag does not match grid", e.id)
		}
		if e.a.Grid != nil {
			root, err := decodeNode(e.a.Grid)
			if err != nil {
				return Snapshot{}, errors.Wrap(errors.GetCode(err), err, "activity %q grid", e.id)
			}
			s.Grids[e.id] = grid.Tree{Root: root}
		}
	}

	for name, ps := range doc.Panels {
		p, err := dock.ParsePanel(name)
		if err != nil {
			return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "panels")
		}
		if ps.Ratio != 0 {
			if err := errors.ValidateRatio(ps.Ratio); err != nil {
				return Snapshot{}, err
			}
		}
		if ps.Size < 0 {
			return Snapshot{}, errors.New(errors.ErrCodeInvalidFormat, "panel %s has negative size %v", name, ps.Size)
		}
		d.Panels[p] = dock.PanelState{Size: ps.Size, Ratio: ps.Ratio}
	}
	s.Dock = d

	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func decodeNode(n *layoutio.Node) (grid.Node, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Type {
	case layoutio.TypeSplit:
		dir, err := grid.ParseDirection(n.Direction)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "split")
		}
		if n.Child1 == nil || n.Child2 == nil {
			return nil, errors.Structural("split must have exactly two children")
		}
		first, err := decodeNode(n.Child1)
		if err != nil {
			return nil, err
		}
		second, err := decodeNode(n.Child2)
		if err != nil {
			return nil, err
		}
		return &grid.Split{Direction: dir, Ratio: n.Ratio, First: first, Second: second}, nil
	case layoutio.TypePart:
		if err := errors.ValidateID("part", n.ID); err != nil {
			return nil, err
		}
		for _, v := range n.Views {
			if err := errors.ValidateID("view", v); err != nil {
				return nil, errors.Wrap(errors.GetCode(err), err, "part %q", n.ID)
			}
		}
		p := &grid.Part{
			ID:        n.ID,
			Active:    n.Active,
			Navigated: n.Navigated,
			Title:     n.Title,
		}
		if len(n.Views) > 0 {
			p.Views = slices.Clone(n.Views)
		}
		return p, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown node type %q", n.Type)
}

// Marshal serializes and encodes a snapshot.
func Marshal(s Snapshot, f layoutio.Format) ([]byte, error) {
	return layoutio.Marshal(Serialize(s), f)
}

// Unmarshal decodes and deserializes a snapshot.
func Unmarshal(data []byte, f layoutio.Format, sizing dock.Sizing) (Snapshot, error) {
	doc, err := layoutio.Unmarshal(data, f)
	if err != nil {
		return Snapshot{}, err
	}
	return Deserialize(doc, sizing)
}
