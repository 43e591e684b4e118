package grid

import (
	"slices"

	"github.com/matzehuels/dockgrid/pkg/errors"
)

// Tree is an immutable layout grid. The zero value is an empty grid.
type Tree struct {
	Root Node
}

// Single returns a tree whose only node is p.
func Single(p *Part) Tree {
	return Tree{Root: p}
}

// IsEmpty reports whether the tree has no parts.
func (t Tree) IsEmpty() bool {
	return t.Root == nil
}

// Walk visits every node depth-first, first child before second. Returning
// false from fn stops the walk.
func (t Tree) Walk(fn func(n Node, depth int) bool) {
	walk(t.Root, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n, depth) {
		return false
	}
	if s, ok := n.(*Split); ok {
		return walk(s.First, depth+1, fn) && walk(s.Second, depth+1, fn)
	}
	return true
}

// Parts returns the leaves in depth-first order.
func (t Tree) Parts() []*Part {
	var parts []*Part
	t.Walk(func(n Node, _ int) bool {
		if p, ok := n.(*Part); ok {
			parts = append(parts, p)
		}
		return true
	})
	return parts
}

// Len returns the number of parts.
func (t Tree) Len() int {
	return len(t.Parts())
}

// Find returns the part with the given id, or nil.
func (t Tree) Find(id string) *Part {
	return t.TopLeft(func(p *Part) bool { return p.ID == id })
}

// FindView returns the part holding viewID, or nil.
func (t Tree) FindView(viewID string) *Part {
	return t.TopLeft(func(p *Part) bool { return p.HasView(viewID) })
}

// TopLeft returns the first part in depth-first, first-child-first order
// that satisfies pred, or nil.
func (t Tree) TopLeft(pred func(*Part) bool) *Part {
	var found *Part
	t.Walk(func(n Node, _ int) bool {
		if p, ok := n.(*Part); ok && pred(p) {
			found = p
			return false
		}
		return true
	})
	return found
}

// Parent returns the split directly above the part, or nil for the root.
func (t Tree) Parent(id string) *Split {
	var parent *Split
	t.Walk(func(n Node, _ int) bool {
		s, ok := n.(*Split)
		if !ok {
			return true
		}
		if isPart(s.First, id) || isPart(s.Second, id) {
			parent = s
			return false
		}
		return true
	})
	return parent
}

func isPart(n Node, id string) bool {
	p, ok := n.(*Part)
	return ok && p.ID == id
}

// AddPart inserts p next to the part ref, on the side given by align. The
// new part receives the fraction ratio of the space ref occupied. An empty
// ref splits the whole grid instead of a single part; on an empty tree it
// makes p the root.
func (t Tree) AddPart(p *Part, ref string, align Align, ratio float64) (Tree, error) {
	if err := errors.ValidateID("part", p.ID); err != nil {
		return t, err
	}
	if t.Find(p.ID) != nil {
		return t, errors.DuplicateID("part", p.ID)
	}
	for _, v := range p.Views {
		if t.FindView(v) != nil {
			return t, errors.DuplicateID("view", v)
		}
	}
	if t.IsEmpty() {
		if ref != "" {
			return t, errors.UnknownReference("part", ref)
		}
		return Single(p.clone()), nil
	}
	if err := errors.ValidateRatio(ratio); err != nil {
		return t, err
	}

	wrap := func(existing Node) Node {
		s := &Split{Direction: align.direction()}
		if align.first() {
			s.First, s.Second, s.Ratio = p.clone(), existing, ratio
		} else {
			s.First, s.Second, s.Ratio = existing, p.clone(), 1-ratio
		}
		return s
	}

	if ref == "" {
		return Tree{Root: wrap(t.Root)}, nil
	}
	root, ok := replace(t.Root, ref, func(old *Part) Node { return wrap(old) })
	if !ok {
		return t, errors.UnknownReference("part", ref)
	}
	return Tree{Root: root}, nil
}

// replace rebuilds the path to the part with the given id, substituting the
// node returned by fn. Untouched subtrees are shared.
func replace(n Node, id string, fn func(*Part) Node) (Node, bool) {
	switch n := n.(type) {
	case *Part:
		if n.ID == id {
			return fn(n), true
		}
	case *Split:
		if first, ok := replace(n.First, id, fn); ok {
			return &Split{Direction: n.Direction, Ratio: n.Ratio, First: first, Second: n.Second}, true
		}
		if second, ok := replace(n.Second, id, fn); ok {
			return &Split{Direction: n.Direction, Ratio: n.Ratio, First: n.First, Second: second}, true
		}
	}
	return n, false
}

// RemovePart deletes the part and promotes its sibling into the position of
// their parent split.
func (t Tree) RemovePart(id string) (Tree, error) {
	root, ok := remove(t.Root, id)
	if !ok {
		return t, errors.UnknownReference("part", id)
	}
	return Tree{Root: root}, nil
}

func remove(n Node, id string) (Node, bool) {
	switch n := n.(type) {
	case *Part:
		if n.ID == id {
			return nil, true
		}
	case *Split:
		if first, ok := remove(n.First, id); ok {
			if first == nil {
				return n.Second, true
			}
			return &Split{Direction: n.Direction, Ratio: n.Ratio, First: first, Second: n.Second}, true
		}
		if second, ok := remove(n.Second, id); ok {
			if second == nil {
				return n.First, true
			}
			return &Split{Direction: n.Direction, Ratio: n.Ratio, First: n.First, Second: second}, true
		}
	}
	return n, false
}

// updatePart applies fn to a copy of the part and swaps it into a new tree.
func (t Tree) updatePart(id string, fn func(p *Part) error) (Tree, error) {
	old := t.Find(id)
	if old == nil {
		return t, errors.UnknownReference("part", id)
	}
	p := old.clone()
	if err := fn(p); err != nil {
		return t, err
	}
	root, _ := replace(t.Root, id, func(*Part) Node { return p })
	return Tree{Root: root}, nil
}

// AddView appends viewID to the part. The first view of a part becomes its
// active view.
func (t Tree) AddView(viewID, partID string) (Tree, error) {
	if err := errors.ValidateID("view", viewID); err != nil {
		return t, err
	}
	if owner := t.FindView(viewID); owner != nil {
		return t, errors.Structural("view %q already belongs to part %q", viewID, owner.ID)
	}
	return t.updatePart(partID, func(p *Part) error {
		p.Views = append(p.Views, viewID)
		if p.Active == "" {
			p.Active = viewID
		}
		return nil
	})
}

// RemoveView detaches viewID from its part. When it was active, the view
// before it becomes active (the next one if it was first); an emptied part
// has no active view.
func (t Tree) RemoveView(viewID string) (Tree, error) {
	owner := t.FindView(viewID)
	if owner == nil {
		return t, errors.UnknownReference("view", viewID)
	}
	return t.updatePart(owner.ID, func(p *Part) error {
		detachView(p, viewID)
		return nil
	})
}

func detachView(p *Part, viewID string) {
	idx := slices.Index(p.Views, viewID)
	p.Views = slices.Delete(p.Views, idx, idx+1)
	if len(p.Views) == 0 {
		p.Views = nil
	}
	if p.Active != viewID {
		return
	}
	switch {
	case len(p.Views) == 0:
		p.Active = ""
	case idx > 0:
		p.Active = p.Views[idx-1]
	default:
		p.Active = p.Views[0]
	}
}

// ActivateView makes viewID the active view of its part. Activating the
// already active view returns the tree unchanged.
func (t Tree) ActivateView(viewID string) (Tree, error) {
	owner := t.FindView(viewID)
	if owner == nil {
		return t, errors.UnknownReference("view", viewID)
	}
	if owner.Active == viewID {
		return t, nil
	}
	return t.updatePart(owner.ID, func(p *Part) error {
		p.Active = viewID
		return nil
	})
}

// NavigatePart marks the part as having routed content.
func (t Tree) NavigatePart(partID string) (Tree, error) {
	p := t.Find(partID)
	if p == nil {
		return t, errors.UnknownReference("part", partID)
	}
	if p.Navigated {
		return t, nil
	}
	return t.updatePart(partID, func(p *Part) error {
		p.Navigated = true
		return nil
	})
}

// NavigateView routes viewID into the part, adding it if needed. The view
// becomes active only when the part had no active view before.
func (t Tree) NavigateView(viewID, partID string) (Tree, error) {
	if err := errors.ValidateID("view", viewID); err != nil {
		return t, err
	}
	if owner := t.FindView(viewID); owner != nil && owner.ID != partID {
		return t, errors.Structural("view %q already belongs to part %q", viewID, owner.ID)
	}
	return t.updatePart(partID, func(p *Part) error {
		p.Navigated = true
		if !p.HasView(viewID) {
			p.Views = append(p.Views, viewID)
		}
		if p.Active == "" {
			p.Active = viewID
		}
		return nil
	})
}

// SetTitle sets the title the part defines. An empty title clears it.
func (t Tree) SetTitle(partID, title string) (Tree, error) {
	return t.updatePart(partID, func(p *Part) error {
		p.Title = title
		return nil
	})
}

// MoveView moves viewID to the end of the target part and activates it
// there. The source part falls back as in RemoveView.
func (t Tree) MoveView(viewID, targetID string) (Tree, error) {
	src := t.FindView(viewID)
	if src == nil {
		return t, errors.UnknownReference("view", viewID)
	}
	if t.Find(targetID) == nil {
		return t, errors.UnknownReference("part", targetID)
	}
	if src.ID == targetID {
		return t.ActivateView(viewID)
	}
	next, err := t.updatePart(src.ID, func(p *Part) error {
		detachView(p, viewID)
		return nil
	})
	if err != nil {
		return t, err
	}
	return next.updatePart(targetID, func(p *Part) error {
		p.Views = append(p.Views, viewID)
		p.Active = viewID
		return nil
	})
}

// SwapParts exchanges the tree positions of two parts.
func (t Tree) SwapParts(a, b string) (Tree, error) {
	pa, pb := t.Find(a), t.Find(b)
	if pa == nil {
		return t, errors.UnknownReference("part", a)
	}
	if pb == nil {
		return t, errors.UnknownReference("part", b)
	}
	if a == b {
		return t, nil
	}
	return Tree{Root: swap(t.Root, pa, pb)}, nil
}

func swap(n Node, a, b *Part) Node {
	switch n := n.(type) {
	case *Part:
		switch n.ID {
		case a.ID:
			return b
		case b.ID:
			return a
		}
	case *Split:
		return &Split{Direction: n.Direction, Ratio: n.Ratio, First: swap(n.First, a, b), Second: swap(n.Second, a, b)}
	}
	return n
}

// MovePart detaches the part and reinserts it next to ref.
func (t Tree) MovePart(id, ref string, align Align, ratio float64) (Tree, error) {
	p := t.Find(id)
	if p == nil {
		return t, errors.UnknownReference("part", id)
	}
	if id == ref {
		return t, errors.Structural("cannot move part %q relative to itself", id)
	}
	if err := errors.ValidateRatio(ratio); err != nil {
		return t, err
	}
	removed, err := t.RemovePart(id)
	if err != nil {
		return t, err
	}
	if ref != "" && removed.Find(ref) == nil {
		return t, errors.UnknownReference("part", ref)
	}
	moved, err := removed.AddPart(p, ref, align, ratio)
	if err != nil {
		return t, err
	}
	return moved, nil
}

// SetSplitRatio sets the ratio of the split directly containing the part.
func (t Tree) SetSplitRatio(partID string, ratio float64) (Tree, error) {
	if err := errors.ValidateRatio(ratio); err != nil {
		return t, err
	}
	return t.updateParent(partID, func(s *Split) { s.Ratio = ratio })
}

// MoveSash drags the splitter of the split directly containing the part by
// deltaPx, given the split's extent along its axis. The resulting ratio is
// clamped to [MinRatio, 1-MinRatio].
func (t Tree) MoveSash(partID string, deltaPx, extentPx float64) (Tree, error) {
	if !(extentPx > 0) {
		return t, errors.New(errors.ErrCodeInvalidInput, "sash extent must be positive, got %v", extentPx)
	}
	return t.updateParent(partID, func(s *Split) {
		s.Ratio = clampRatio(s.Ratio + deltaPx/extentPx)
	})
}

func (t Tree) updateParent(partID string, fn func(*Split)) (Tree, error) {
	if t.Find(partID) == nil {
		return t, errors.UnknownReference("part", partID)
	}
	if t.Parent(partID) == nil {
		return t, errors.Structural("part %q is not inside a split", partID)
	}
	root, _ := updateParent(t.Root, partID, fn)
	return Tree{Root: root}, nil
}

func updateParent(n Node, id string, fn func(*Split)) (Node, bool) {
	s, ok := n.(*Split)
	if !ok {
		return n, false
	}
	c := &Split{Direction: s.Direction, Ratio: s.Ratio, First: s.First, Second: s.Second}
	if isPart(s.First, id) || isPart(s.Second, id) {
		fn(c)
		return c, true
	}
	if first, ok := updateParent(s.First, id, fn); ok {
		c.First = first
		return c, true
	}
	if second, ok := updateParent(s.Second, id, fn); ok {
		c.Second = second
		return c, true
	}
	return n, false
}

func clampRatio(r float64) float64 {
	if r < MinRatio {
		return MinRatio
	}
	if r > 1-MinRatio {
		return 1 - MinRatio
	}
	return r
}
