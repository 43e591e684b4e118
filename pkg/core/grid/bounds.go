package grid

import "github.com/matzehuels/dockgrid/pkg/core/geom"

// Bounds lays the tree out inside outer and returns the rectangle of every
// part, keyed by part id. Row splits give the first child Ratio of the
// width, column splits give it Ratio of the height. Sibling rectangles abut
// exactly; no space is reserved for sashes.
func Bounds(t Tree, outer geom.Rect) map[string]geom.Rect {
	out := make(map[string]geom.Rect)
	layoutNode(t.Root, outer, out)
	return out
}

func layoutNode(n Node, r geom.Rect, out map[string]geom.Rect) {
	switch n := n.(type) {
	case *Part:
		out[n.ID] = r
	case *Split:
		first, second := splitRect(r, n.Direction, n.Ratio)
		layoutNode(n.First, first, out)
		layoutNode(n.Second, second, out)
	}
}

func splitRect(r geom.Rect, d Direction, ratio float64) (geom.Rect, geom.Rect) {
	if d == Row {
		w := r.Width * ratio
		return geom.Rect{X: r.X, Y: r.Y, Width: w, Height: r.Height},
			geom.Rect{X: r.X + w, Y: r.Y, Width: r.Width - w, Height: r.Height}
	}
	h := r.Height * ratio
	return geom.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: h},
		geom.Rect{X: r.X, Y: r.Y + h, Width: r.Width, Height: r.Height - h}
}

// SplitExtent returns the size, along the split axis, of the split directly
// containing the part. It is the extent MoveSash expects. ok is false when
// the part is the root or absent.
func SplitExtent(t Tree, partID string, outer geom.Rect) (extent float64, ok bool) {
	var found bool
	var visit func(n Node, r geom.Rect) bool
	visit = func(n Node, r geom.Rect) bool {
		s, isSplit := n.(*Split)
		if !isSplit {
			return false
		}
		if isPart(s.First, partID) || isPart(s.Second, partID) {
			found = true
			if s.Direction == Row {
				extent = r.Width
			} else {
				extent = r.Height
			}
			return true
		}
		first, second := splitRect(r, s.Direction, s.Ratio)
		return visit(s.First, first) || visit(s.Second, second)
	}
	visit(t.Root, outer)
	return extent, found
}
