// Package geom holds the small geometry vocabulary shared by the grid and
// the anchor tracker: points, rectangles and per-axis clamping.
package geom

import "math"

// Point is a screen coordinate in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle. X and Y are the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Left returns the minimum X edge.
func (r Rect) Left() float64 { return r.X }

// Right returns the maximum X edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Top returns the minimum Y edge.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the maximum Y edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Intersect returns the overlap of r and o. The result is empty (zero size,
// positioned at the nearest corner) when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	left := math.Max(r.Left(), o.Left())
	top := math.Max(r.Top(), o.Top())
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	return Rect{X: left, Y: top, Width: math.Max(0, right-left), Height: math.Max(0, bottom-top)}
}

// OverlapsVertically returns true if the two rectangles overlap in the Y axis.
func (r Rect) OverlapsVertically(o Rect) bool {
	return r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// OverlapsHorizontally returns true if the two rectangles overlap in the X axis.
func (r Rect) OverlapsHorizontally(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width
}

// ClampValue limits v to [lo, hi]. When lo > hi the range is degenerate and
// lo wins, so a zero-size bound pins the value to its origin.
func ClampValue(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Clamp snaps p into r on each axis independently. Points inside r are
// returned unchanged.
func Clamp(p Point, r Rect) Point {
	return Point{
		X: ClampValue(p.X, r.Left(), r.Right()),
		Y: ClampValue(p.Y, r.Top(), r.Bottom()),
	}
}
