package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Quadrant identifies a child cell. The numeric order is the child order of a node
type Quadrant int

const (
	NW Quadrant = iota
	NE
	SE
	SW
)

func (q Quadrant) String() string {
	switch q {
	case NW:
		return "NW"
	case NE:
		return "NE"
	case SE:
		return "SE"
	case SW:
		return "SW"
	}
	return "?"
}

// Rect is an axis-aligned box. Edges are derived once by NewRect and never recomputed.
// Y grows downward, so Top < Bottom.
type Rect struct {
	CenterX, CenterY float64
	Width, Height    float64
	Top, Bottom      float64
	Left, Right      float64
}

// NewRect builds a rectangle centered on (x, y)
func NewRect(x, y, height, width float64) Rect {
	return Rect{
		CenterX: x,
		CenterY: y,
		Width:   width,
		Height:  height,
		Top:     y - height/2,
		Bottom:  y + height/2,
		Left:    x - width/2,
		Right:   x + width/2,
	}
}

// Contains reports whether p lies inside r, edges included.
// A point on a shared edge is contained by both neighbours.
func (r Rect) Contains(p r2.Vec) bool {
	return r.Left <= p.X && p.X <= r.Right &&
		r.Top <= p.Y && p.Y <= r.Bottom
}

// Intersects reports whether the two boxes overlap, edges included
func (r Rect) Intersects(o Rect) bool {
	return r.Left <= o.Right && o.Left <= r.Right &&
		r.Top <= o.Bottom && o.Top <= r.Bottom
}

func (r Rect) Center() r2.Vec {
	return r2.Vec{X: r.CenterX, Y: r.CenterY}
}

// Size is the mean side length, used as the cell size in the opening criterion
func (r Rect) Size() float64 {
	return (r.Width + r.Height) / 2
}

// Quadrant returns the child cell q of r.
// Child edges are copied from the parent's edges and center so siblings share split lines exactly.
func (r Rect) Quadrant(q Quadrant) Rect {
	switch q {
	case NW:
		return fromEdges(r.Left, r.CenterX, r.Top, r.CenterY)
	case NE:
		return fromEdges(r.CenterX, r.Right, r.Top, r.CenterY)
	case SE:
		return fromEdges(r.CenterX, r.Right, r.CenterY, r.Bottom)
	case SW:
		return fromEdges(r.Left, r.CenterX, r.CenterY, r.Bottom)
	}
	panic("geom: invalid quadrant")
}

func fromEdges(left, right, top, bottom float64) Rect {
	return Rect{
		CenterX: (left + right) / 2,
		CenterY: (top + bottom) / 2,
		Width:   right - left,
		Height:  bottom - top,
		Top:     top,
		Bottom:  bottom,
		Left:    left,
		Right:   right,
	}
}

// Bounding returns the smallest square that covers base and every point, grown by margin on each side
func Bounding(base Rect, points []r2.Vec, margin float64) Rect {
	left, right, top, bottom := base.Left, base.Right, base.Top, base.Bottom
	for _, p := range points {
		left = math.Min(left, p.X)
		right = math.Max(right, p.X)
		top = math.Min(top, p.Y)
		bottom = math.Max(bottom, p.Y)
	}
	side := math.Max(right-left, bottom-top) + 2*margin
	return NewRect((left+right)/2, (top+bottom)/2, side, side)
}
