package layout

import (
	"image"
	"math"
)

// Rect is an axis-aligned rectangle in surface-pixel space with float64
// edges. Crop and placement math stays in floating point until the final
// pixel conversion to avoid accumulating rounding drift.
type Rect struct {
	X, Y, W, H float64
}

// RectFromImage converts a stdlib image.Rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{
		X: float64(r.Min.X),
		Y: float64(r.Min.Y),
		W: float64(r.Dx()),
		H: float64(r.Dy()),
	}
}

// Aspect returns width/height, or 0 for a degenerate rectangle.
func (r Rect) Aspect() float64 {
	if r.H <= 0 {
		return 0
	}
	return r.W / r.H
}

// Area returns the rectangle's area. Degenerate rectangles have zero area.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Center returns the midpoint.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// Intersect returns the overlapping rectangle of r and o, or a zero Rect
// if they are disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.MaxX(), o.MaxX())
	y1 := math.Min(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the bounding rectangle of r and o. A degenerate operand is
// ignored so unions can be folded starting from a zero Rect.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.MaxX(), o.MaxX())
	y1 := math.Max(r.MaxY(), o.MaxY())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// OverlapFrac returns the fraction of o's area covered by r, in [0,1].
func (r Rect) OverlapFrac(o Rect) float64 {
	oa := o.Area()
	if oa <= 0 {
		return 0
	}
	return r.Intersect(o).Area() / oa
}

// Inset shrinks the rectangle by d on every edge. Collapses to the center
// point if d is too large.
func (r Rect) Inset(d float64) Rect {
	if 2*d >= r.W || 2*d >= r.H {
		cx, cy := r.Center()
		return Rect{X: cx, Y: cy}
	}
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Expand grows the rectangle by d on every edge.
func (r Rect) Expand(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// ClampTo translates r so it lies within bounds, shrinking only when r is
// larger than bounds on an axis.
func (r Rect) ClampTo(bounds Rect) Rect {
	out := r
	if out.W > bounds.W {
		out.W = bounds.W
	}
	if out.H > bounds.H {
		out.H = bounds.H
	}
	if out.X < bounds.X {
		out.X = bounds.X
	}
	if out.MaxX() > bounds.MaxX() {
		out.X = bounds.MaxX() - out.W
	}
	if out.Y < bounds.Y {
		out.Y = bounds.Y
	}
	if out.MaxY() > bounds.MaxY() {
		out.Y = bounds.MaxY() - out.H
	}
	return out
}

// CenteredAt returns a copy of r repositioned so its midpoint is (cx, cy).
func (r Rect) CenteredAt(cx, cy float64) Rect {
	return Rect{X: cx - r.W/2, Y: cy - r.H/2, W: r.W, H: r.H}
}

// ToImageRect converts to a stdlib image.Rectangle, rounding to the nearest
// pixel. The result is guaranteed non-inverted.
func (r Rect) ToImageRect() image.Rectangle {
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	x1 := int(math.Round(r.MaxX()))
	y1 := int(math.Round(r.MaxY()))
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return image.Rect(x0, y0, x1, y1)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
