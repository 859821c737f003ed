package iset

import (
	"fmt"
)

// Bounds3D is an axis-aligned interval in time and normalized 2D space. Every
// axis range is half-open, [lo, hi): a detection covering frame f has
// T1=f, T2=f+1, and two bounds overlap on an axis iff their open interiors
// intersect. Zero-length ranges are legal (a degenerate bounds) but overlap
// nothing, including themselves.
//
// Bounds3D is a value type and is never mutated after construction; Span and
// Intersect return new values.
type Bounds3D struct {
	T1, T2 float64
	X1, X2 float64
	Y1, Y2 float64
}

// NewBounds3D validates coordinate ordering on each axis and returns the
// bounds. Equal coordinates are permitted and produce a degenerate range.
func NewBounds3D(t1, t2, x1, x2, y1, y2 float64) (Bounds3D, error) {
	switch {
	case t1 > t2:
		return Bounds3D{}, NewInvalidBoundsError("t", t1, t2)
	case x1 > x2:
		return Bounds3D{}, NewInvalidBoundsError("x", x1, x2)
	case y1 > y2:
		return Bounds3D{}, NewInvalidBoundsError("y", y1, y2)
	}
	return Bounds3D{T1: t1, T2: t2, X1: x1, X2: x2, Y1: y1, Y2: y2}, nil
}

// NewTemporalBounds returns bounds covering [t1, t2) in time and the full
// normalized frame in space.
func NewTemporalBounds(t1, t2 float64) (Bounds3D, error) {
	return NewBounds3D(t1, t2, 0, 1, 0, 1)
}

// Overlaps reports whether all three half-open axis ranges have a non-empty
// intersection.
func (b Bounds3D) Overlaps(other Bounds3D) bool {
	return b.OverlapsT(other) && b.OverlapsXY(other)
}

// OverlapsT tests overlap on the time axis only.
func (b Bounds3D) OverlapsT(other Bounds3D) bool {
	return b.T1 < other.T2 && other.T1 < b.T2
}

// OverlapsXY tests overlap on both spatial axes, ignoring time.
func (b Bounds3D) OverlapsXY(other Bounds3D) bool {
	return b.X1 < other.X2 && other.X1 < b.X2 &&
		b.Y1 < other.Y2 && other.Y1 < b.Y2
}

// Span returns the axis-wise union: the minimal bounds containing both.
func (b Bounds3D) Span(other Bounds3D) Bounds3D {
	return Bounds3D{
		T1: min(b.T1, other.T1), T2: max(b.T2, other.T2),
		X1: min(b.X1, other.X1), X2: max(b.X2, other.X2),
		Y1: min(b.Y1, other.Y1), Y2: max(b.Y2, other.Y2),
	}
}

// Intersect returns the axis-wise intersection. The second return value is
// false when the two bounds do not overlap on some axis, in which case the
// returned bounds is the zero value.
func (b Bounds3D) Intersect(other Bounds3D) (Bounds3D, bool) {
	if !b.Overlaps(other) {
		return Bounds3D{}, false
	}
	return Bounds3D{
		T1: max(b.T1, other.T1), T2: min(b.T2, other.T2),
		X1: max(b.X1, other.X1), X2: min(b.X2, other.X2),
		Y1: max(b.Y1, other.Y1), Y2: min(b.Y2, other.Y2),
	}, true
}

// Contains reports whether other lies entirely within b.
func (b Bounds3D) Contains(other Bounds3D) bool {
	return b.T1 <= other.T1 && other.T2 <= b.T2 &&
		b.X1 <= other.X1 && other.X2 <= b.X2 &&
		b.Y1 <= other.Y1 && other.Y2 <= b.Y2
}

// TLength returns the length of the time range.
func (b Bounds3D) TLength() float64 { return b.T2 - b.T1 }

// Width returns the length of the X range.
func (b Bounds3D) Width() float64 { return b.X2 - b.X1 }

// Height returns the length of the Y range.
func (b Bounds3D) Height() float64 { return b.Y2 - b.Y1 }

// String returns a compact representation for logs and error messages.
func (b Bounds3D) String() string {
	return fmt.Sprintf("t:[%g,%g) x:[%g,%g) y:[%g,%g)", b.T1, b.T2, b.X1, b.X2, b.Y1, b.Y2)
}
