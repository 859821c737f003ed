package iset

// AxisPredicate compares one axis range of two bounds, given as the two
// coordinate pairs of that axis.
type AxisPredicate func(lo1, hi1, lo2, hi2 float64) bool

// Equal returns an axis predicate that holds when both ranges coincide
// exactly.
func Equal() AxisPredicate {
	return func(lo1, hi1, lo2, hi2 float64) bool {
		return lo1 == lo2 && hi1 == hi2
	}
}

// Overlap returns an axis predicate that holds when the two half-open ranges
// intersect.
func Overlap() AxisPredicate {
	return func(lo1, hi1, lo2, hi2 float64) bool {
		return lo1 < hi2 && lo2 < hi1
	}
}

// Before returns an axis predicate that holds when the first range ends at or
// before the start of the second.
func Before() AxisPredicate {
	return func(_, hi1, lo2, _ float64) bool {
		return hi1 <= lo2
	}
}

// BoundsPredicate decides whether two bounds are join-compatible.
type BoundsPredicate func(a, b Bounds3D) bool

// T lifts an axis predicate onto the time axis, ignoring the spatial axes.
func T(p AxisPredicate) BoundsPredicate {
	return func(a, b Bounds3D) bool { return p(a.T1, a.T2, b.T1, b.T2) }
}

// X lifts an axis predicate onto the X axis.
func X(p AxisPredicate) BoundsPredicate {
	return func(a, b Bounds3D) bool { return p(a.X1, a.X2, b.X1, b.X2) }
}

// Y lifts an axis predicate onto the Y axis.
func Y(p AxisPredicate) BoundsPredicate {
	return func(a, b Bounds3D) bool { return p(a.Y1, a.Y2, b.Y1, b.Y2) }
}

// TEqual holds when the two time ranges coincide exactly.
func TEqual() BoundsPredicate { return T(Equal()) }

// TOverlaps holds when the two time ranges intersect.
func TOverlaps() BoundsPredicate { return T(Overlap()) }

// XYOverlaps holds when the two boxes intersect spatially, ignoring time.
func XYOverlaps() BoundsPredicate {
	return And(X(Overlap()), Y(Overlap()))
}

// Overlapping holds when the two bounds intersect on all three axes.
func Overlapping() BoundsPredicate {
	return func(a, b Bounds3D) bool { return a.Overlaps(b) }
}

// And combines bounds predicates conjunctively.
func And(preds ...BoundsPredicate) BoundsPredicate {
	return func(a, b Bounds3D) bool {
		for _, p := range preds {
			if !p(a, b) {
				return false
			}
		}
		return true
	}
}

// Or combines bounds predicates disjunctively.
func Or(preds ...BoundsPredicate) BoundsPredicate {
	return func(a, b Bounds3D) bool {
		for _, p := range preds {
			if p(a, b) {
				return true
			}
		}
		return false
	}
}

// Not negates a bounds predicate.
func Not(p BoundsPredicate) BoundsPredicate {
	return func(a, b Bounds3D) bool { return !p(a, b) }
}

// OnBounds lifts a bounds predicate into a join predicate that ignores
// payloads and never fails.
func OnBounds[L, R any](p BoundsPredicate) JoinPredicate[L, R] {
	return func(a Interval[L], b Interval[R]) (bool, error) {
		return p(a.Bounds, b.Bounds), nil
	}
}
