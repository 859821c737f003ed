package iset

// IntervalSet is an ordered collection of intervals sharing one logical
// track. Duplicate bounds are legal: distinct detections can coincide.
// Sets are pure values, filter and map construct new sets and leave the
// receiver untouched.
type IntervalSet[P any] struct {
	items []Interval[P]
}

// NewIntervalSet bulk-constructs a set from intervals, preserving their
// order. The input slice is copied.
func NewIntervalSet[P any](items ...Interval[P]) *IntervalSet[P] {
	s := &IntervalSet[P]{items: make([]Interval[P], len(items))}
	copy(s.items, items)
	return s
}

// Len returns the number of intervals in the set.
func (s *IntervalSet[P]) Len() int { return len(s.items) }

// At returns the interval at position i.
func (s *IntervalSet[P]) At(i int) Interval[P] { return s.items[i] }

// Items returns a copy of the interval sequence.
func (s *IntervalSet[P]) Items() []Interval[P] {
	items := make([]Interval[P], len(s.items))
	copy(items, s.items)
	return items
}

// Filter keeps the intervals satisfying pred, preserving relative order.
func (s *IntervalSet[P]) Filter(pred func(Interval[P]) bool) *IntervalSet[P] {
	result := &IntervalSet[P]{}
	for _, iv := range s.items {
		if pred(iv) {
			result.items = append(result.items, iv)
		}
	}
	return result
}

// Map applies an elementwise transform that keeps the payload type.
func (s *IntervalSet[P]) Map(transform func(Interval[P]) Interval[P]) *IntervalSet[P] {
	result := &IntervalSet[P]{items: make([]Interval[P], len(s.items))}
	for i, iv := range s.items {
		result.items[i] = transform(iv)
	}
	return result
}

// MapSet applies an elementwise transform that changes the payload type.
// Type-changing transforms cannot be methods, so this is the package-level
// counterpart of IntervalSet.Map.
func MapSet[P, O any](s *IntervalSet[P], transform func(Interval[P]) Interval[O]) *IntervalSet[O] {
	result := &IntervalSet[O]{items: make([]Interval[O], len(s.items))}
	for i, iv := range s.items {
		result.items[i] = transform(iv)
	}
	return result
}
