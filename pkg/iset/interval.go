package iset

import (
	"fmt"
)

// Interval pairs a bounds with an arbitrary payload: a detection class, a
// confidence score, or the nested result of an earlier join. Intervals are
// values; operations that combine them construct new ones.
type Interval[P any] struct {
	Bounds  Bounds3D
	Payload P
}

// NewInterval creates an interval over the given bounds.
func NewInterval[P any](bounds Bounds3D, payload P) Interval[P] {
	return Interval[P]{Bounds: bounds, Payload: payload}
}

// String returns a compact representation for logs.
func (iv Interval[P]) String() string {
	return fmt.Sprintf("{%s %v}", iv.Bounds.String(), iv.Payload)
}

// BoundsCombiner combines the bounds of two matched intervals into the bounds
// of the result.
type BoundsCombiner func(a, b Bounds3D) Bounds3D

// PayloadMerger combines the payloads of two matched intervals.
type PayloadMerger[L, R, O any] func(L, R) (O, error)

// Merge builds the interval for a matched pair: bounds through combine, or
// through Span when combine is nil, and payload through merge. This is the
// building block join mergers are assembled from.
func Merge[L, R, O any](a Interval[L], b Interval[R], combine BoundsCombiner, merge PayloadMerger[L, R, O]) (Interval[O], error) {
	payload, err := merge(a.Payload, b.Payload)
	if err != nil {
		return Interval[O]{}, err
	}

	bounds := a.Bounds.Span(b.Bounds)
	if combine != nil {
		bounds = combine(a.Bounds, b.Bounds)
	}

	return Interval[O]{Bounds: bounds, Payload: payload}, nil
}

// Pair is the payload of the common two-role merge: the left and right
// payloads of a matched pair, kept intact for downstream queries.
type Pair[L, R any] struct {
	Left  L
	Right R
}

// SpanPair returns the standard merger: result bounds span both inputs and
// the result payload nests both input payloads.
func SpanPair[L, R any]() Merger[L, R, Pair[L, R]] {
	return func(a Interval[L], b Interval[R]) (Interval[Pair[L, R]], error) {
		return Interval[Pair[L, R]]{
			Bounds:  a.Bounds.Span(b.Bounds),
			Payload: Pair[L, R]{Left: a.Payload, Right: b.Payload},
		}, nil
	}
}
