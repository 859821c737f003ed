// Package iset implements an interval-set algebra over spatiotemporal
// detections: axis-aligned 3D bounds (time plus two spatial axes), payload
// carrying intervals, ordered interval sets, and keyed mappings of sets.
//
// Key components:
//   - Bounds3D: Immutable half-open interval in time and 2D space.
//   - Interval: A Bounds3D paired with an arbitrary payload.
//   - IntervalSet: An ordered collection of intervals on one track.
//   - IntervalSetMapping: Per-partition interval sets keyed by source ID.
//   - Join/JoinMaps: Windowed pairwise joins producing merged intervals.
//
// All operations are pure: filter, map and join construct new values and
// never mutate their inputs. Payloads are generic, so a join over payloads L
// and R can produce a set with a third payload type O; joins are therefore
// package-level functions rather than methods.
//
// The join sweeps the left set in stored order and narrows the right set to
// the candidates whose start time lies within the configured window, using a
// single argsort plus binary search. Its output is identical, interval for
// interval and in the same order, to the naive cross-product semantics.
//
// Example usage:
//
//	a := iset.NewIntervalSet(persons...)
//	b := iset.NewIntervalSet(dogs...)
//	pairs, err := iset.Join(a, b,
//		iset.OnBounds[Person, Dog](iset.T(iset.Equal())),
//		iset.SpanPair[Person, Dog](), 0)
package iset
