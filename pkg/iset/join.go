package iset

import (
	"fmt"
	"math"
	"sort"
)

// Unbounded disables the temporal window: every pair of intervals is a join
// candidate regardless of how far apart they start.
var Unbounded = math.Inf(1)

// JoinPredicate decides whether a candidate pair matches. A returned error
// aborts the join.
type JoinPredicate[L, R any] func(Interval[L], Interval[R]) (bool, error)

// Merger constructs the result interval for a matched pair. A returned error
// aborts the join.
type Merger[L, R, O any] func(Interval[L], Interval[R]) (Interval[O], error)

// ProgressFunc receives sweep progress: the number of left intervals
// processed so far and the total. It carries no semantic weight and must not
// block.
type ProgressFunc func(done, total int)

type joinConfig struct {
	progress ProgressFunc
}

// JoinOption configures a join.
type JoinOption func(*joinConfig)

// WithProgress installs a progress callback invoked once per left interval
// during the sweep.
func WithProgress(f ProgressFunc) JoinOption {
	return func(c *joinConfig) { c.progress = f }
}

func (c *joinConfig) report(done, total int) {
	if c.progress != nil {
		c.progress(done, total)
	}
}

// Join produces, for every pair (a, b) with a from left and b from right such
// that |a.T1 - b.T1| <= window and pred(a, b) holds, the merged interval
// merge(a, b). The semantics are those of the full cross product filtered by
// the window and the predicate; results are grouped by a in left's stored
// order, then by b in right's stored order, so the output is deterministic.
//
// A bounded window makes the join sub-quadratic: the right set is argsorted
// by start time once, and each left interval only scans the candidates found
// by binary search inside [a.T1-window, a.T1+window]. Pass Unbounded to
// disable windowing, which falls back to the full cross product.
//
// The join is fail-fast: the first predicate or merger error aborts it and
// surfaces as an EvaluationError.
func Join[L, R, O any](left *IntervalSet[L], right *IntervalSet[R], pred JoinPredicate[L, R], merge Merger[L, R, O], window float64, opts ...JoinOption) (*IntervalSet[O], error) {
	if window < 0 || math.IsNaN(window) {
		return nil, fmt.Errorf("join: window must be non-negative, got %v", window)
	}

	cfg := &joinConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if math.IsInf(window, 1) {
		return crossJoin(left, right, pred, merge, cfg)
	}

	// Argsort the right set by start time. The stable sort keeps equal
	// starts in stored order, and candidate slices are re-sorted by
	// original position below, so the sweep emits exactly the
	// cross-product order.
	idx := make([]int, right.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return right.items[idx[i]].Bounds.T1 < right.items[idx[j]].Bounds.T1
	})
	starts := make([]float64, len(idx))
	for i, j := range idx {
		starts[i] = right.items[j].Bounds.T1
	}

	result := &IntervalSet[O]{}
	total := left.Len()
	candidates := make([]int, 0, len(idx))

	for i, a := range left.items {
		lo := sort.SearchFloat64s(starts, a.Bounds.T1-window)
		hi := sort.Search(len(starts), func(k int) bool {
			return starts[k] > a.Bounds.T1+window
		})

		candidates = append(candidates[:0], idx[lo:hi]...)
		sort.Ints(candidates)

		for _, j := range candidates {
			merged, ok, err := matchPair(a, right.items[j], pred, merge)
			if err != nil {
				return nil, err
			}
			if ok {
				result.items = append(result.items, merged)
			}
		}

		cfg.report(i+1, total)
	}

	return result, nil
}

func crossJoin[L, R, O any](left *IntervalSet[L], right *IntervalSet[R], pred JoinPredicate[L, R], merge Merger[L, R, O], cfg *joinConfig) (*IntervalSet[O], error) {
	result := &IntervalSet[O]{}
	total := left.Len()

	for i, a := range left.items {
		for _, b := range right.items {
			merged, ok, err := matchPair(a, b, pred, merge)
			if err != nil {
				return nil, err
			}
			if ok {
				result.items = append(result.items, merged)
			}
		}
		cfg.report(i+1, total)
	}

	return result, nil
}

func matchPair[L, R, O any](a Interval[L], b Interval[R], pred JoinPredicate[L, R], merge Merger[L, R, O]) (Interval[O], bool, error) {
	ok, err := pred(a, b)
	if err != nil {
		return Interval[O]{}, false, newEvaluationError("predicate", err)
	}
	if !ok {
		return Interval[O]{}, false, nil
	}

	merged, err := merge(a, b)
	if err != nil {
		return Interval[O]{}, false, newEvaluationError("merge", err)
	}

	return merged, true, nil
}
