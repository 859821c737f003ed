package iset

import (
	"cmp"
	"slices"
	"sync"
)

// IntervalSetMapping maps a partition key, typically a video or source ID, to
// one interval set. Operations apply per key, never across keys, and since
// the per-key data is disjoint they fan out to goroutines with no locking on
// the data path. Per-key results are deterministic regardless of scheduling.
type IntervalSetMapping[K cmp.Ordered, P any] struct {
	sets map[K]*IntervalSet[P]
}

// NewIntervalSetMapping creates an empty mapping.
func NewIntervalSetMapping[K cmp.Ordered, P any]() *IntervalSetMapping[K, P] {
	return &IntervalSetMapping[K, P]{sets: make(map[K]*IntervalSet[P])}
}

// FromSets bulk-constructs a mapping. The map is copied, the sets are shared:
// they are immutable anyway.
func FromSets[K cmp.Ordered, P any](sets map[K]*IntervalSet[P]) *IntervalSetMapping[K, P] {
	m := NewIntervalSetMapping[K, P]()
	for key, s := range sets {
		m.sets[key] = s
	}
	return m
}

// Put stores a set under a key, replacing any previous entry. Each key maps
// to exactly one set.
func (m *IntervalSetMapping[K, P]) Put(key K, s *IntervalSet[P]) {
	m.sets[key] = s
}

// Get returns the set under the given key, or a KeyNotFoundError.
func (m *IntervalSetMapping[K, P]) Get(key K) (*IntervalSet[P], error) {
	s, ok := m.sets[key]
	if !ok {
		return nil, NewKeyNotFoundError(key)
	}
	return s, nil
}

// Keys returns the partition keys in sorted order.
func (m *IntervalSetMapping[K, P]) Keys() []K {
	keys := make([]K, 0, len(m.sets))
	for key := range m.sets {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of partitions.
func (m *IntervalSetMapping[K, P]) Len() int { return len(m.sets) }

// Size returns the total number of intervals over all partitions.
func (m *IntervalSetMapping[K, P]) Size() int {
	total := 0
	for _, s := range m.sets {
		total += s.Len()
	}
	return total
}

// Filter applies IntervalSet.Filter to every entry independently. The result
// has the same key set.
func (m *IntervalSetMapping[K, P]) Filter(pred func(Interval[P]) bool) *IntervalSetMapping[K, P] {
	return m.apply(func(s *IntervalSet[P]) *IntervalSet[P] { return s.Filter(pred) })
}

// Map applies IntervalSet.Map to every entry independently.
func (m *IntervalSetMapping[K, P]) Map(transform func(Interval[P]) Interval[P]) *IntervalSetMapping[K, P] {
	return m.apply(func(s *IntervalSet[P]) *IntervalSet[P] { return s.Map(transform) })
}

func (m *IntervalSetMapping[K, P]) apply(op func(*IntervalSet[P]) *IntervalSet[P]) *IntervalSetMapping[K, P] {
	keys := m.Keys()
	results := make([]*IntervalSet[P], len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, s *IntervalSet[P]) {
			defer wg.Done()
			results[i] = op(s)
		}(i, m.sets[key])
	}
	wg.Wait()

	result := NewIntervalSetMapping[K, P]()
	for i, key := range keys {
		result.sets[key] = results[i]
	}
	return result
}

// JoinMaps joins two mappings key by key: the result key set is the
// intersection of the input key sets, and each shared key holds the join of
// the two sets stored under it. Keys present on only one side are dropped,
// not an error. Per-key joins run concurrently; the first error aborts the
// whole operation.
func JoinMaps[K cmp.Ordered, L, R, O any](left *IntervalSetMapping[K, L], right *IntervalSetMapping[K, R], pred JoinPredicate[L, R], merge Merger[L, R, O], window float64, opts ...JoinOption) (*IntervalSetMapping[K, O], error) {
	keys := make([]K, 0, len(left.sets))
	for _, key := range left.Keys() {
		if _, ok := right.sets[key]; ok {
			keys = append(keys, key)
		}
	}

	results := make([]*IntervalSet[O], len(keys))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, key := range keys {
		wg.Add(1)
		go func(i int, ls *IntervalSet[L], rs *IntervalSet[R]) {
			defer wg.Done()
			res, err := Join(ls, rs, pred, merge, window, opts...)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = res
		}(i, left.sets[key], right.sets[key])
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	result := NewIntervalSetMapping[K, O]()
	for i, key := range keys {
		result.sets[key] = results[i]
	}
	return result, nil
}
