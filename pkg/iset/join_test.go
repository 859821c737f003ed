package iset

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	g "github.com/onsi/gomega"
)

// naiveJoin is the reference semantics: the full cross product filtered by
// the window and the predicate, in left-then-right stored order.
func naiveJoin(left, right *IntervalSet[int], pred JoinPredicate[int, int], merge Merger[int, int, Pair[int, int]], window float64) []Interval[Pair[int, int]] {
	out := []Interval[Pair[int, int]]{}
	for _, a := range left.Items() {
		for _, b := range right.Items() {
			if math.Abs(a.Bounds.T1-b.Bounds.T1) > window {
				continue
			}
			ok, err := pred(a, b)
			g.Expect(err).NotTo(g.HaveOccurred())
			if !ok {
				continue
			}
			m, err := merge(a, b)
			g.Expect(err).NotTo(g.HaveOccurred())
			out = append(out, m)
		}
	}
	return out
}

func randomSet(rng *rand.Rand, n int, maxFrame int) *IntervalSet[int] {
	items := make([]Interval[int], n)
	for i := range items {
		f := float64(rng.Intn(maxFrame))
		items[i] = NewInterval(mustTemporal(f, f+1+float64(rng.Intn(3))), i)
	}
	return NewIntervalSet(items...)
}

var _ = Describe("Join", func() {
	always := OnBounds[int, int](func(_, _ Bounds3D) bool { return true })
	pair := SpanPair[int, int]()

	Context("Cross-product semantics", func() {
		It("should equal the full cross product with an always-true predicate and unbounded window", func() {
			left := NewIntervalSet(
				NewInterval(mustTemporal(0, 1), 1),
				NewInterval(mustTemporal(10, 11), 2),
			)
			right := NewIntervalSet(
				NewInterval(mustTemporal(100, 101), 10),
				NewInterval(mustTemporal(0, 1), 20),
				NewInterval(mustTemporal(50, 51), 30),
			)

			got, err := Join(left, right, always, pair, Unbounded)
			g.Expect(err).NotTo(g.HaveOccurred())
			g.Expect(got.Len()).To(g.Equal(6))
			g.Expect(got.Items()).To(g.Equal(naiveJoin(left, right, always, pair, Unbounded)))
		})

		It("should group results by left order, then right order", func() {
			left := NewIntervalSet(
				NewInterval(mustTemporal(5, 6), 1),
				NewInterval(mustTemporal(0, 1), 2),
			)
			right := NewIntervalSet(
				NewInterval(mustTemporal(9, 10), 10),
				NewInterval(mustTemporal(3, 4), 20),
			)

			got, err := Join(left, right, always, pair, Unbounded)
			g.Expect(err).NotTo(g.HaveOccurred())

			payloads := make([]Pair[int, int], 0, got.Len())
			for _, iv := range got.Items() {
				payloads = append(payloads, iv.Payload)
			}
			g.Expect(payloads).To(g.Equal([]Pair[int, int]{
				{Left: 1, Right: 10}, {Left: 1, Right: 20},
				{Left: 2, Right: 10}, {Left: 2, Right: 20},
			}))
		})
	})

	Context("Windowing", func() {
		It("should keep only start-aligned pairs with window 0 and a temporal-equal predicate", func() {
			a := NewIntervalSet(NewInterval(mustTemporal(0, 1), 1))
			b := NewIntervalSet(NewInterval(mustTemporal(0, 1), 2))

			got, err := Join(a, b, OnBounds[int, int](TEqual()), pair, 0)
			g.Expect(err).NotTo(g.HaveOccurred())
			g.Expect(got.Len()).To(g.Equal(1))
			g.Expect(got.At(0).Bounds).To(g.Equal(mustTemporal(0, 1)))
			g.Expect(got.At(0).Payload).To(g.Equal(Pair[int, int]{Left: 1, Right: 2}))
		})

		It("should produce nothing when all starts are outside the window", func() {
			left := NewIntervalSet(
				NewInterval(mustTemporal(0, 1), 1),
				NewInterval(mustTemporal(1, 2), 2),
				NewInterval(mustTemporal(2, 3), 3),
			)
			right := NewIntervalSet(NewInterval(mustTemporal(5, 6), 10))

			got, err := Join(left, right, OnBounds[int, int](TEqual()), pair, 0)
			g.Expect(err).NotTo(g.HaveOccurred())
			g.Expect(got.Len()).To(g.BeZero())
		})

		It("should never produce more results than the unbounded join", func() {
			rng := rand.New(rand.NewSource(7))
			left := randomSet(rng, 50, 30)
			right := randomSet(rng, 60, 30)

			unbounded, err := Join(left, right, always, pair, Unbounded)
			g.Expect(err).NotTo(g.HaveOccurred())
			for _, window := range []float64{0, 1, 2, 5, 10} {
				got, err := Join(left, right, always, pair, window)
				g.Expect(err).NotTo(g.HaveOccurred())
				g.Expect(got.Len()).To(g.BeNumerically("<=", unbounded.Len()))
			}
		})

		It("should reject a negative window", func() {
			a := NewIntervalSet(NewInterval(mustTemporal(0, 1), 1))
			_, err := Join(a, a, always, pair, -1)
			g.Expect(err).To(g.HaveOccurred())
		})
	})

	Context("Sweep equivalence", func() {
		It("should match the naive reference on randomized sets", func() {
			rng := rand.New(rand.NewSource(42))
			preds := []JoinPredicate[int, int]{
				always,
				OnBounds[int, int](TEqual()),
				OnBounds[int, int](TOverlaps()),
			}

			for trial := 0; trial < 20; trial++ {
				left := randomSet(rng, 1+rng.Intn(80), 40)
				right := randomSet(rng, 1+rng.Intn(80), 40)
				window := float64(rng.Intn(12))
				pred := preds[trial%len(preds)]

				got, err := Join(left, right, pred, pair, window)
				g.Expect(err).NotTo(g.HaveOccurred())
				g.Expect(got.Items()).To(g.Equal(naiveJoin(left, right, pred, pair, window)),
					"trial %d, window %v", trial, window)
			}
		})

		It("should produce one result per tie, not at most one", func() {
			left := NewIntervalSet(NewInterval(mustTemporal(3, 4), 1))
			right := NewIntervalSet(
				NewInterval(mustTemporal(3, 4), 10),
				NewInterval(mustTemporal(3, 5), 20),
				NewInterval(mustTemporal(3, 4), 30),
			)

			got, err := Join(left, right, OnBounds[int, int](TOverlaps()), pair, 0)
			g.Expect(err).NotTo(g.HaveOccurred())
			g.Expect(got.Len()).To(g.Equal(3))
		})
	})

	Context("Error propagation", func() {
		It("should abort on the first predicate error", func() {
			boom := errors.New("boom")
			failing := func(_, _ Interval[int]) (bool, error) { return false, boom }

			a := NewIntervalSet(NewInterval(mustTemporal(0, 1), 1))
			_, err := Join(a, a, failing, pair, Unbounded)
			g.Expect(err).To(g.HaveOccurred())

			var ee *EvaluationError
			g.Expect(errors.As(err, &ee)).To(g.BeTrue())
			g.Expect(ee.Stage).To(g.Equal("predicate"))
			g.Expect(errors.Is(err, boom)).To(g.BeTrue())
		})

		It("should abort on the first merger error", func() {
			boom := errors.New("merge boom")
			failing := func(_, _ Interval[int]) (Interval[Pair[int, int]], error) {
				return Interval[Pair[int, int]]{}, boom
			}

			a := NewIntervalSet(NewInterval(mustTemporal(0, 1), 1))
			_, err := Join(a, a, always, failing, 0)
			g.Expect(err).To(g.HaveOccurred())

			var ee *EvaluationError
			g.Expect(errors.As(err, &ee)).To(g.BeTrue())
			g.Expect(ee.Stage).To(g.Equal("merge"))
		})
	})

	Context("Progress reporting", func() {
		It("should report once per left interval", func() {
			rng := rand.New(rand.NewSource(1))
			left := randomSet(rng, 10, 5)
			right := randomSet(rng, 10, 5)

			var calls []int
			_, err := Join(left, right, always, pair, 2,
				WithProgress(func(done, total int) {
					g.Expect(total).To(g.Equal(10))
					calls = append(calls, done)
				}))
			g.Expect(err).NotTo(g.HaveOccurred())
			g.Expect(calls).To(g.HaveLen(10))
			g.Expect(calls[9]).To(g.Equal(10))
		})
	})
})
