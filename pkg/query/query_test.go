package query

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/trackspan/trackspan/pkg/iset"
)

func frameDoc(t1 float64, score float64, class bool) iset.Interval[Document] {
	b, err := iset.NewTemporalBounds(t1, t1+1)
	Expect(err).NotTo(HaveOccurred())
	return iset.NewInterval(b, Document{"score": score, "class": class})
}

var _ = Describe("Queries", func() {
	var persons, dogs *iset.IntervalSetMapping[int, Document]

	BeforeEach(func() {
		persons = iset.NewIntervalSetMapping[int, Document]()
		persons.Put(0, iset.NewIntervalSet(
			frameDoc(0, 0.9, true),
			frameDoc(1, 0.3, false),
			frameDoc(2, 0.8, true),
		))

		dogs = iset.NewIntervalSetMapping[int, Document]()
		dogs.Put(0, iset.NewIntervalSet(
			frameDoc(0, 0.7, true),
			frameDoc(1, 0.6, true),
			frameDoc(2, 0.2, false),
		))
	})

	Context("Parsing", func() {
		It("should parse a full query document", func() {
			q, err := FromYAML([]byte(`
left:
  filter:
    "@eq": ["$.class", true]
right:
  filter:
    "@eq": ["$.class", true]
join:
  predicate: temporal-equal
  window: 0
  leftAs: person
  rightAs: bike
`))
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Join.Predicate).To(Equal("temporal-equal"))
			Expect(*q.Join.Window).To(BeZero())
		})

		It("should reject an unknown join predicate", func() {
			_, err := FromYAML([]byte("join:\n  predicate: nonsense\n"))
			Expect(err).To(HaveOccurred())
		})

		It("should reject a negative window", func() {
			_, err := FromYAML([]byte("join:\n  window: -1\n"))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Execution", func() {
		It("should filter both sides and join start-aligned pairs", func() {
			q, err := FromYAML([]byte(`
left:
  filter:
    "@eq": ["$.class", true]
right:
  filter:
    "@eq": ["$.class", true]
join:
  predicate: temporal-equal
  window: 0
  leftAs: person
  rightAs: bike
`))
			Expect(err).NotTo(HaveOccurred())

			got, err := Run(q, persons, dogs, logger)
			Expect(err).NotTo(HaveOccurred())

			s, err := got.Get(0)
			Expect(err).NotTo(HaveOccurred())
			// only frame 0 survives both class filters
			Expect(s.Len()).To(Equal(1))
			Expect(s.At(0).Bounds.T1).To(Equal(0.0))
			Expect(s.At(0).Bounds.T2).To(Equal(1.0))
			Expect(s.At(0).Payload).To(Equal(Document{
				"person": Document{"score": 0.9, "class": true},
				"bike":   Document{"score": 0.7, "class": true},
			}))
		})

		It("should default to an unfiltered temporal-equal join", func() {
			q, err := FromYAML([]byte("join: {}\n"))
			Expect(err).NotTo(HaveOccurred())

			got, err := Run(q, persons, dogs, logger)
			Expect(err).NotTo(HaveOccurred())

			s, err := got.Get(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Len()).To(Equal(3))
			Expect(s.At(1).Payload).To(HaveKey("left"))
			Expect(s.At(1).Payload).To(HaveKey("right"))
		})

		It("should keep only the key intersection", func() {
			other := iset.NewIntervalSetMapping[int, Document]()
			other.Put(7, iset.NewIntervalSet(frameDoc(0, 0.5, true)))

			q, err := FromYAML([]byte("join: {}\n"))
			Expect(err).NotTo(HaveOccurred())

			got, err := Run(q, persons, other, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Len()).To(BeZero())
		})

		It("should fail fast on a filter that is not a condition", func() {
			q, err := FromYAML([]byte(`
left:
  filter:
    "@string": "$.score"
join: {}
`))
			Expect(err).NotTo(HaveOccurred())

			_, err = Run(q, persons, dogs, logger)
			Expect(err).To(HaveOccurred())
		})

		It("should fail fast on a filter referencing a missing field", func() {
			q, err := FromYAML([]byte(`
left:
  filter:
    "@eq": ["$.nope", 1]
join: {}
`))
			Expect(err).NotTo(HaveOccurred())

			_, err = Run(q, persons, dogs, logger)
			Expect(err).To(HaveOccurred())
		})
	})
})
