// Package query is the declarative surface of the algebra: co-occurrence
// queries written as YAML documents, with filter expressions over detection
// payloads and a windowed join stage, compiled down to pkg/iset operations.
package query

import (
	"cmp"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/spf13/cast"
	"sigs.k8s.io/yaml"

	"github.com/trackspan/trackspan/pkg/iset"
)

// Query is a declarative two-mapping co-occurrence query: optional per-side
// filters and a join stage.
type Query struct {
	Left  Stage    `json:"left,omitempty"`
	Right Stage    `json:"right,omitempty"`
	Join  JoinSpec `json:"join"`
}

// Stage filters one side of the join. A nil filter keeps everything.
type Stage struct {
	Filter map[string]any `json:"filter,omitempty"`

	filter *Expression
}

// JoinSpec configures the join stage. An omitted window disables temporal
// windowing; an omitted predicate defaults to temporal-equal. LeftAs and
// RightAs name the two roles in the merged payload and default to "left" and
// "right".
type JoinSpec struct {
	Predicate string   `json:"predicate,omitempty"`
	Window    *float64 `json:"window,omitempty"`
	LeftAs    string   `json:"leftAs,omitempty"`
	RightAs   string   `json:"rightAs,omitempty"`
}

// FromYAML parses and validates a query document.
func FromYAML(data []byte) (*Query, error) {
	q := &Query{}
	if err := yaml.Unmarshal(data, q); err != nil {
		return nil, NewUnmarshalError("query", err)
	}
	if err := q.compile(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Query) compile() error {
	for _, stage := range []*Stage{&q.Left, &q.Right} {
		if stage.Filter == nil || stage.filter != nil {
			continue
		}
		e, err := ParseExpression(stage.Filter)
		if err != nil {
			return err
		}
		stage.filter = e
	}

	if _, err := q.Join.boundsPredicate(); err != nil {
		return err
	}
	if q.Join.Window != nil && *q.Join.Window < 0 {
		return NewInvalidQueryError(fmt.Sprintf("negative join window %v", *q.Join.Window))
	}

	return nil
}

func (j JoinSpec) boundsPredicate() (iset.BoundsPredicate, error) {
	switch j.Predicate {
	case "", "temporal-equal":
		return iset.TEqual(), nil
	case "temporal-overlap":
		return iset.TOverlaps(), nil
	case "spatial-overlap":
		return iset.XYOverlaps(), nil
	case "overlap":
		return iset.Overlapping(), nil
	default:
		return nil, NewInvalidQueryError(fmt.Sprintf("unknown join predicate %q", j.Predicate))
	}
}

func (j JoinSpec) window() float64 {
	if j.Window == nil {
		return iset.Unbounded
	}
	return *j.Window
}

func (j JoinSpec) roles() (string, string) {
	left, right := j.LeftAs, j.RightAs
	if left == "" {
		left = "left"
	}
	if right == "" {
		right = "right"
	}
	return left, right
}

// Run evaluates the query over two document-payload mappings. The result
// mapping covers the key intersection; each merged payload nests the two
// input payloads under the configured role names and the merged bounds span
// both inputs.
func Run[K cmp.Ordered](q *Query, left, right *iset.IntervalSetMapping[K, Document], log logr.Logger, opts ...iset.JoinOption) (*iset.IntervalSetMapping[K, Document], error) {
	if err := q.compile(); err != nil {
		return nil, err
	}

	l, err := filterMapping(left, q.Left.filter, log)
	if err != nil {
		return nil, err
	}
	r, err := filterMapping(right, q.Right.filter, log)
	if err != nil {
		return nil, err
	}

	bp, err := q.Join.boundsPredicate()
	if err != nil {
		return nil, err
	}

	leftAs, rightAs := q.Join.roles()
	merge := func(a, b iset.Interval[Document]) (iset.Interval[Document], error) {
		return iset.NewInterval(a.Bounds.Span(b.Bounds), Document{
			leftAs:  a.Payload,
			rightAs: b.Payload,
		}), nil
	}

	res, err := iset.JoinMaps(l, r, iset.OnBounds[Document, Document](bp), merge, q.Join.window(), opts...)
	if err != nil {
		return nil, NewJoinError(err)
	}

	log.V(4).Info("query ready", "keys", res.Len(), "results", res.Size())

	return res, nil
}

func filterMapping[K cmp.Ordered](m *iset.IntervalSetMapping[K, Document], expr *Expression, log logr.Logger) (*iset.IntervalSetMapping[K, Document], error) {
	if expr == nil {
		return m, nil
	}

	result := iset.NewIntervalSetMapping[K, Document]()
	for _, key := range m.Keys() {
		s, err := m.Get(key)
		if err != nil {
			return nil, err
		}

		kept := []iset.Interval[Document]{}
		for _, iv := range s.Items() {
			v, err := expr.Evaluate(EvalCtx{Payload: iv.Payload, Bounds: iv.Bounds, Log: log})
			if err != nil {
				return nil, NewFilterError(err)
			}
			ok, err := cast.ToBoolE(v)
			if err != nil {
				return nil, NewFilterError(fmt.Errorf("filter expression %s is not a condition: %w", expr.String(), err))
			}
			if ok {
				kept = append(kept, iv)
			}
		}
		result.Put(key, iset.NewIntervalSet(kept...))
	}

	return result, nil
}
