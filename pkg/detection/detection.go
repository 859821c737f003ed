// Package detection is the input boundary of the algebra: structured
// per-frame detection records and the builder that turns them into
// per-category interval set mappings. File parsing stays with the caller,
// this package only assembles values.
package detection

import (
	"cmp"
	"fmt"

	"github.com/trackspan/trackspan/pkg/iset"
)

// Box is a 2D bounding box in normalized frame coordinates.
type Box struct {
	X1, X2 float64
	Y1, Y2 float64
}

// FullFrame covers the whole normalized frame, for detectors that report no
// localization.
var FullFrame = Box{X1: 0, X2: 1, Y1: 0, Y2: 1}

// Detection is one scored detection of an object category in a single frame.
type Detection struct {
	Label string
	Score float64
	Class bool
	Box   Box
}

// FrameRecord carries the named detections of one frame: zero or more
// categories, at most one detection per category per record.
type FrameRecord struct {
	Frame      int
	Detections map[string]Detection
}

// BuildMapping converts per-partition frame records into one interval set
// mapping per detection category. Frame f becomes the half-open time range
// [f, f+1); the detection box supplies the spatial axes. Within a partition,
// intervals follow the record order.
func BuildMapping[K cmp.Ordered](records map[K][]FrameRecord) (map[string]*iset.IntervalSetMapping[K, Detection], error) {
	perCategory := map[string]map[K][]iset.Interval[Detection]{}

	for part, frames := range records {
		for _, fr := range frames {
			for name, det := range fr.Detections {
				bounds, err := iset.NewBounds3D(
					float64(fr.Frame), float64(fr.Frame)+1,
					det.Box.X1, det.Box.X2, det.Box.Y1, det.Box.Y2)
				if err != nil {
					return nil, fmt.Errorf("frame %d, category %q: %w", fr.Frame, name, err)
				}

				byPart, ok := perCategory[name]
				if !ok {
					byPart = map[K][]iset.Interval[Detection]{}
					perCategory[name] = byPart
				}
				byPart[part] = append(byPart[part], iset.NewInterval(bounds, det))
			}
		}
	}

	result := make(map[string]*iset.IntervalSetMapping[K, Detection], len(perCategory))
	for name, byPart := range perCategory {
		m := iset.NewIntervalSetMapping[K, Detection]()
		for part, items := range byPart {
			m.Put(part, iset.NewIntervalSet(items...))
		}
		result[name] = m
	}

	return result, nil
}

// Document converts a detection into the open document form the declarative
// query layer evaluates.
func (d Detection) Document() map[string]any {
	return map[string]any{
		"label": d.Label,
		"score": d.Score,
		"class": d.Class,
	}
}

// Documents converts a detection mapping into a document-payload mapping for
// the declarative query layer.
func Documents[K cmp.Ordered](m *iset.IntervalSetMapping[K, Detection]) *iset.IntervalSetMapping[K, map[string]any] {
	result := iset.NewIntervalSetMapping[K, map[string]any]()
	for _, key := range m.Keys() {
		s, err := m.Get(key)
		if err != nil {
			continue
		}
		result.Put(key, iset.MapSet(s, func(iv iset.Interval[Detection]) iset.Interval[map[string]any] {
			return iset.NewInterval(iv.Bounds, iv.Payload.Document())
		}))
	}
	return result
}
