package metric

import (
	"context"
	"sync"
	"time"

	"github.com/dartastic/otelcore-go/attribute"
)

// sumEntry is the per-attribute-set running state for a Sum aggregation.
type sumEntry struct {
	attrs     attribute.Set
	value     float64
	exemplars []Exemplar
}

// sumStorage implements Counter/UpDownCounter aggregation (spec.md §4.6).
type sumStorage struct {
	mu          sync.Mutex
	monotonic   bool
	cardinality int
	entries     map[string]*sumEntry
}

func newSumStorage(monotonic bool, cardinality int) *sumStorage {
	return &sumStorage{monotonic: monotonic, cardinality: cardinality, entries: map[string]*sumEntry{}}
}

func (s *sumStorage) record(ctx context.Context, value float64, attrs attribute.Set, dropped []attribute.KeyValue) {
	if s.monotonic && value < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.resolveKey(attrs)
	e, ok := s.entries[key]
	if !ok {
		resolved := attrs
		if key == OverflowAttributeSet.Equivalent() {
			resolved = OverflowAttributeSet
		}
		e = &sumEntry{attrs: resolved}
		s.entries[key] = e
	}
	e.value += value
	e.exemplars = appendExemplar(e.exemplars, exemplarFromContext(ctx, value, dropped), maxSumExemplars)
}

func (s *sumStorage) resolveKey(attrs attribute.Set) string {
	key := attrs.Equivalent()
	if _, ok := s.entries[key]; ok {
		return key
	}
	if len(s.entries) >= s.cardinality {
		return OverflowAttributeSet.Equivalent()
	}
	return key
}

func (s *sumStorage) collect(start, now time.Time, temporality Temporality) []DataPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	points := make([]DataPoint, 0, len(s.entries))
	for _, e := range s.entries {
		v := e.value
		points = append(points, DataPoint{
			Attributes: e.attrs,
			StartTime:  start,
			Time:       now,
			SumValue:   &SumValue{Value: v, IsMonotonic: s.monotonic, Temporality: temporality},
			Exemplars:  e.exemplars,
		})
	}
	if temporality == DeltaTemporality {
		s.entries = map[string]*sumEntry{}
	}
	return points
}

// histogramEntry is the per-attribute-set running state for a histogram.
type histogramEntry struct {
	attrs        attribute.Set
	sum          float64
	count        uint64
	bucketCounts []uint64
	exemplars    []Exemplar // one slot per bucket, index-aligned
}

type histogramStorage struct {
	mu          sync.Mutex
	boundaries  []float64
	cardinality int
	entries     map[string]*histogramEntry
}

func newHistogramStorage(boundaries []float64, cardinality int) *histogramStorage {
	if boundaries == nil {
		boundaries = DefaultHistogramBoundaries
	}
	return &histogramStorage{boundaries: boundaries, cardinality: cardinality, entries: map[string]*histogramEntry{}}
}

func (h *histogramStorage) record(ctx context.Context, value float64, attrs attribute.Set, dropped []attribute.KeyValue) {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := attrs.Equivalent()
	resolved := attrs
	if _, ok := h.entries[key]; !ok && len(h.entries) >= h.cardinality {
		key = OverflowAttributeSet.Equivalent()
		resolved = OverflowAttributeSet
	}
	e, ok := h.entries[key]
	if !ok {
		e = &histogramEntry{attrs: resolved, bucketCounts: make([]uint64, len(h.boundaries)+1), exemplars: make([]Exemplar, len(h.boundaries)+1)}
		h.entries[key] = e
	}
	idx := bucketIndex(h.boundaries, value)
	e.bucketCounts[idx]++
	e.sum += value
	e.count++
	e.exemplars[idx] = exemplarFromContext(ctx, value, dropped)
}

func (h *histogramStorage) collect(start, now time.Time, temporality Temporality) []DataPoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	points := make([]DataPoint, 0, len(h.entries))
	for _, e := range h.entries {
		counts := make([]uint64, len(e.bucketCounts))
		copy(counts, e.bucketCounts)
		var exemplars []Exemplar
		for _, ex := range e.exemplars {
			if !ex.Time.IsZero() {
				exemplars = append(exemplars, ex)
			}
		}
		points = append(points, DataPoint{
			Attributes: e.attrs,
			StartTime:  start,
			Time:       now,
			HistogramValue: &HistogramValue{
				Sum: e.sum, Count: e.count, Boundaries: h.boundaries, BucketCounts: counts, Temporality: temporality,
			},
			Exemplars: exemplars,
		})
	}
	if temporality == DeltaTemporality {
		h.entries = map[string]*histogramEntry{}
	}
	return points
}

// gaugeStorage implements Gauge's LastValue aggregation (spec.md §4.6).
type gaugeStorage struct {
	mu          sync.Mutex
	cardinality int
	entries     map[string]*sumEntry // reuses sumEntry; value holds the last-recorded value
}

func newGaugeStorage(cardinality int) *gaugeStorage {
	return &gaugeStorage{cardinality: cardinality, entries: map[string]*sumEntry{}}
}

func (g *gaugeStorage) record(ctx context.Context, value float64, attrs attribute.Set, dropped []attribute.KeyValue) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := attrs.Equivalent()
	resolved := attrs
	if _, ok := g.entries[key]; !ok && len(g.entries) >= g.cardinality {
		key = OverflowAttributeSet.Equivalent()
		resolved = OverflowAttributeSet
	}
	e, ok := g.entries[key]
	if !ok {
		e = &sumEntry{attrs: resolved}
		g.entries[key] = e
	}
	e.value = value
	e.exemplars = appendExemplar(e.exemplars, exemplarFromContext(ctx, value, dropped), maxSumExemplars)
}

func (g *gaugeStorage) collect(now time.Time) []DataPoint {
	g.mu.Lock()
	defer g.mu.Unlock()
	points := make([]DataPoint, 0, len(g.entries))
	for _, e := range g.entries {
		v := e.value
		points = append(points, DataPoint{
			Attributes: e.attrs,
			Time:       now,
			GaugeValue: &v,
			Exemplars:  e.exemplars,
		})
	}
	return points
}

