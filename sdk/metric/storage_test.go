package metric

import (
	"context"
	"testing"
	"time"

	"github.com/dartastic/otelcore-go/attribute"
)

func TestCounterSumInvariantAcrossAttributeSets(t *testing.T) {
	s := newSumStorage(true, DefaultCardinalityLimit)
	ctx := context.Background()
	empty := attribute.NewSet()
	withUser := attribute.NewSet(attribute.String("user", "a"))

	s.record(ctx, 3, empty, nil)
	s.record(ctx, 4, withUser, nil)
	s.record(ctx, 5, empty, nil)

	points := s.collect(time.Now(), time.Now(), CumulativeTemporality)
	var total float64
	for _, p := range points {
		total += p.SumValue.Value
	}
	if total != 12 {
		t.Fatalf("expected sum of all recorded values to equal 12, got %v", total)
	}
}

func TestCounterRejectsNegativeValues(t *testing.T) {
	s := newSumStorage(true, DefaultCardinalityLimit)
	ctx := context.Background()
	set := attribute.NewSet()
	s.record(ctx, 5, set, nil)
	s.record(ctx, -100, set, nil)

	points := s.collect(time.Now(), time.Now(), CumulativeTemporality)
	if len(points) != 1 || points[0].SumValue.Value != 5 {
		t.Fatalf("expected negative measurement to be rejected, points=%+v", points)
	}
}

func TestHistogramBucketingAndSumCount(t *testing.T) {
	h := newHistogramStorage(DefaultHistogramBoundaries, DefaultCardinalityLimit)
	ctx := context.Background()
	set := attribute.NewSet()
	for _, v := range []float64{1, 6, 11, 30} {
		h.record(ctx, v, set, nil)
	}

	points := h.collect(time.Now(), time.Now(), CumulativeTemporality)
	if len(points) != 1 {
		t.Fatalf("expected exactly one attribute set, got %d", len(points))
	}
	hv := points[0].HistogramValue
	if hv.Sum != 48 {
		t.Fatalf("expected sum 48, got %v", hv.Sum)
	}
	if hv.Count != 4 {
		t.Fatalf("expected count 4, got %v", hv.Count)
	}
	var nonZeroBuckets int
	for _, c := range hv.BucketCounts {
		if c != 0 {
			nonZeroBuckets++
		}
	}
	if nonZeroBuckets != 4 {
		t.Fatalf("expected 4 non-zero buckets, got %d (%v)", nonZeroBuckets, hv.BucketCounts)
	}
	for _, v := range []float64{1, 6, 11, 30} {
		idx := bucketIndex(DefaultHistogramBoundaries, v)
		if hv.BucketCounts[idx] == 0 {
			t.Fatalf("expected bucket %d (for value %v) to have a count", idx, v)
		}
	}
}

func TestCardinalityOverflowFoldsIntoSentinel(t *testing.T) {
	s := newSumStorage(false, 2)
	ctx := context.Background()
	s.record(ctx, 1, attribute.NewSet(attribute.String("k", "a")), nil)
	s.record(ctx, 1, attribute.NewSet(attribute.String("k", "b")), nil)
	s.record(ctx, 1, attribute.NewSet(attribute.String("k", "c")), nil)

	points := s.collect(time.Now(), time.Now(), CumulativeTemporality)
	if len(points) != 3 {
		t.Fatalf("expected 2 tracked attribute sets plus the overflow sentinel, got %d", len(points))
	}
	var sawOverflow bool
	for _, p := range points {
		if p.Attributes.Equivalent() == OverflowAttributeSet.Equivalent() {
			sawOverflow = true
		}
	}
	if !sawOverflow {
		t.Fatalf("expected one of the points to be the overflow sentinel set")
	}
}

func TestGaugeKeepsLastValue(t *testing.T) {
	g := newGaugeStorage(DefaultCardinalityLimit)
	ctx := context.Background()
	set := attribute.NewSet()
	g.record(ctx, 10, set, nil)
	g.record(ctx, 20, set, nil)

	points := g.collect(time.Now())
	if len(points) != 1 || *points[0].GaugeValue != 20 {
		t.Fatalf("expected gauge to keep only the last recorded value, got %+v", points)
	}
}

func TestDeltaTemporalityResetsStateAfterCollect(t *testing.T) {
	s := newSumStorage(true, DefaultCardinalityLimit)
	ctx := context.Background()
	set := attribute.NewSet()
	s.record(ctx, 7, set, nil)

	first := s.collect(time.Now(), time.Now(), DeltaTemporality)
	if len(first) != 1 || first[0].SumValue.Value != 7 {
		t.Fatalf("expected first delta collection to report 7, got %+v", first)
	}

	second := s.collect(time.Now(), time.Now(), DeltaTemporality)
	if len(second) != 0 {
		t.Fatalf("expected state to reset after a delta collection, got %+v", second)
	}
}
