package metric

import "github.com/dartastic/otelcore-go/attribute"

// Kind selects which aggregation an instrument's stream uses (spec.md
// §4.6).
type Kind int

const (
	SumKind Kind = iota
	ExplicitBucketHistogramKind
	LastValueKind
)

// DefaultHistogramBoundaries are the bucket upper bounds spec.md §4.6
// mandates for ExplicitBucketHistogram when no View overrides them.
var DefaultHistogramBoundaries = []float64{0, 5, 10, 25, 50, 75, 100, 250, 500, 750, 1000, 2500, 5000, 7500, 10000}

// DefaultCardinalityLimit is the per-instrument cap on distinct
// attribute sets before overflow folding (spec.md §4.6).
const DefaultCardinalityLimit = 2000

// OverflowAttributeSet is the sentinel attribute set all overflowing
// measurements are folded into once an instrument's cardinality limit is
// reached (spec.md §4.6).
var OverflowAttributeSet = attribute.NewSet(attribute.Bool("otel.metric.overflow", true))

// bucketIndex returns the index of the bucket whose upper bound is the
// lowest boundary >= value, with the last (implicit +Inf) bucket when
// value exceeds every boundary.
func bucketIndex(boundaries []float64, value float64) int {
	for i, b := range boundaries {
		if value <= b {
			return i
		}
	}
	return len(boundaries)
}
