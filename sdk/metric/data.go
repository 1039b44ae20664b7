package metric

import (
	"time"

	"github.com/dartastic/otelcore-go/attribute"
	"github.com/dartastic/otelcore-go/sdk/instrumentation"
	itrace "github.com/dartastic/otelcore-go/trace"
)

// Temporality selects whether point values accumulate since the reader
// started (Cumulative) or since the previous collection (Delta).
type Temporality int

const (
	CumulativeTemporality Temporality = iota
	DeltaTemporality
)

// Exemplar is a representative measurement captured alongside an
// aggregate (spec.md §3).
type Exemplar struct {
	Value               float64
	Time                time.Time
	TraceID             itrace.TraceID
	SpanID              itrace.SpanID
	FilteredAttributes  []attribute.KeyValue
}

// DataPoint is one (attribute set, aggregate) pair materialized at
// collection time.
type DataPoint struct {
	Attributes attribute.Set
	StartTime  time.Time
	Time       time.Time

	// Exactly one of the following is populated, selected by the
	// instrument's aggregation kind.
	SumValue       *SumValue
	HistogramValue *HistogramValue
	GaugeValue     *float64

	Exemplars []Exemplar
}

// SumValue is the Sum aggregation's point value.
type SumValue struct {
	Value       float64
	IsMonotonic bool
	Temporality Temporality
}

// HistogramValue is the ExplicitBucketHistogram aggregation's point value.
type HistogramValue struct {
	Sum         float64
	Count       uint64
	Boundaries  []float64
	BucketCounts []uint64
	Temporality Temporality
}

// Metric is one instrument's materialized point set at collection time.
type Metric struct {
	Name        string
	Description string
	Unit        string
	DataPoints  []DataPoint
}

// ScopeMetrics groups Metrics under one instrumentation scope.
type ScopeMetrics struct {
	Scope   instrumentation.Scope
	Metrics []Metric
}
