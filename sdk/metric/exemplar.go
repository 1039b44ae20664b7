package metric

import (
	"context"
	"time"

	"github.com/dartastic/otelcore-go/attribute"
	itrace "github.com/dartastic/otelcore-go/trace"
)

// maxSumExemplars bounds the fixed-size exemplar reservoir kept per
// attribute set for Sum and LastValue aggregations (spec.md §4.6). Each
// new exemplar evicts the oldest once the reservoir is full; histograms
// instead keep one slot per bucket (see histogramStorage).
const maxSumExemplars = 10

// appendExemplar pushes ex onto a fixed-size FIFO reservoir, evicting the
// oldest entries past max. A zero-value ex (no valid span context) is a
// no-op.
func appendExemplar(existing []Exemplar, ex Exemplar, max int) []Exemplar {
	if ex.Time.IsZero() {
		return existing
	}
	existing = append(existing, ex)
	if len(existing) > max {
		existing = existing[len(existing)-max:]
	}
	return existing
}

// exemplarFromContext captures the measurement's trace/span identity, if
// any, alongside the measurement value (spec.md §3, §4.6). Measurements
// recorded outside a valid span context produce no exemplar; the sampled
// flag is not checked.
func exemplarFromContext(ctx context.Context, value float64, filtered []attribute.KeyValue) Exemplar {
	sc := itrace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return Exemplar{}
	}
	return Exemplar{
		Value:              value,
		Time:               time.Now(),
		TraceID:            sc.TraceID(),
		SpanID:             sc.SpanID(),
		FilteredAttributes: filtered,
	}
}
