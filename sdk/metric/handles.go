package metric

import "context"

// Int64Counter records monotonically increasing int64 measurements.
type Int64Counter struct{ inst *syncInstrument }

// Add records incr, which must be non-negative (spec.md §4.6).
func (c Int64Counter) Add(ctx context.Context, incr int64, opts ...MeasurementOption) {
	c.inst.record(ctx, float64(incr), opts)
}

// Float64Counter records monotonically increasing float64 measurements.
type Float64Counter struct{ inst *syncInstrument }

// Add records incr, which must be non-negative (spec.md §4.6).
func (c Float64Counter) Add(ctx context.Context, incr float64, opts ...MeasurementOption) {
	c.inst.record(ctx, incr, opts)
}

// Int64UpDownCounter records int64 measurements that may decrease.
type Int64UpDownCounter struct{ inst *syncInstrument }

func (c Int64UpDownCounter) Add(ctx context.Context, incr int64, opts ...MeasurementOption) {
	c.inst.record(ctx, float64(incr), opts)
}

// Float64UpDownCounter records float64 measurements that may decrease.
type Float64UpDownCounter struct{ inst *syncInstrument }

func (c Float64UpDownCounter) Add(ctx context.Context, incr float64, opts ...MeasurementOption) {
	c.inst.record(ctx, incr, opts)
}

// Int64Histogram records a distribution of int64 measurements.
type Int64Histogram struct{ inst *syncInstrument }

func (h Int64Histogram) Record(ctx context.Context, value int64, opts ...MeasurementOption) {
	h.inst.record(ctx, float64(value), opts)
}

// Float64Histogram records a distribution of float64 measurements.
type Float64Histogram struct{ inst *syncInstrument }

func (h Float64Histogram) Record(ctx context.Context, value float64, opts ...MeasurementOption) {
	h.inst.record(ctx, value, opts)
}

// Int64Gauge records the last-seen value of a synchronously measured
// int64 quantity.
type Int64Gauge struct{ inst *syncInstrument }

func (g Int64Gauge) Record(ctx context.Context, value int64, opts ...MeasurementOption) {
	g.inst.record(ctx, float64(value), opts)
}

// Float64Gauge records the last-seen value of a synchronously measured
// float64 quantity.
type Float64Gauge struct{ inst *syncInstrument }

func (g Float64Gauge) Record(ctx context.Context, value float64, opts ...MeasurementOption) {
	g.inst.record(ctx, value, opts)
}
