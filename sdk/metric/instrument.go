package metric

import (
	"context"
	"time"

	"github.com/dartastic/otelcore-go/attribute"
)

// instrumentConfig collects the optional settings passed to a Meter's
// instrument constructors.
type instrumentConfig struct {
	description string
	unit        string
	boundaries  []float64
}

// InstrumentOption configures an instrument at creation time.
type InstrumentOption func(*instrumentConfig)

// WithDescription sets the instrument's human-readable description.
func WithDescription(desc string) InstrumentOption {
	return func(c *instrumentConfig) { c.description = desc }
}

// WithUnit sets the instrument's unit string (e.g. "ms", "By").
func WithUnit(unit string) InstrumentOption {
	return func(c *instrumentConfig) { c.unit = unit }
}

// WithExplicitBucketBoundaries overrides a Histogram's bucket boundaries.
// It has no effect on non-histogram instruments.
func WithExplicitBucketBoundaries(boundaries ...float64) InstrumentOption {
	return func(c *instrumentConfig) { c.boundaries = boundaries }
}

func newInstrumentConfig(opts []InstrumentOption) instrumentConfig {
	var cfg instrumentConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// measurementConfig collects the optional settings passed alongside a
// single measurement.
type measurementConfig struct {
	attrs attribute.Set
}

// MeasurementOption configures a single Add/Record/Observe call.
type MeasurementOption func(*measurementConfig)

// WithAttributes attaches attributes to a single measurement.
func WithAttributes(kvs ...attribute.KeyValue) MeasurementOption {
	return func(c *measurementConfig) { c.attrs = attribute.NewSet(kvs...) }
}

func newMeasurementConfig(opts []MeasurementOption) measurementConfig {
	var cfg measurementConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// stream is one materialized (possibly View-rewritten) output of an
// instrument, backed by exactly one aggregation's storage.
type stream struct {
	resolvedStream
	sum   *sumStorage
	hist  *histogramStorage
	gauge *gaugeStorage
}

func newStream(rs resolvedStream, cardinality int, monotonic bool) *stream {
	s := &stream{resolvedStream: rs}
	switch rs.kind {
	case SumKind:
		s.sum = newSumStorage(monotonic, cardinality)
	case ExplicitBucketHistogramKind:
		s.hist = newHistogramStorage(rs.boundaries, cardinality)
	case LastValueKind:
		s.gauge = newGaugeStorage(cardinality)
	}
	return s
}

func (s *stream) record(ctx context.Context, value float64, attrs attribute.Set) {
	filtered, dropped := filterAttributes(s.keys, attrs)
	switch s.kind {
	case SumKind:
		s.sum.record(ctx, value, filtered, dropped)
	case ExplicitBucketHistogramKind:
		s.hist.record(ctx, value, filtered, dropped)
	case LastValueKind:
		s.gauge.record(ctx, value, filtered, dropped)
	}
}

func (s *stream) collect(start, now time.Time, temporality Temporality) []DataPoint {
	switch s.kind {
	case SumKind:
		return s.sum.collect(start, now, temporality)
	case ExplicitBucketHistogramKind:
		return s.hist.collect(start, now, temporality)
	case LastValueKind:
		return s.gauge.collect(now)
	default:
		return nil
	}
}

// syncInstrument is the shared implementation behind every typed
// synchronous instrument handle (Int64Counter, Float64Histogram, ...).
type syncInstrument struct {
	name        string
	description string
	unit        string
	streams     []*stream
}

func newSyncInstrument(owner *Meter, name string, kind Kind, monotonic bool, cfg instrumentConfig) *syncInstrument {
	resolved := resolveStreams(owner.views, name, owner.scope.Name, cfg.description, kind, pickBoundaries(kind, cfg.boundaries))
	inst := &syncInstrument{name: name, description: cfg.description, unit: cfg.unit}
	for _, rs := range resolved {
		inst.streams = append(inst.streams, newStream(rs, owner.cardinalityLimit, monotonic))
	}
	owner.registerSyncInstrument(inst)
	return inst
}

func pickBoundaries(kind Kind, override []float64) []float64 {
	if kind != ExplicitBucketHistogramKind {
		return nil
	}
	if override != nil {
		return override
	}
	return DefaultHistogramBoundaries
}

func (i *syncInstrument) record(ctx context.Context, value float64, opts []MeasurementOption) {
	cfg := newMeasurementConfig(opts)
	for _, s := range i.streams {
		s.record(ctx, value, cfg.attrs)
	}
}

// collectScopeMetrics materializes every stream this instrument fans
// into, grouped by the (possibly View-renamed) stream name so that two
// Views rewriting to the same output name merge into one Metric.
func (i *syncInstrument) collectScopeMetrics(start, now time.Time, temporality Temporality) []Metric {
	byStreamName := map[string]*Metric{}
	var order []string
	for _, s := range i.streams {
		m, ok := byStreamName[s.name]
		if !ok {
			m = &Metric{Name: s.name, Description: s.description, Unit: i.unit}
			byStreamName[s.name] = m
			order = append(order, s.name)
		}
		m.DataPoints = append(m.DataPoints, s.collect(start, now, temporality)...)
	}
	metrics := make([]Metric, 0, len(order))
	for _, name := range order {
		metrics = append(metrics, *byStreamName[name])
	}
	return metrics
}
