package metric

import (
	"context"
	"sync"
	"time"

	"github.com/dartastic/otelcore-go/resource"
	"github.com/dartastic/otelcore-go/sdk/instrumentation"
	"golang.org/x/sync/errgroup"
)

// metricProducer is the pull-side interface a MetricReader uses to ask a
// MeterProvider to materialize its current metric data (spec.md §4.6).
type metricProducer interface {
	produceMetrics(ctx context.Context, temporality Temporality) ResourceMetrics
}

// MeterProviderOption configures a MeterProvider at construction.
type MeterProviderOption func(*MeterProvider)

// WithMeterResource attaches a Resource to every metric the provider's
// meters produce.
func WithMeterResource(r *resource.Resource) MeterProviderOption {
	return func(p *MeterProvider) { p.resource = r }
}

// WithReader registers a MetricReader that pulls from this provider.
func WithReader(r MetricReader) MeterProviderOption {
	return func(p *MeterProvider) { p.readers = append(p.readers, r) }
}

// WithView registers a View used to rewrite matching instrument streams.
func WithView(v View) MeterProviderOption {
	return func(p *MeterProvider) { p.views = append(p.views, v) }
}

// WithCardinalityLimit overrides the default per-instrument attribute
// cardinality cap (spec.md §4.6).
func WithCardinalityLimit(n int) MeterProviderOption {
	return func(p *MeterProvider) { p.cardinalityLimit = n }
}

// MeterProvider is the entry point for obtaining Meters and registering
// MetricReaders (spec.md §4.6).
type MeterProvider struct {
	mu               sync.Mutex
	resource         *resource.Resource
	views            []View
	cardinalityLimit int
	readers          []MetricReader
	meters           map[instrumentation.Scope]*Meter
	startTime        time.Time
	shutdown         bool
}

// NewMeterProvider builds a MeterProvider; the zero value resource is
// resource.Empty() and the default cardinality limit is 2000.
func NewMeterProvider(opts ...MeterProviderOption) *MeterProvider {
	p := &MeterProvider{
		resource:         resource.Empty(),
		cardinalityLimit: DefaultCardinalityLimit,
		meters:           map[instrumentation.Scope]*Meter{},
		startTime:        time.Now(),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, r := range p.readers {
		r.register(p)
	}
	return p
}

// Meter returns the Meter for the given instrumentation scope, creating
// and caching it on first use.
func (p *MeterProvider) Meter(name string, opts ...instrumentation.Option) *Meter {
	scope := instrumentation.Scope{Name: name}
	for _, opt := range opts {
		opt(&scope)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.meters[scope]; ok {
		return m
	}
	m := newMeter(scope, p.views, p.cardinalityLimit)
	p.meters[scope] = m
	return m
}

func (p *MeterProvider) produceMetrics(ctx context.Context, temporality Temporality) ResourceMetrics {
	p.mu.Lock()
	meters := make([]*Meter, 0, len(p.meters))
	for _, m := range p.meters {
		meters = append(meters, m)
	}
	start := p.startTime
	res := p.resource
	p.mu.Unlock()

	now := time.Now()
	rm := ResourceMetrics{Resource: res}
	for _, m := range meters {
		sm := m.collect(ctx, start, now, temporality)
		if len(sm.Metrics) > 0 {
			rm.ScopeMetrics = append(rm.ScopeMetrics, sm)
		}
	}
	return rm
}

// ForceFlush flushes every registered MetricReader concurrently.
func (p *MeterProvider) ForceFlush(ctx context.Context) error {
	p.mu.Lock()
	readers := append([]MetricReader(nil), p.readers...)
	p.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range readers {
		r := r
		g.Go(func() error { return r.ForceFlush(gctx) })
	}
	return g.Wait()
}

// Shutdown shuts down every registered MetricReader concurrently. It is
// idempotent.
func (p *MeterProvider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return nil
	}
	p.shutdown = true
	readers := append([]MetricReader(nil), p.readers...)
	p.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range readers {
		r := r
		g.Go(func() error { return r.Shutdown(gctx) })
	}
	return g.Wait()
}
