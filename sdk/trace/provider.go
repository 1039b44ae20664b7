package trace

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dartastic/otelcore-go/internal/idgen"
	"github.com/dartastic/otelcore-go/resource"
	"github.com/dartastic/otelcore-go/sdk/instrumentation"
	itrace "github.com/dartastic/otelcore-go/trace"
)

// TracerProvider is the SDK's itrace.TracerProvider implementation: it
// owns the registered SpanProcessors, the sampler, the ID generator, and
// the shared Resource (spec.md §3 "Ownership").
type TracerProvider struct {
	mu          sync.Mutex
	procs       []SpanProcessor
	tracers     map[instrumentation.Scope]*tracer
	sampler     Sampler
	idGenerator idgen.Generator
	resource    *resource.Resource
	shutdown    bool
}

var _ itrace.TracerProvider = (*TracerProvider)(nil)

// TracerProviderOption configures a TracerProvider at construction.
type TracerProviderOption func(*TracerProvider)

func WithSampler(s Sampler) TracerProviderOption {
	return func(p *TracerProvider) { p.sampler = s }
}

func WithIDGenerator(g idgen.Generator) TracerProviderOption {
	return func(p *TracerProvider) { p.idGenerator = g }
}

func WithResource(r *resource.Resource) TracerProviderOption {
	return func(p *TracerProvider) { p.resource = r }
}

func WithSpanProcessor(sp SpanProcessor) TracerProviderOption {
	return func(p *TracerProvider) { p.procs = append(p.procs, sp) }
}

// NewTracerProvider builds a TracerProvider. Defaults: ParentBased(AlwaysOn)
// sampler, random ID generator, empty resource.
func NewTracerProvider(opts ...TracerProviderOption) *TracerProvider {
	p := &TracerProvider{
		tracers:     make(map[instrumentation.Scope]*tracer),
		sampler:     ParentBased(AlwaysOnSampler()),
		idGenerator: idgen.NewDefault(),
		resource:    resource.Empty(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tracer returns a Tracer for the given instrumentation scope, caching by
// (name, version, schemaURL) so repeated calls return the same instance.
func (p *TracerProvider) Tracer(name string, opts ...itrace.TracerOption) itrace.Tracer {
	cfg := itrace.NewTracerConfig(opts...)
	scope := instrumentation.Scope{
		Name:      name,
		Version:   cfg.InstrumentationVersion,
		SchemaURL: cfg.SchemaURL,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.tracers[scope]; ok {
		return t
	}
	t := &tracer{provider: p, scope: scope}
	p.tracers[scope] = t
	return t
}

// RegisterSpanProcessor adds a processor; notification order for OnStart
// and OnEnd follows registration order (spec.md §4.3 step 5).
func (p *TracerProvider) RegisterSpanProcessor(sp SpanProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.procs = append(p.procs, sp)
}

func (p *TracerProvider) processors() []SpanProcessor {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SpanProcessor, len(p.procs))
	copy(out, p.procs)
	return out
}

// ForceFlush flushes every registered processor concurrently, returning
// the first error encountered.
func (p *TracerProvider) ForceFlush(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, sp := range p.processors() {
		sp := sp
		g.Go(func() error { return sp.ForceFlush(gctx) })
	}
	return g.Wait()
}

// Shutdown shuts down every registered processor concurrently. Idempotent.
func (p *TracerProvider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return nil
	}
	p.shutdown = true
	p.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, sp := range p.processors() {
		sp := sp
		g.Go(func() error { return sp.Shutdown(gctx) })
	}
	return g.Wait()
}
