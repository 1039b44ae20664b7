package log

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dartastic/otelcore-go/resource"
	"github.com/dartastic/otelcore-go/sdk/instrumentation"
)

// LoggerProvider owns the registered Processors and the shared Resource,
// symmetric to sdk/trace.TracerProvider (spec.md §4.5, §4.9).
type LoggerProvider struct {
	mu       sync.Mutex
	procs    []Processor
	loggers  map[instrumentation.Scope]*Logger
	resource *resource.Resource
	shutdown bool
}

type LoggerProviderOption func(*LoggerProvider)

func WithLoggerResource(r *resource.Resource) LoggerProviderOption {
	return func(p *LoggerProvider) { p.resource = r }
}

func WithProcessor(proc Processor) LoggerProviderOption {
	return func(p *LoggerProvider) { p.procs = append(p.procs, proc) }
}

func NewLoggerProvider(opts ...LoggerProviderOption) *LoggerProvider {
	p := &LoggerProvider{
		loggers:  make(map[instrumentation.Scope]*Logger),
		resource: resource.Empty(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Logger returns a Logger for the given instrumentation scope.
func (p *LoggerProvider) Logger(name string, opts ...instrumentation.Option) *Logger {
	scope := instrumentation.Scope{Name: name}
	for _, opt := range opts {
		opt(&scope)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.loggers[scope]; ok {
		return l
	}
	l := &Logger{provider: p, scope: scope}
	p.loggers[scope] = l
	return l
}

func (p *LoggerProvider) RegisterProcessor(proc Processor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.procs = append(p.procs, proc)
}

func (p *LoggerProvider) processors() []Processor {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Processor, len(p.procs))
	copy(out, p.procs)
	return out
}

func (p *LoggerProvider) ForceFlush(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, proc := range p.processors() {
		proc := proc
		g.Go(func() error { return proc.ForceFlush(gctx) })
	}
	return g.Wait()
}

func (p *LoggerProvider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return nil
	}
	p.shutdown = true
	p.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, proc := range p.processors() {
		proc := proc
		g.Go(func() error { return proc.Shutdown(gctx) })
	}
	return g.Wait()
}
