package trace

import "context"

// SpanProcessor is the bridge between the tracer and an exporter: it
// observes span lifecycle events and decides when/how to hand finished
// spans off (spec.md §4.4).
type SpanProcessor interface {
	OnStart(ctx context.Context, span ReadWriteSpan)
	OnEnd(span ReadOnlySpan)
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// SimpleSpanProcessor synchronously hands each ended span to the exporter
// (spec.md §4.4). OnStart is a no-op.
type SimpleSpanProcessor struct {
	exporter SpanExporter
}

var _ SpanProcessor = (*SimpleSpanProcessor)(nil)

func NewSimpleSpanProcessor(exporter SpanExporter) *SimpleSpanProcessor {
	return &SimpleSpanProcessor{exporter: exporter}
}

func (p *SimpleSpanProcessor) OnStart(context.Context, ReadWriteSpan) {}

// OnEnd awaits the export of a single-element batch; failures are logged
// and swallowed (spec.md §4.4, §7 kind 3/4 handled by the exporter, kind 6
// boundary here: the processor never surfaces this to instrumentation).
func (p *SimpleSpanProcessor) OnEnd(span ReadOnlySpan) {
	if err := p.exporter.ExportSpans(context.Background(), []ReadOnlySpan{span}); err != nil {
		logExportFailure(err)
	}
}

func (p *SimpleSpanProcessor) ForceFlush(context.Context) error { return nil }

func (p *SimpleSpanProcessor) Shutdown(ctx context.Context) error {
	return p.exporter.Shutdown(ctx)
}
