package trace

import (
	"context"
	"time"

	"github.com/dartastic/otelcore-go/attribute"
	"github.com/dartastic/otelcore-go/sdk/instrumentation"
	itrace "github.com/dartastic/otelcore-go/trace"
)

// tracer is the concrete Tracer returned by (*TracerProvider).Tracer.
type tracer struct {
	provider *TracerProvider
	scope    instrumentation.Scope
}

var _ itrace.Tracer = (*tracer)(nil)

// Start implements spec.md §4.3's span creation algorithm: resolve
// parent, pick IDs, consult the sampler, build the SpanContext, notify
// OnStart, return.
func (t *tracer) Start(ctx context.Context, spanName string, opts ...itrace.SpanStartOption) (context.Context, itrace.Span) {
	cfg := itrace.NewSpanStartConfig(opts...)

	parentCtx := ctx
	parentSpanContext := itrace.SpanContextFromContext(parentCtx)
	if cfg.NewRoot {
		parentSpanContext = itrace.SpanContext{}
	}

	var traceID itrace.TraceID
	if parentSpanContext.IsValid() {
		traceID = parentSpanContext.TraceID()
	} else {
		traceID = t.provider.idGenerator.NewTraceID()
	}
	spanID := t.provider.idGenerator.NewSpanID(traceID)

	samplingResult := t.provider.sampler.ShouldSample(SamplingParameters{
		ParentContext: parentCtx,
		TraceID:       traceID,
		Name:          spanName,
		Kind:          cfg.SpanKind,
		Attributes:    cfg.Attributes,
		Links:         cfg.Links,
	})

	flags := itrace.TraceFlags(0).WithSampled(samplingResult.Decision == RecordAndSample)
	spanCtx := itrace.NewSpanContext(itrace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		TraceState: samplingResult.TraceState,
	})

	if samplingResult.Decision == Drop {
		noop := itrace.NonRecordingSpan(spanCtx)
		return itrace.ContextWithSpan(parentCtx, noop), noop
	}

	startTime := cfg.Timestamp
	if startTime.IsZero() {
		startTime = time.Now()
	}

	span := &recordingSpan{
		name:      spanName,
		spanCtx:   spanCtx,
		parent:    parentSpanContext,
		kind:      cfg.SpanKind,
		startTime: startTime,
		attrs:     append([]attribute.KeyValue(nil), cfg.Attributes...),
		links:     append([]itrace.Link(nil), cfg.Links...),
		tracer:    t,
	}

	newCtx := itrace.ContextWithSpan(parentCtx, span)
	for _, p := range t.provider.processors() {
		p.OnStart(newCtx, span)
	}
	return newCtx, span
}
