package trace

import (
	"context"

	"github.com/dartastic/otelcore-go/attribute"
	"github.com/dartastic/otelcore-go/codes"
)

// nonRecordingSpan implements Span for a fixed SpanContext without ever
// recording anything: used for sampler Drop decisions (spec.md §4.3 step 3,
// IDs remain valid for propagation) and for spans reconstructed purely from
// an extracted remote context.
type nonRecordingSpan struct {
	sc SpanContext
}

// NonRecordingSpan returns a Span that reports sc but records nothing.
func NonRecordingSpan(sc SpanContext) Span { return nonRecordingSpan{sc: sc} }

func (nonRecordingSpan) End(...SpanEndOption)               {}
func (nonRecordingSpan) AddEvent(string, ...EventOption)     {}
func (nonRecordingSpan) AddLink(Link)                        {}
func (nonRecordingSpan) IsRecording() bool                   { return false }
func (nonRecordingSpan) RecordError(error, ...EventOption)   {}
func (s nonRecordingSpan) SpanContext() SpanContext          { return s.sc }
func (nonRecordingSpan) SetStatus(codes.Code, string)        {}
func (nonRecordingSpan) SetName(string)                      {}
func (nonRecordingSpan) SetAttributes(...attribute.KeyValue) {}
func (nonRecordingSpan) TracerProvider() TracerProvider      { return noopTracerProvider{} }

// noopSpan is returned by SpanFromContext when nothing is present.
type noopSpan struct{}

func (noopSpan) End(...SpanEndOption)               {}
func (noopSpan) AddEvent(string, ...EventOption)     {}
func (noopSpan) AddLink(Link)                        {}
func (noopSpan) IsRecording() bool                   { return false }
func (noopSpan) RecordError(error, ...EventOption)   {}
func (noopSpan) SpanContext() SpanContext            { return SpanContext{} }
func (noopSpan) SetStatus(codes.Code, string)        {}
func (noopSpan) SetName(string)                      {}
func (noopSpan) SetAttributes(...attribute.KeyValue) {}
func (noopSpan) TracerProvider() TracerProvider      { return noopTracerProvider{} }

type noopTracerProvider struct{}

func (noopTracerProvider) Tracer(string, ...TracerOption) Tracer { return noopTracer{} }

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string, _ ...SpanStartOption) (context.Context, Span) {
	span := noopSpan{}
	return ContextWithSpan(ctx, span), span
}

// NewNoopTracerProvider returns a TracerProvider whose spans never record;
// useful as a safe default before a real TracerProvider is installed.
func NewNoopTracerProvider() TracerProvider { return noopTracerProvider{} }
