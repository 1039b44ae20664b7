package trace

import "context"

type spanContextKeyType struct{}
type spanKeyType struct{}

var spanContextKey spanContextKeyType
var spanKey spanKeyType

// ContextWithSpanContext derives a context carrying sc as the current span
// context, replacing the current Span in the context with a non-recording
// span exposing sc — used when only propagation identity (e.g. an
// extracted remote parent) is available, not a live Span.
func ContextWithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	ctx = context.WithValue(ctx, spanContextKey, sc)
	return context.WithValue(ctx, spanKey, NonRecordingSpan(sc))
}

// ContextWithSpan derives a context carrying the given live Span.
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	ctx = context.WithValue(ctx, spanKey, span)
	return context.WithValue(ctx, spanContextKey, span.SpanContext())
}

// SpanContextFromContext extracts the current SpanContext, or an invalid
// zero-value SpanContext if none is present.
func SpanContextFromContext(ctx context.Context) SpanContext {
	if sc, ok := ctx.Value(spanContextKey).(SpanContext); ok {
		return sc
	}
	return SpanContext{}
}

// SpanFromContext extracts the current Span, or a non-recording span with
// an invalid SpanContext if none is present.
func SpanFromContext(ctx context.Context) Span {
	if s, ok := ctx.Value(spanKey).(Span); ok {
		return s
	}
	return noopSpan{}
}
