package propagation

import (
	"context"
	"fmt"
	"strings"

	"github.com/dartastic/otelcore-go/trace"
)

const (
	traceparentHeader = "traceparent"
	tracestateHeader  = "tracestate"
)

// TraceContext implements the W3C Trace Context propagator (spec.md §4.1,
// literal scenario 1): it injects and extracts the "traceparent" and
// "tracestate" headers.
type TraceContext struct{}

var _ TextMapPropagator = TraceContext{}

func (TraceContext) Inject(ctx context.Context, carrier TextMapCarrier) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return
	}
	header := fmt.Sprintf("00-%s-%s-%s", sc.TraceID().String(), sc.SpanID().String(), sc.TraceFlags().String())
	carrier.Set(traceparentHeader, header)
	if ts := sc.TraceState().String(); ts != "" {
		carrier.Set(tracestateHeader, ts)
	}
}

func (TraceContext) Extract(ctx context.Context, carrier TextMapCarrier) context.Context {
	sc, ok := extractTraceparent(carrier.Get(traceparentHeader))
	if !ok {
		return ctx
	}
	if ts := carrier.Get(tracestateHeader); ts != "" {
		sc = sc.WithTraceState(trace.ParseTraceState(ts))
	}
	return trace.ContextWithSpanContext(ctx, sc.WithRemote(true))
}

func (TraceContext) Fields() []string {
	return []string{traceparentHeader, tracestateHeader}
}

// extractTraceparent parses a traceparent header of the form
// "version-traceId-spanId-flags[-...]". Version "00" requires exactly
// four dash-separated fields; any other version is accepted as long as
// at least four fields are present, using only the first four
// (forward-compatibility, per the W3C spec).
func extractTraceparent(header string) (trace.SpanContext, bool) {
	if header == "" {
		return trace.SpanContext{}, false
	}
	parts := strings.Split(header, "-")
	if len(parts) < 4 {
		return trace.SpanContext{}, false
	}
	version, traceIDHex, spanIDHex, flagsHex := parts[0], parts[1], parts[2], parts[3]
	if version == "00" && len(parts) != 4 {
		return trace.SpanContext{}, false
	}
	if len(traceIDHex) != 32 || len(spanIDHex) != 16 || len(flagsHex) != 2 {
		return trace.SpanContext{}, false
	}
	traceID, err := trace.TraceIDFromHex(traceIDHex)
	if err != nil || !traceID.IsValid() {
		return trace.SpanContext{}, false
	}
	spanID, err := trace.SpanIDFromHex(spanIDHex)
	if err != nil || !spanID.IsValid() {
		return trace.SpanContext{}, false
	}
	var flagsByte byte
	if _, err := fmt.Sscanf(flagsHex, "%02x", &flagsByte); err != nil {
		return trace.SpanContext{}, false
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.TraceFlags(flagsByte),
		Remote:     true,
	})
	return sc, true
}
