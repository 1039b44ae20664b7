package propagation

import (
	"context"
	"testing"

	"github.com/dartastic/otelcore-go/trace"
)

func TestTraceContextInjectExtractRoundTrip(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    mustTraceID("4bf92f3577b34da6a3ce929d0e0e4736"),
		SpanID:     mustSpanID("00f067aa0ba902b7"),
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	carrier := MapCarrier{}
	TraceContext{}.Inject(ctx, carrier)

	if got := carrier.Get(traceparentHeader); got != "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01" {
		t.Fatalf("unexpected traceparent: %s", got)
	}

	extracted := TraceContext{}.Extract(context.Background(), carrier)
	gotSC := trace.SpanContextFromContext(extracted)
	if !gotSC.IsRemote() {
		t.Fatalf("expected extracted span context to be marked remote")
	}
	if gotSC.TraceID() != sc.TraceID() || gotSC.SpanID() != sc.SpanID() || gotSC.TraceFlags() != sc.TraceFlags() {
		t.Fatalf("extracted span context does not match injected: %+v", gotSC)
	}
}

func TestTraceContextExtractAcceptsFutureVersionWithExtraFields(t *testing.T) {
	carrier := MapCarrier{traceparentHeader: "01-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01-extra"}
	ctx := TraceContext{}.Extract(context.Background(), carrier)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		t.Fatalf("expected future-version traceparent with extra fields to be accepted")
	}
	if sc.TraceID() != mustTraceID("4bf92f3577b34da6a3ce929d0e0e4736") || sc.SpanID() != mustSpanID("00f067aa0ba902b7") {
		t.Fatalf("expected the first four fields to be used, got %+v", sc)
	}
}

func TestTraceContextExtractRejectsAllZeroTraceID(t *testing.T) {
	carrier := MapCarrier{traceparentHeader: "00-00000000000000000000000000000000-00f067aa0ba902b7-01"}
	ctx := TraceContext{}.Extract(context.Background(), carrier)
	if trace.SpanContextFromContext(ctx).IsValid() {
		t.Fatalf("expected all-zero trace id to be rejected")
	}
}

func TestTraceContextPreservesTraceState(t *testing.T) {
	carrier := MapCarrier{
		traceparentHeader: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
		tracestateHeader:  "rojo=00f067aa0ba902b7,congo=t61rcWkgMzE",
	}
	ctx := TraceContext{}.Extract(context.Background(), carrier)
	sc := trace.SpanContextFromContext(ctx)
	if sc.TraceState().Get("rojo") != "00f067aa0ba902b7" {
		t.Fatalf("expected tracestate to round-trip, got %s", sc.TraceState().String())
	}
}

func mustTraceID(h string) trace.TraceID {
	id, err := trace.TraceIDFromHex(h)
	if err != nil {
		panic(err)
	}
	return id
}

func mustSpanID(h string) trace.SpanID {
	id, err := trace.SpanIDFromHex(h)
	if err != nil {
		panic(err)
	}
	return id
}
