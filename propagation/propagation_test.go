package propagation

import (
	"context"
	"testing"

	"github.com/dartastic/otelcore-go/baggage"
	"github.com/dartastic/otelcore-go/trace"
)

func TestCompositePropagatorInjectsAndExtractsBoth(t *testing.T) {
	composite := NewCompositeTextMapPropagator(TraceContext{}, Baggage{})

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    mustTraceID("4bf92f3577b34da6a3ce929d0e0e4736"),
		SpanID:     mustSpanID("00f067aa0ba902b7"),
		TraceFlags: trace.FlagsSampled,
	})
	m, _ := baggage.NewMember("k", "v")
	b, _ := baggage.New(m)

	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = baggage.ContextWithBaggage(ctx, b)

	carrier := MapCarrier{}
	composite.Inject(ctx, carrier)
	if carrier.Get(traceparentHeader) == "" || carrier.Get(baggageHeader) == "" {
		t.Fatalf("expected both headers to be injected, got %+v", carrier)
	}

	extracted := composite.Extract(context.Background(), carrier)
	if !trace.SpanContextFromContext(extracted).IsValid() {
		t.Fatalf("expected span context to be extracted")
	}
	if baggage.FromContext(extracted).Len() != 1 {
		t.Fatalf("expected baggage to be extracted")
	}
}

func TestCompositePropagatorFieldsDeduped(t *testing.T) {
	composite := NewCompositeTextMapPropagator(TraceContext{}, TraceContext{}, Baggage{})
	fields := composite.Fields()
	if len(fields) != 3 {
		t.Fatalf("expected 3 deduped fields, got %d: %v", len(fields), fields)
	}
}
