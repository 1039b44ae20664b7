package trace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dartastic/otelcore-go/attribute"
	"github.com/dartastic/otelcore-go/codes"
)

type recordingExporter struct {
	spans []ReadOnlySpan
}

func newRecordingExporter() *recordingExporter {
	return &recordingExporter{}
}

func (e *recordingExporter) ExportSpans(ctx context.Context, spans []ReadOnlySpan) error {
	e.spans = append(e.spans, spans...)
	return nil
}
func (e *recordingExporter) Shutdown(ctx context.Context) error { return nil }

func TestEndTimeNeverBeforeStartTime(t *testing.T) {
	p := NewTracerProvider(WithSampler(AlwaysOnSampler()))
	tr := p.Tracer("test")
	start := time.Now()
	_, span := tr.Start(context.Background(), "op")
	span.End()
	rs := span.(ReadOnlySpan)
	if rs.EndTime().Before(start) {
		t.Fatalf("expected end time >= start time")
	}
	if rs.EndTime().Before(rs.StartTime()) {
		t.Fatalf("end time %v before start time %v", rs.EndTime(), rs.StartTime())
	}
}

func TestStatusErrorCannotBeOverwrittenByOk(t *testing.T) {
	p := NewTracerProvider(WithSampler(AlwaysOnSampler()))
	tr := p.Tracer("test")
	_, span := tr.Start(context.Background(), "op")
	span.SetStatus(codes.Error, "boom")
	span.SetStatus(codes.Ok, "")
	rs := span.(ReadOnlySpan)
	if rs.Status().Code != codes.Error {
		t.Fatalf("expected status to remain Error, got %v", rs.Status().Code)
	}
}

func TestUnsetBecomesOkOnEnd(t *testing.T) {
	p := NewTracerProvider(WithSampler(AlwaysOnSampler()))
	tr := p.Tracer("test")
	_, span := tr.Start(context.Background(), "op")
	span.End()
	rs := span.(ReadOnlySpan)
	if rs.Status().Code != codes.Ok {
		t.Fatalf("expected Unset status to become Ok on end, got %v", rs.Status().Code)
	}
}

func TestMutationAfterEndIsNoOp(t *testing.T) {
	p := NewTracerProvider(WithSampler(AlwaysOnSampler()))
	tr := p.Tracer("test")
	_, span := tr.Start(context.Background(), "op")
	span.End()
	span.SetName("renamed")
	span.SetAttributes(attribute.String("k", "v"))
	rs := span.(ReadOnlySpan)
	if rs.Name() == "renamed" {
		t.Fatalf("expected rename after end to be a no-op")
	}
	if len(rs.Attributes()) != 0 {
		t.Fatalf("expected attribute set after end to be a no-op, got %+v", rs.Attributes())
	}
}

func TestAttributeCapDropsExcessAndCountsThem(t *testing.T) {
	p := NewTracerProvider(WithSampler(AlwaysOnSampler()))
	tr := p.Tracer("test")
	_, span := tr.Start(context.Background(), "op")
	for i := 0; i < defaultMaxAttributes+10; i++ {
		span.SetAttributes(attribute.Int("k", i))
	}
	span.End()
	rs := span.(ReadOnlySpan)
	if len(rs.Attributes()) != defaultMaxAttributes {
		t.Fatalf("expected capped attribute count %d, got %d", defaultMaxAttributes, len(rs.Attributes()))
	}
	if rs.DroppedAttributes() != 10 {
		t.Fatalf("expected 10 dropped attributes, got %d", rs.DroppedAttributes())
	}
}

func TestRecordErrorAddsExceptionEvent(t *testing.T) {
	p := NewTracerProvider(WithSampler(AlwaysOnSampler()))
	tr := p.Tracer("test")
	_, span := tr.Start(context.Background(), "op")
	span.RecordError(errors.New("boom"))
	span.End()
	rs := span.(ReadOnlySpan)
	events := rs.Events()
	if len(events) != 1 || events[0].Name != "exception" {
		t.Fatalf("expected a single exception event, got %+v", events)
	}
}

func TestDroppedSpanHasSampledFalseButValidIDs(t *testing.T) {
	p := NewTracerProvider(WithSampler(AlwaysOffSampler()))
	tr := p.Tracer("test")
	_, span := tr.Start(context.Background(), "op")
	sc := span.SpanContext()
	if !sc.IsValid() {
		t.Fatalf("expected dropped span to still have valid IDs for propagation")
	}
	if sc.IsSampled() {
		t.Fatalf("expected dropped span to be unsampled")
	}
	if span.IsRecording() {
		t.Fatalf("expected dropped span to not be recording")
	}
}

func TestExportedExactlyOnceViaSimpleProcessor(t *testing.T) {
	exp := newRecordingExporter()
	p := NewTracerProvider(WithSampler(AlwaysOnSampler()), WithSpanProcessor(NewSimpleSpanProcessor(exp)))
	tr := p.Tracer("test")
	_, span := tr.Start(context.Background(), "op")
	span.End()
	if len(exp.spans) != 1 {
		t.Fatalf("expected exactly one exported span, got %d", len(exp.spans))
	}
}
