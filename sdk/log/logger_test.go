package log

import (
	"context"
	"testing"
	"time"

	itrace "github.com/dartastic/otelcore-go/trace"
)

type captureExporter struct {
	records []*Record
}

func (e *captureExporter) Export(ctx context.Context, records []*Record) error {
	e.records = append(e.records, records...)
	return nil
}
func (e *captureExporter) Shutdown(ctx context.Context) error { return nil }

func TestEmitCapturesTraceAndSpanIDFromContext(t *testing.T) {
	exp := &captureExporter{}
	p := NewLoggerProvider(WithProcessor(NewSimpleProcessor(exp)))
	logger := p.Logger("test")

	sc := itrace.NewSpanContext(itrace.SpanContextConfig{
		TraceID:    [16]byte{1},
		SpanID:     [8]byte{1},
		TraceFlags: itrace.FlagsSampled,
	})
	ctx := itrace.ContextWithSpanContext(context.Background(), sc)

	logger.Emit(ctx, WithBody("hello"), WithSeverity(SeverityInfo))

	if len(exp.records) != 1 {
		t.Fatalf("expected exactly one emitted record, got %d", len(exp.records))
	}
	r := exp.records[0]
	if r.TraceID() != sc.TraceID() || r.SpanID() != sc.SpanID() {
		t.Fatalf("expected record to capture context's span identity")
	}
	if r.Body() != "hello" {
		t.Fatalf("expected body to round-trip, got %v", r.Body())
	}
}

func TestRecordFrozenAfterEmit(t *testing.T) {
	exp := &captureExporter{}
	p := NewLoggerProvider(WithProcessor(NewSimpleProcessor(exp)))
	logger := p.Logger("test")
	logger.Emit(context.Background(), WithBody("first"))

	r := exp.records[0]
	r.SetBody("mutated")
	if r.Body() != "first" {
		t.Fatalf("expected frozen record to reject mutation, got %v", r.Body())
	}
}

func TestEnabledRequiresAtLeastOneProcessor(t *testing.T) {
	p := NewLoggerProvider()
	logger := p.Logger("test")
	if logger.Enabled(context.Background(), EnabledParameters{Severity: SeverityInfo}) {
		t.Fatalf("expected logger with no processors to be disabled")
	}
}

func TestBatchProcessorDeliversAllOnFlush(t *testing.T) {
	exp := &captureExporter{}
	bp := NewBatchProcessor(exp, WithBatchTimeout(time.Hour))
	p := NewLoggerProvider(WithProcessor(bp))
	logger := p.Logger("test")

	for i := 0; i < 10; i++ {
		logger.Emit(context.Background(), WithBody(i))
	}
	if err := p.ForceFlush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exp.records) != 10 {
		t.Fatalf("expected 10 records flushed, got %d", len(exp.records))
	}
	_ = p.Shutdown(context.Background())
}
