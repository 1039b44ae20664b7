package trace

import (
	"context"
	"sync"
	"testing"
	"time"
)

type countingExporter struct {
	mu    sync.Mutex
	count int
}

func (e *countingExporter) ExportSpans(ctx context.Context, spans []ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.count += len(spans)
	return nil
}
func (e *countingExporter) Shutdown(ctx context.Context) error { return nil }

func (e *countingExporter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

func TestBatchProcessorFlushesOnInterval(t *testing.T) {
	exp := &countingExporter{}
	bsp := NewBatchSpanProcessor(exp, WithBatchTimeout(50*time.Millisecond), WithMaxExportBatchSize(512))
	p := NewTracerProvider(WithSampler(AlwaysOnSampler()), WithSpanProcessor(bsp))
	tr := p.Tracer("test")

	for i := 0; i < 3; i++ {
		_, span := tr.Start(context.Background(), "op")
		span.End()
	}

	time.Sleep(150 * time.Millisecond)
	if exp.Count() != 3 {
		t.Fatalf("expected 3 spans exported after interval flush, got %d", exp.Count())
	}
	if err := bsp.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}

func TestBatchProcessorForceFlushDeliversAll(t *testing.T) {
	exp := &countingExporter{}
	bsp := NewBatchSpanProcessor(exp, WithBatchTimeout(time.Hour))
	p := NewTracerProvider(WithSampler(AlwaysOnSampler()), WithSpanProcessor(bsp))
	tr := p.Tracer("test")

	for i := 0; i < 20; i++ {
		_, span := tr.Start(context.Background(), "op")
		span.End()
	}

	if err := p.ForceFlush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp.Count() != 20 {
		t.Fatalf("expected 20 spans exported, got %d", exp.Count())
	}
	_ = p.Shutdown(context.Background())
}
