package trace

import (
	"context"
	"time"

	"github.com/dartastic/otelcore-go/internal/batchqueue"
)

// BatchSpanProcessorOption configures a BatchSpanProcessor.
type BatchSpanProcessorOption func(*batchqueue.Config)

func WithMaxQueueSize(n int) BatchSpanProcessorOption {
	return func(c *batchqueue.Config) { c.MaxQueueSize = n }
}
func WithBatchTimeout(d time.Duration) BatchSpanProcessorOption {
	return func(c *batchqueue.Config) { c.ScheduleDelay = d }
}
func WithMaxExportBatchSize(n int) BatchSpanProcessorOption {
	return func(c *batchqueue.Config) { c.MaxExportBatchSize = n }
}
func WithExportTimeout(d time.Duration) BatchSpanProcessorOption {
	return func(c *batchqueue.Config) { c.ExportTimeout = d }
}

// BatchSpanProcessor batches ended spans behind a bounded queue and a
// background worker (spec.md §4.4), built on the queue shared with the
// log pipeline.
type BatchSpanProcessor struct {
	exporter SpanExporter
	queue    *batchqueue.Queue[ReadOnlySpan]
}

var _ SpanProcessor = (*BatchSpanProcessor)(nil)

func NewBatchSpanProcessor(exporter SpanExporter, opts ...BatchSpanProcessorOption) *BatchSpanProcessor {
	cfg := batchqueue.DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	export := func(ctx context.Context, batch []ReadOnlySpan) error {
		if len(batch) == 0 {
			return nil
		}
		return exporter.ExportSpans(ctx, batch)
	}
	return &BatchSpanProcessor{exporter: exporter, queue: batchqueue.New(cfg, export)}
}

func (p *BatchSpanProcessor) OnStart(context.Context, ReadWriteSpan) {}

func (p *BatchSpanProcessor) OnEnd(span ReadOnlySpan) {
	p.queue.Enqueue(span)
}

func (p *BatchSpanProcessor) ForceFlush(ctx context.Context) error {
	return p.queue.ForceFlush(ctx)
}

func (p *BatchSpanProcessor) Shutdown(ctx context.Context) error {
	if err := p.queue.Shutdown(ctx); err != nil {
		return err
	}
	return p.exporter.Shutdown(ctx)
}
