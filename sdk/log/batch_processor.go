package log

import (
	"context"
	"time"

	"github.com/dartastic/otelcore-go/internal/batchqueue"
)

// BatchProcessorOption configures a BatchProcessor.
type BatchProcessorOption func(*batchqueue.Config)

func WithMaxQueueSize(n int) BatchProcessorOption {
	return func(c *batchqueue.Config) { c.MaxQueueSize = n }
}
func WithBatchTimeout(d time.Duration) BatchProcessorOption {
	return func(c *batchqueue.Config) { c.ScheduleDelay = d }
}
func WithMaxExportBatchSize(n int) BatchProcessorOption {
	return func(c *batchqueue.Config) { c.MaxExportBatchSize = n }
}
func WithExportTimeout(d time.Duration) BatchProcessorOption {
	return func(c *batchqueue.Config) { c.ExportTimeout = d }
}

// BatchProcessor batches emitted records behind the same bounded
// queue/worker sdk/trace uses (spec.md §4.5's "identical configuration
// semantics").
type BatchProcessor struct {
	exporter Exporter
	queue    *batchqueue.Queue[*Record]
}

var _ Processor = (*BatchProcessor)(nil)

func NewBatchProcessor(exporter Exporter, opts ...BatchProcessorOption) *BatchProcessor {
	cfg := batchqueue.DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	export := func(ctx context.Context, batch []*Record) error {
		if len(batch) == 0 {
			return nil
		}
		return exporter.Export(ctx, batch)
	}
	return &BatchProcessor{exporter: exporter, queue: batchqueue.New(cfg, export)}
}

func (p *BatchProcessor) OnEmit(ctx context.Context, record *Record) error {
	p.queue.Enqueue(record)
	return nil
}

func (p *BatchProcessor) Enabled(context.Context, EnabledParameters) bool { return true }

func (p *BatchProcessor) ForceFlush(ctx context.Context) error { return p.queue.ForceFlush(ctx) }

func (p *BatchProcessor) Shutdown(ctx context.Context) error {
	if err := p.queue.Shutdown(ctx); err != nil {
		return err
	}
	return p.exporter.Shutdown(ctx)
}
