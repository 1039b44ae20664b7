package metric

import (
	"context"
	"sync"
	"time"

	ilog "github.com/dartastic/otelcore-go/internal/log"
)

const (
	defaultPeriodicInterval = 60 * time.Second
	defaultPeriodicTimeout  = 30 * time.Second
)

// MetricReader is a polling subscriber to a MeterProvider (spec.md
// §4.6). register is called once by NewMeterProvider to give the reader
// a handle back to its producer.
type MetricReader interface {
	register(p metricProducer)
	Collect(ctx context.Context) (ResourceMetrics, error)
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// PeriodicExportingMetricReader drives Collect() at a fixed interval and
// forwards the result to an Exporter (spec.md §4.6).
type PeriodicExportingMetricReader struct {
	exporter Exporter
	interval time.Duration
	timeout  time.Duration

	mu       sync.Mutex
	producer metricProducer

	ticker     *time.Ticker
	flushCh    chan chan struct{}
	shutdownCh chan struct{}
	doneCh     chan struct{}
	once       sync.Once
}

// PeriodicReaderOption configures a PeriodicExportingMetricReader.
type PeriodicReaderOption func(*PeriodicExportingMetricReader)

// WithInterval overrides the default 60s collection interval.
func WithInterval(d time.Duration) PeriodicReaderOption {
	return func(r *PeriodicExportingMetricReader) { r.interval = d }
}

// WithTimeout overrides the default 30s per-collection export timeout.
func WithTimeout(d time.Duration) PeriodicReaderOption {
	return func(r *PeriodicExportingMetricReader) { r.timeout = d }
}

// NewPeriodicReader builds a PeriodicExportingMetricReader forwarding
// collected metrics to exporter.
func NewPeriodicReader(exporter Exporter, opts ...PeriodicReaderOption) *PeriodicExportingMetricReader {
	r := &PeriodicExportingMetricReader{
		exporter:   exporter,
		interval:   defaultPeriodicInterval,
		timeout:    defaultPeriodicTimeout,
		flushCh:    make(chan chan struct{}),
		shutdownCh: make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PeriodicExportingMetricReader) register(p metricProducer) {
	r.mu.Lock()
	r.producer = p
	r.mu.Unlock()
	r.ticker = time.NewTicker(r.interval)
	go r.run()
}

func (r *PeriodicExportingMetricReader) run() {
	defer close(r.doneCh)
	for {
		select {
		case <-r.shutdownCh:
			r.exportOnce()
			return
		case done := <-r.flushCh:
			r.exportOnce()
			close(done)
		case <-r.ticker.C:
			r.exportOnce()
		}
	}
}

func (r *PeriodicExportingMetricReader) exportOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	rm, err := r.Collect(ctx)
	if err != nil {
		ilog.Error("metric: periodic collect failed: %v", err)
		return
	}
	if err := r.exporter.Export(ctx, rm); err != nil {
		ilog.Error("metric: periodic export failed: %v", err)
	}
}

// Collect materializes the producer's current point set with cumulative
// temporality for every instrument kind; the exporter's Temporality
// preference is not consulted.
func (r *PeriodicExportingMetricReader) Collect(ctx context.Context) (ResourceMetrics, error) {
	r.mu.Lock()
	producer := r.producer
	r.mu.Unlock()
	if producer == nil {
		return ResourceMetrics{}, nil
	}
	return producer.produceMetrics(ctx, CumulativeTemporality), nil
}

// ForceFlush synchronously runs one collection-and-export cycle.
func (r *PeriodicExportingMetricReader) ForceFlush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case r.flushCh <- done:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops the periodic loop after a final collection, then shuts
// down the exporter. It is idempotent.
func (r *PeriodicExportingMetricReader) Shutdown(ctx context.Context) error {
	r.once.Do(func() { close(r.shutdownCh) })
	select {
	case <-r.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	}
	if r.ticker != nil {
		r.ticker.Stop()
	}
	return r.exporter.Shutdown(ctx)
}
