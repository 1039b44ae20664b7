// Package batchqueue implements the bounded FIFO queue and background
// worker shared by the span and log batch processors (spec.md §4.4, the
// log pipeline being declared "symmetric" to it in §4.5).
package batchqueue

import (
	"context"
	"sync"
	"time"

	"github.com/dartastic/otelcore-go/internal/log"
)

// Config holds the four tunables spec.md §4.4 enumerates, generalized to
// any item type.
type Config struct {
	MaxQueueSize       int
	ScheduleDelay      time.Duration
	MaxExportBatchSize int
	ExportTimeout      time.Duration
}

// DefaultConfig returns spec.md §4.4's defaults.
func DefaultConfig() Config {
	return Config{
		MaxQueueSize:       2048,
		ScheduleDelay:      5 * time.Second,
		MaxExportBatchSize: 512,
		ExportTimeout:      30 * time.Second,
	}
}

// ExportFunc hands a drained batch to an exporter.
type ExportFunc[T any] func(ctx context.Context, batch []T) error

// Queue is a bounded producer/single-worker-consumer queue. The queue
// never blocks Enqueue: once full, the newest item is dropped and the
// drop counter is incremented (spec.md §4.4's "drop the newest" policy,
// fixed at construction per the resolved Open Question in SPEC_FULL.md).
type Queue[T any] struct {
	cfg    Config
	export ExportFunc[T]

	mu      sync.Mutex
	items   []T
	dropped uint64

	notifyCh   chan struct{}
	flushCh    chan chan struct{}
	shutdownCh chan struct{}
	doneCh     chan struct{}

	once sync.Once
}

// New builds a Queue and starts its background worker.
func New[T any](cfg Config, export ExportFunc[T]) *Queue[T] {
	q := &Queue[T]{
		cfg:        cfg,
		export:     export,
		notifyCh:   make(chan struct{}, 1),
		flushCh:    make(chan chan struct{}),
		shutdownCh: make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	go q.run()
	return q
}

// Enqueue appends item, dropping it if the queue is at capacity.
func (q *Queue[T]) Enqueue(item T) {
	q.mu.Lock()
	full := len(q.items) >= q.cfg.MaxQueueSize
	if !full {
		q.items = append(q.items, item)
	} else {
		q.dropped++
	}
	atThreshold := len(q.items) >= q.cfg.MaxExportBatchSize
	q.mu.Unlock()

	if atThreshold {
		select {
		case q.notifyCh <- struct{}{}:
		default:
		}
	}
}

// Dropped reports the number of items dropped due to capacity.
func (q *Queue[T]) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// drain removes up to n items from the front of the queue.
func (q *Queue[T]) drain(n int) []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n > len(q.items) {
		n = len(q.items)
	}
	batch := make([]T, n)
	copy(batch, q.items[:n])
	q.items = q.items[n:]
	return batch
}

func (q *Queue[T]) run() {
	defer close(q.doneCh)
	ticker := time.NewTicker(q.cfg.ScheduleDelay)
	defer ticker.Stop()

	for {
		select {
		case <-q.shutdownCh:
			q.drainAll()
			return
		case done := <-q.flushCh:
			q.drainAll()
			close(done)
		case <-ticker.C:
			q.drainAll()
		case <-q.notifyCh:
			q.drainAll()
		}
	}
}

// drainAll exports the queue's contents in export-size chunks.
func (q *Queue[T]) drainAll() {
	for {
		batch := q.drain(q.cfg.MaxExportBatchSize)
		if len(batch) == 0 {
			return
		}
		q.exportBatch(batch)
		if len(batch) < q.cfg.MaxExportBatchSize {
			return
		}
	}
}

func (q *Queue[T]) exportBatch(batch []T) {
	ctx, cancel := context.WithTimeout(context.Background(), q.cfg.ExportTimeout)
	defer cancel()
	if err := q.export(ctx, batch); err != nil {
		log.Error("batchqueue: export failed, batch of %d discarded: %v", len(batch), err)
	}
}

// ForceFlush drains the queue and awaits completion or ctx's deadline.
func (q *Queue[T]) ForceFlush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case q.flushCh <- done:
	case <-q.shutdownCh:
		return nil
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

// Shutdown stops accepting new work, drains the queue, and returns once
// the worker has exited or ctx's deadline passes. Idempotent.
func (q *Queue[T]) Shutdown(ctx context.Context) error {
	q.once.Do(func() { close(q.shutdownCh) })
	select {
	case <-q.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
