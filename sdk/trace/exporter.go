package trace

import "context"

// SpanExporter serializes a batch of ended spans and hands them to an
// external receiver (spec.md §4.8's shared export contract).
type SpanExporter interface {
	ExportSpans(ctx context.Context, spans []ReadOnlySpan) error
	Shutdown(ctx context.Context) error
}
