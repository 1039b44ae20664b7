package log

import "context"

// EnabledParameters are the inputs to Processor.Enabled: the capability
// gate that lets processors short-circuit log construction upstream
// before a Record is even built (spec.md §4.5).
type EnabledParameters struct {
	Severity  Severity
	EventName string
}

// Processor observes emitted log records (spec.md §4.5, symmetric to
// sdk/trace's SpanProcessor).
type Processor interface {
	OnEmit(ctx context.Context, record *Record) error
	Enabled(ctx context.Context, params EnabledParameters) bool
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Exporter serializes a batch of log records to an external receiver.
type Exporter interface {
	Export(ctx context.Context, records []*Record) error
	Shutdown(ctx context.Context) error
}

// SimpleProcessor synchronously hands each emitted record to the
// exporter (spec.md §4.5).
type SimpleProcessor struct {
	exporter Exporter
}

var _ Processor = (*SimpleProcessor)(nil)

func NewSimpleProcessor(exporter Exporter) *SimpleProcessor {
	return &SimpleProcessor{exporter: exporter}
}

func (p *SimpleProcessor) OnEmit(ctx context.Context, record *Record) error {
	return p.exporter.Export(ctx, []*Record{record})
}

func (p *SimpleProcessor) Enabled(context.Context, EnabledParameters) bool { return true }
func (p *SimpleProcessor) ForceFlush(context.Context) error                { return nil }
func (p *SimpleProcessor) Shutdown(ctx context.Context) error              { return p.exporter.Shutdown(ctx) }
