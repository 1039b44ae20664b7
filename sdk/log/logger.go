package log

import (
	"context"
	"time"

	"github.com/dartastic/otelcore-go/attribute"
	ilog "github.com/dartastic/otelcore-go/internal/log"
	"github.com/dartastic/otelcore-go/sdk/instrumentation"
	itrace "github.com/dartastic/otelcore-go/trace"
)

// Logger emits log records through a LoggerProvider's registered
// processors.
type Logger struct {
	provider *LoggerProvider
	scope    instrumentation.Scope
}

// Enabled reports whether at least one registered processor would accept
// a record with the given severity/event name (spec.md §4.5: "A logger is
// considered enabled iff at least one registered processor returns true").
func (l *Logger) Enabled(ctx context.Context, params EnabledParameters) bool {
	procs := l.provider.processors()
	if len(procs) == 0 {
		return false
	}
	for _, p := range procs {
		if p.Enabled(ctx, params) {
			return true
		}
	}
	return false
}

// Emit builds and dispatches a Record. Trace/span IDs are captured from
// ctx's current SpanContext at emission time (spec.md §4.5).
func (l *Logger) Emit(ctx context.Context, opts ...RecordOption) {
	now := time.Now()
	r := &Record{
		timestamp:         now,
		observedTimestamp: now,
		scope:             l.scope,
		resource:          l.provider.resource,
	}
	sc := itrace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		r.traceID = sc.TraceID()
		r.spanID = sc.SpanID()
		r.traceFlags = sc.TraceFlags()
	}
	for _, opt := range opts {
		opt(r)
	}
	r.freeze()

	for _, p := range l.provider.processors() {
		if err := p.OnEmit(ctx, r); err != nil {
			ilog.Error("log: processor OnEmit failed: %v", err)
		}
	}
}

// RecordOption configures a Record passed to Logger.Emit.
type RecordOption func(*Record)

func WithTimestamp(t time.Time) RecordOption { return func(r *Record) { r.timestamp = t } }
func WithSeverity(s Severity) RecordOption   { return func(r *Record) { r.severity = s } }
func WithSeverityText(s string) RecordOption { return func(r *Record) { r.severityText = s } }
func WithBody(body interface{}) RecordOption { return func(r *Record) { r.body = body } }
func WithEventName(name string) RecordOption { return func(r *Record) { r.eventName = name } }
func WithLogAttributes(kvs ...attribute.KeyValue) RecordOption {
	return func(r *Record) { r.AddAttributes(kvs...) }
}
