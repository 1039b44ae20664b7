// Package log implements the log record pipeline (spec.md §3 LogRecord,
// §4.5): LoggerProvider, Logger, Record, and the simple/batch processors
// symmetric to sdk/trace's span pipeline.
package log

import (
	"time"

	"github.com/dartastic/otelcore-go/attribute"
	"github.com/dartastic/otelcore-go/resource"
	"github.com/dartastic/otelcore-go/sdk/instrumentation"
	itrace "github.com/dartastic/otelcore-go/trace"
)

// Severity follows the OpenTelemetry log severity number scale: each
// named level has four sub-levels (e.g. Info, Info2, Info3, Info4) for
// finer-grained filtering.
type Severity int

const (
	SeverityUnspecified Severity = 0
	SeverityTrace       Severity = 1
	SeverityDebug       Severity = 5
	SeverityInfo        Severity = 9
	SeverityWarn        Severity = 13
	SeverityError       Severity = 17
	SeverityFatal       Severity = 21
)

// Record is a single log record (spec.md §3). It is mutable until handed
// to Logger.Emit's processors, after which observable state is frozen.
type Record struct {
	timestamp         time.Time
	observedTimestamp time.Time
	severity          Severity
	severityText      string
	body              interface{}
	eventName         string
	attributes        []attribute.KeyValue
	droppedAttrs      int

	traceID    itrace.TraceID
	spanID     itrace.SpanID
	traceFlags itrace.TraceFlags

	scope    instrumentation.Scope
	resource *resource.Resource

	frozen bool
}

const maxRecordAttributes = 128

func (r *Record) Timestamp() time.Time                 { return r.timestamp }
func (r *Record) ObservedTimestamp() time.Time         { return r.observedTimestamp }
func (r *Record) Severity() Severity                    { return r.severity }
func (r *Record) SeverityText() string                  { return r.severityText }
func (r *Record) Body() interface{}                     { return r.body }
func (r *Record) EventName() string                     { return r.eventName }
func (r *Record) TraceID() itrace.TraceID               { return r.traceID }
func (r *Record) SpanID() itrace.SpanID                 { return r.spanID }
func (r *Record) TraceFlags() itrace.TraceFlags         { return r.traceFlags }
func (r *Record) DroppedAttributes() int                { return r.droppedAttrs }
func (r *Record) InstrumentationScope() instrumentation.Scope { return r.scope }
func (r *Record) Resource() *resource.Resource          { return r.resource }

func (r *Record) Attributes() []attribute.KeyValue {
	out := make([]attribute.KeyValue, len(r.attributes))
	copy(out, r.attributes)
	return out
}

func (r *Record) SetTimestamp(t time.Time) {
	if r.frozen {
		return
	}
	r.timestamp = t
}

func (r *Record) SetObservedTimestamp(t time.Time) {
	if r.frozen {
		return
	}
	r.observedTimestamp = t
}

func (r *Record) SetSeverity(s Severity) {
	if r.frozen {
		return
	}
	r.severity = s
}

func (r *Record) SetSeverityText(s string) {
	if r.frozen {
		return
	}
	r.severityText = s
}

func (r *Record) SetBody(body interface{}) {
	if r.frozen {
		return
	}
	r.body = body
}

func (r *Record) SetEventName(name string) {
	if r.frozen {
		return
	}
	r.eventName = name
}

func (r *Record) AddAttributes(kvs ...attribute.KeyValue) {
	if r.frozen {
		return
	}
	for _, kv := range kvs {
		if len(r.attributes) >= maxRecordAttributes {
			r.droppedAttrs++
			continue
		}
		r.attributes = append(r.attributes, kv)
	}
}

// freeze marks the record immutable. The trace/span IDs from the emitting
// context (spec.md §4.5) are captured earlier, in Logger.Emit.
func (r *Record) freeze() {
	r.frozen = true
}

// Clone returns a deep-enough copy for safe concurrent handoff to
// multiple processors (each processor sees an independently mutable view
// before the record is frozen, though in practice freeze happens before
// any processor sees it).
func (r *Record) Clone() *Record {
	cp := *r
	cp.attributes = append([]attribute.KeyValue(nil), r.attributes...)
	return &cp
}
