// Package trace defines the public tracing API surface consumed by
// instrumentation code: SpanContext/TraceID/SpanID value types, the
// Span/Tracer/TracerProvider interfaces, and the context glue that binds an
// active span to a context.Context.
//
// Per spec.md's design note 9 and the Open Questions resolved in
// SPEC_FULL.md, this core threads context.Context explicitly rather than
// maintaining a hidden ambient stack: Go's goroutines have no task-local
// storage equivalent to the substrates spec.md assumes may provide one.
package trace

import (
	"context"
	"time"

	"github.com/dartastic/otelcore-go/attribute"
	"github.com/dartastic/otelcore-go/codes"
)

// SpanKind describes the role a span plays in a trace.
type SpanKind int

const (
	SpanKindUnspecified SpanKind = iota
	SpanKindInternal
	SpanKindServer
	SpanKindClient
	SpanKindProducer
	SpanKindConsumer
)

// Link references a causally related span, possibly from another trace.
type Link struct {
	SpanContext SpanContext
	Attributes  []attribute.KeyValue
}

// Tracer starts new spans.
type Tracer interface {
	// Start creates a Span and a context.Context carrying it, deriving
	// identity and sampling per spec.md §4.3's algorithm.
	Start(ctx context.Context, spanName string, opts ...SpanStartOption) (context.Context, Span)
}

// TracerProvider provides named Tracers.
type TracerProvider interface {
	Tracer(instrumentationName string, opts ...TracerOption) Tracer
}

// Span is the read/write handle instrumentation code holds for the
// lifetime of an operation. After End, all mutating methods are no-ops.
type Span interface {
	// End completes the span. Only the first call has effect.
	End(opts ...SpanEndOption)
	// AddEvent records a point-in-time annotation on the span.
	AddEvent(name string, opts ...EventOption)
	// AddLink appends a Link, subject to the span's link cap.
	AddLink(link Link)
	// IsRecording reports whether the span is live (started, not ended)
	// and will observe further mutation.
	IsRecording() bool
	// RecordError records err as an exception event (spec.md §4.3).
	RecordError(err error, opts ...EventOption)
	// SpanContext returns the span's immutable identity.
	SpanContext() SpanContext
	// SetStatus sets the span status, honoring the Unset/Ok/Error
	// transition rules in spec.md §3.
	SetStatus(code codes.Code, description string)
	// SetName overwrites the span's name.
	SetName(name string)
	// SetAttributes merges attributes into the span, subject to the cap.
	SetAttributes(kv ...attribute.KeyValue)
	// TracerProvider returns the provider that created this span's tracer.
	TracerProvider() TracerProvider
}

// SpanConfig carries the resolved configuration for starting or ending a
// span; built up by SpanStartOption/SpanEndOption functions.
type SpanConfig struct {
	Attributes []attribute.KeyValue
	Links      []Link
	Timestamp  time.Time
	NewRoot    bool
	SpanKind   SpanKind
	StackTrace bool
}

type SpanStartOption interface{ applySpanStart(*SpanConfig) }
type SpanEndOption interface{ applySpanEnd(*SpanConfig) }
type EventOption interface{ applyEvent(*EventConfig) }

// EventConfig carries resolved configuration for AddEvent/RecordError.
type EventConfig struct {
	Attributes []attribute.KeyValue
	Timestamp  time.Time
}

type spanOptionFunc func(*SpanConfig)

func (f spanOptionFunc) applySpanStart(c *SpanConfig) { f(c) }
func (f spanOptionFunc) applySpanEnd(c *SpanConfig)   { f(c) }

type eventOptionFunc func(*EventConfig)

func (f eventOptionFunc) applyEvent(c *EventConfig) { f(c) }

// WithAttributes attaches attributes at span start, or merges them into an
// event/exception at AddEvent/RecordError time.
func WithAttributes(kv ...attribute.KeyValue) interface {
	SpanStartOption
	EventOption
} {
	return attributesOption(kv)
}

type attributesOption []attribute.KeyValue

func (o attributesOption) applySpanStart(c *SpanConfig) { c.Attributes = append(c.Attributes, o...) }
func (o attributesOption) applyEvent(c *EventConfig)    { c.Attributes = append(c.Attributes, o...) }

// WithLinks attaches links at span start.
func WithLinks(links ...Link) SpanStartOption {
	return spanOptionFunc(func(c *SpanConfig) { c.Links = append(c.Links, links...) })
}

// WithNewRoot forces the span to start a new trace, ignoring any parent in
// the supplied context.
func WithNewRoot() SpanStartOption {
	return spanOptionFunc(func(c *SpanConfig) { c.NewRoot = true })
}

// WithSpanKind sets the span's kind.
func WithSpanKind(kind SpanKind) SpanStartOption {
	return spanOptionFunc(func(c *SpanConfig) { c.SpanKind = kind })
}

// WithTimestamp overrides the start or end timestamp that would otherwise
// default to "now" (spec.md §3).
func WithTimestamp(t time.Time) interface {
	SpanStartOption
	SpanEndOption
	EventOption
} {
	return timestampOption(t)
}

type timestampOption time.Time

func (o timestampOption) applySpanStart(c *SpanConfig) { c.Timestamp = time.Time(o) }
func (o timestampOption) applySpanEnd(c *SpanConfig)   { c.Timestamp = time.Time(o) }
func (o timestampOption) applyEvent(c *EventConfig)    { c.Timestamp = time.Time(o) }

// WithStackTrace sets SpanConfig.StackTrace on a span end configuration.
// RecordError does not read it and records no exception.stacktrace
// attribute.
func WithStackTrace(capture bool) SpanEndOption {
	return spanOptionFunc(func(c *SpanConfig) { c.StackTrace = capture })
}

// TracerOption configures a Tracer obtained from a TracerProvider.
type TracerOption interface{ applyTracer(*TracerConfig) }

// TracerConfig carries the resolved instrumentation scope fields.
type TracerConfig struct {
	InstrumentationVersion string
	SchemaURL              string
	Attributes             []attribute.KeyValue
}

type tracerOptionFunc func(*TracerConfig)

func (f tracerOptionFunc) applyTracer(c *TracerConfig) { f(c) }

func WithInstrumentationVersion(version string) TracerOption {
	return tracerOptionFunc(func(c *TracerConfig) { c.InstrumentationVersion = version })
}

func WithSchemaURL(url string) TracerOption {
	return tracerOptionFunc(func(c *TracerConfig) { c.SchemaURL = url })
}

func WithInstrumentationAttributes(kv ...attribute.KeyValue) TracerOption {
	return tracerOptionFunc(func(c *TracerConfig) { c.Attributes = append(c.Attributes, kv...) })
}

// NewSpanStartConfig resolves a SpanConfig from SpanStartOptions.
func NewSpanStartConfig(opts ...SpanStartOption) SpanConfig {
	var c SpanConfig
	for _, opt := range opts {
		opt.applySpanStart(&c)
	}
	return c
}

// NewSpanEndConfig resolves a SpanConfig from SpanEndOptions.
func NewSpanEndConfig(opts ...SpanEndOption) SpanConfig {
	var c SpanConfig
	for _, opt := range opts {
		opt.applySpanEnd(&c)
	}
	return c
}

// NewEventConfig resolves an EventConfig from EventOptions.
func NewEventConfig(opts ...EventOption) EventConfig {
	var c EventConfig
	for _, opt := range opts {
		opt.applyEvent(&c)
	}
	return c
}

// NewTracerConfig resolves a TracerConfig from TracerOptions.
func NewTracerConfig(opts ...TracerOption) TracerConfig {
	var c TracerConfig
	for _, opt := range opts {
		opt.applyTracer(&c)
	}
	return c
}
