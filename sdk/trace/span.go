package trace

import (
	"fmt"
	"sync"
	"time"

	"github.com/dartastic/otelcore-go/attribute"
	"github.com/dartastic/otelcore-go/codes"
	"github.com/dartastic/otelcore-go/internal/log"
	"github.com/dartastic/otelcore-go/resource"
	"github.com/dartastic/otelcore-go/sdk/instrumentation"
	itrace "github.com/dartastic/otelcore-go/trace"
)

const (
	defaultMaxAttributes = 128
	defaultMaxEvents     = 128
	defaultMaxLinks      = 128
	defaultMaxListLen    = 128
)

// Event is a point-in-time annotation recorded on a span.
type Event struct {
	Name       string
	Attributes []attribute.KeyValue
	Time       time.Time
}

// ReadOnlySpan is the frozen view of a span handed to exporters after it
// ends (spec.md §3: "Ownership" — processors receive immutable snapshots).
type ReadOnlySpan interface {
	Name() string
	SpanContext() itrace.SpanContext
	Parent() itrace.SpanContext
	SpanKind() itrace.SpanKind
	StartTime() time.Time
	EndTime() time.Time
	Attributes() []attribute.KeyValue
	Links() []itrace.Link
	Events() []Event
	Status() Status
	DroppedAttributes() int
	DroppedEvents() int
	DroppedLinks() int
	InstrumentationScope() instrumentation.Scope
	Resource() *resource.Resource
}

// ReadWriteSpan is the live view handed to SpanProcessor.OnStart, before
// the span has ended.
type ReadWriteSpan interface {
	ReadOnlySpan
	itrace.Span
}

// Status is the span's terminal status (spec.md §3).
type Status struct {
	Code        codes.Code
	Description string
}

// recordingSpan is the concrete, lock-guarded Span implementation. All
// mutating methods become no-ops once ended (spec.md §3, §5).
type recordingSpan struct {
	mu sync.Mutex

	name      string
	spanCtx   itrace.SpanContext
	parent    itrace.SpanContext
	kind      itrace.SpanKind
	startTime time.Time
	endTime   time.Time
	ended     bool

	attrs  []attribute.KeyValue
	events []Event
	links  []itrace.Link
	status Status

	droppedAttrs  int
	droppedEvents int
	droppedLinks  int

	tracer *tracer
}

var _ ReadWriteSpan = (*recordingSpan)(nil)

func (s *recordingSpan) Name() string                             { return s.getName() }
func (s *recordingSpan) SpanContext() itrace.SpanContext           { return s.spanCtx }
func (s *recordingSpan) Parent() itrace.SpanContext                { return s.parent }
func (s *recordingSpan) SpanKind() itrace.SpanKind                 { return s.kind }
func (s *recordingSpan) StartTime() time.Time                      { return s.startTime }
func (s *recordingSpan) InstrumentationScope() instrumentation.Scope { return s.tracer.scope }
func (s *recordingSpan) Resource() *resource.Resource              { return s.tracer.provider.resource }
func (s *recordingSpan) TracerProvider() itrace.TracerProvider     { return s.tracer.provider }

func (s *recordingSpan) getName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *recordingSpan) EndTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endTime
}

func (s *recordingSpan) Attributes() []attribute.KeyValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]attribute.KeyValue, len(s.attrs))
	copy(out, s.attrs)
	return out
}

func (s *recordingSpan) Links() []itrace.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]itrace.Link, len(s.links))
	copy(out, s.links)
	return out
}

func (s *recordingSpan) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *recordingSpan) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *recordingSpan) DroppedAttributes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.droppedAttrs
}
func (s *recordingSpan) DroppedEvents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.droppedEvents
}
func (s *recordingSpan) DroppedLinks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.droppedLinks
}

func (s *recordingSpan) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.ended
}

func (s *recordingSpan) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		debugSpanMutationAfterEnd(s.name)
		return
	}
	s.name = name
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		debugSpanMutationAfterEnd(s.name)
		return
	}
	for _, a := range kv {
		if len(s.attrs) >= defaultMaxAttributes {
			s.droppedAttrs++
			continue
		}
		s.attrs = append(s.attrs, truncateListAttribute(a))
	}
}

func (s *recordingSpan) AddLink(link itrace.Link) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		debugSpanMutationAfterEnd(s.name)
		return
	}
	if len(s.links) >= defaultMaxLinks {
		s.droppedLinks++
		return
	}
	s.links = append(s.links, link)
}

func (s *recordingSpan) AddEvent(name string, opts ...itrace.EventOption) {
	cfg := itrace.NewEventConfig(opts...)
	s.addEvent(name, cfg)
}

func (s *recordingSpan) addEvent(name string, cfg itrace.EventConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		debugSpanMutationAfterEnd(s.name)
		return
	}
	if len(s.events) >= defaultMaxEvents {
		s.droppedEvents++
		return
	}
	ts := cfg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	attrs := make([]attribute.KeyValue, len(cfg.Attributes))
	for i, a := range cfg.Attributes {
		attrs[i] = truncateListAttribute(a)
	}
	s.events = append(s.events, Event{Name: name, Attributes: attrs, Time: ts})
}

// RecordError records err as an "exception" event, following the
// OpenTelemetry semantic conventions for exception.type/exception.message.
func (s *recordingSpan) RecordError(err error, opts ...itrace.EventOption) {
	if err == nil {
		return
	}
	cfg := itrace.NewEventConfig(opts...)
	attrs := append([]attribute.KeyValue{
		attribute.String("exception.type", fmt.Sprintf("%T", err)),
		attribute.String("exception.message", err.Error()),
	}, cfg.Attributes...)
	cfg.Attributes = attrs
	s.addEvent("exception", cfg)
}

// SetStatus applies the transition rules from spec.md §3: Unset may move
// to Ok or Error; Error may not move back to Ok; Ok is a terminal
// acknowledgement, so once set every later call is ignored; a description
// set alongside Ok is ignored.
func (s *recordingSpan) SetStatus(code codes.Code, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || s.status.Code == codes.Ok {
		return
	}
	if s.status.Code == codes.Error && code == codes.Ok {
		return
	}
	if code == codes.Ok {
		description = ""
	}
	s.status = Status{Code: code, Description: description}
}

// End freezes the span and notifies the tracer's processors in
// registration order (spec.md §4.3). Only the first call has effect.
func (s *recordingSpan) End(opts ...itrace.SpanEndOption) {
	cfg := itrace.NewSpanEndConfig(opts...)

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	if !cfg.Timestamp.IsZero() {
		s.endTime = cfg.Timestamp
	} else {
		s.endTime = time.Now()
	}
	if s.endTime.Before(s.startTime) {
		s.endTime = s.startTime
	}
	if s.status.Code == codes.Unset {
		s.status = Status{Code: codes.Ok}
	}
	s.mu.Unlock()

	for _, p := range s.tracer.provider.processors() {
		p.OnEnd(s)
	}
}

func truncateListAttribute(kv attribute.KeyValue) attribute.KeyValue {
	switch kv.Value.Type() {
	case attribute.BOOLSLICE:
		if v := kv.Value.AsBoolSlice(); len(v) > defaultMaxListLen {
			return attribute.KeyValue{Key: kv.Key, Value: attribute.BoolSliceValue(v[:defaultMaxListLen])}
		}
	case attribute.INT64SLICE:
		if v := kv.Value.AsInt64Slice(); len(v) > defaultMaxListLen {
			return attribute.KeyValue{Key: kv.Key, Value: attribute.Int64SliceValue(v[:defaultMaxListLen])}
		}
	case attribute.FLOAT64SLICE:
		if v := kv.Value.AsFloat64Slice(); len(v) > defaultMaxListLen {
			return attribute.KeyValue{Key: kv.Key, Value: attribute.Float64SliceValue(v[:defaultMaxListLen])}
		}
	case attribute.STRINGSLICE:
		if v := kv.Value.AsStringSlice(); len(v) > defaultMaxListLen {
			return attribute.KeyValue{Key: kv.Key, Value: attribute.StringSliceValue(v[:defaultMaxListLen])}
		}
	}
	return kv
}

func debugSpanMutationAfterEnd(spanName string) {
	log.Debug("trace: mutation on ended span %q dropped", spanName)
}
