package trace

import (
	"context"
	"math"

	"github.com/dartastic/otelcore-go/attribute"
	"github.com/dartastic/otelcore-go/internal/idgen"
	itrace "github.com/dartastic/otelcore-go/trace"
)

// SamplingDecision is the outcome of a sampling decision (spec.md §4.2).
type SamplingDecision int

const (
	Drop SamplingDecision = iota
	RecordOnly
	RecordAndSample
)

// SamplingParameters are the inputs to Sampler.ShouldSample.
type SamplingParameters struct {
	ParentContext context.Context
	TraceID       itrace.TraceID
	Name          string
	Kind          itrace.SpanKind
	Attributes    []attribute.KeyValue
	Links         []itrace.Link
}

// SamplingResult is the output of Sampler.ShouldSample.
type SamplingResult struct {
	Decision   SamplingDecision
	Attributes []attribute.KeyValue
	TraceState itrace.TraceState
}

// Sampler decides whether a new span should be recorded/exported.
type Sampler interface {
	ShouldSample(params SamplingParameters) SamplingResult
	Description() string
}

type alwaysOnSampler struct{}

func AlwaysOnSampler() Sampler { return alwaysOnSampler{} }

func (alwaysOnSampler) ShouldSample(params SamplingParameters) SamplingResult {
	return SamplingResult{Decision: RecordAndSample, TraceState: parentTraceState(params)}
}
func (alwaysOnSampler) Description() string { return "AlwaysOnSampler" }

type alwaysOffSampler struct{}

func AlwaysOffSampler() Sampler { return alwaysOffSampler{} }

func (alwaysOffSampler) ShouldSample(params SamplingParameters) SamplingResult {
	return SamplingResult{Decision: Drop, TraceState: parentTraceState(params)}
}
func (alwaysOffSampler) Description() string { return "AlwaysOffSampler" }

// traceIDRatioSampler samples a fraction of traces deterministically from
// the trace ID (spec.md §4.2).
type traceIDRatioSampler struct {
	ratio     float64
	threshold uint64
}

// TraceIDRatioBased returns a Sampler that samples a fraction ratio of
// traces, deterministically keyed off the low 8 bytes of the trace ID.
func TraceIDRatioBased(ratio float64) Sampler {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return &traceIDRatioSampler{
		ratio:     ratio,
		threshold: uint64(ratio * float64(math.MaxUint64)),
	}
}

func (s *traceIDRatioSampler) ShouldSample(params SamplingParameters) SamplingResult {
	ts := parentTraceState(params)
	if idgen.TraceIDLowUint64(params.TraceID) < s.threshold {
		return SamplingResult{Decision: RecordAndSample, TraceState: ts}
	}
	return SamplingResult{Decision: Drop, TraceState: ts}
}

func (s *traceIDRatioSampler) Description() string { return "TraceIDRatioBased" }

// ParentBased delegates to one of five samplers depending on whether
// there is a parent and, if so, its remote-ness and sampled-ness
// (spec.md §4.2).
type ParentBasedConfig struct {
	Root                     Sampler
	RemoteParentSampled      Sampler
	RemoteParentNotSampled   Sampler
	LocalParentSampled       Sampler
	LocalParentNotSampled    Sampler
}

type parentBasedSampler struct {
	cfg ParentBasedConfig
}

// ParentBased builds a Sampler that honors the parent's sampling
// decision when one exists, falling back to root when there is none.
// Unset delegate samplers default to AlwaysOn (for *Sampled variants) and
// AlwaysOff (for *NotSampled variants), matching every real OTel SDK.
func ParentBased(root Sampler, opts ...func(*ParentBasedConfig)) Sampler {
	cfg := ParentBasedConfig{
		Root:                   root,
		RemoteParentSampled:    AlwaysOnSampler(),
		RemoteParentNotSampled: AlwaysOffSampler(),
		LocalParentSampled:     AlwaysOnSampler(),
		LocalParentNotSampled:  AlwaysOffSampler(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &parentBasedSampler{cfg: cfg}
}

func WithRemoteParentSampled(s Sampler) func(*ParentBasedConfig) {
	return func(c *ParentBasedConfig) { c.RemoteParentSampled = s }
}
func WithRemoteParentNotSampled(s Sampler) func(*ParentBasedConfig) {
	return func(c *ParentBasedConfig) { c.RemoteParentNotSampled = s }
}
func WithLocalParentSampled(s Sampler) func(*ParentBasedConfig) {
	return func(c *ParentBasedConfig) { c.LocalParentSampled = s }
}
func WithLocalParentNotSampled(s Sampler) func(*ParentBasedConfig) {
	return func(c *ParentBasedConfig) { c.LocalParentNotSampled = s }
}

func (s *parentBasedSampler) ShouldSample(params SamplingParameters) SamplingResult {
	psc := itrace.SpanContextFromContext(params.ParentContext)
	if !psc.IsValid() {
		return s.cfg.Root.ShouldSample(params)
	}
	var delegate Sampler
	switch {
	case psc.IsRemote() && psc.IsSampled():
		delegate = s.cfg.RemoteParentSampled
	case psc.IsRemote() && !psc.IsSampled():
		delegate = s.cfg.RemoteParentNotSampled
	case !psc.IsRemote() && psc.IsSampled():
		delegate = s.cfg.LocalParentSampled
	default:
		delegate = s.cfg.LocalParentNotSampled
	}
	return delegate.ShouldSample(params)
}

func (s *parentBasedSampler) Description() string { return "ParentBased{" + s.cfg.Root.Description() + "}" }

func parentTraceState(params SamplingParameters) itrace.TraceState {
	return itrace.SpanContextFromContext(params.ParentContext).TraceState()
}
