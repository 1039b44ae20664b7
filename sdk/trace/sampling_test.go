package trace

import (
	"context"
	"testing"

	"github.com/dartastic/otelcore-go/internal/idgen"
	itrace "github.com/dartastic/otelcore-go/trace"
)

func TestAlwaysOnSamplerRecordsAndSamples(t *testing.T) {
	result := AlwaysOnSampler().ShouldSample(SamplingParameters{ParentContext: context.Background()})
	if result.Decision != RecordAndSample {
		t.Fatalf("expected RecordAndSample, got %v", result.Decision)
	}
}

func TestAlwaysOffSamplerDrops(t *testing.T) {
	result := AlwaysOffSampler().ShouldSample(SamplingParameters{ParentContext: context.Background()})
	if result.Decision != Drop {
		t.Fatalf("expected Drop, got %v", result.Decision)
	}
}

func TestTraceIDRatioBasedIsDeterministic(t *testing.T) {
	sampler := TraceIDRatioBased(0.5)
	gen := idgen.NewDefault()
	tid := gen.NewTraceID()
	params := SamplingParameters{ParentContext: context.Background(), TraceID: tid}
	first := sampler.ShouldSample(params).Decision
	second := sampler.ShouldSample(params).Decision
	if first != second {
		t.Fatalf("expected deterministic decision for the same trace id")
	}
}

func TestTraceIDRatioZeroDropsEverything(t *testing.T) {
	sampler := TraceIDRatioBased(0)
	gen := idgen.NewDefault()
	for i := 0; i < 10; i++ {
		tid := gen.NewTraceID()
		result := sampler.ShouldSample(SamplingParameters{ParentContext: context.Background(), TraceID: tid})
		if result.Decision != Drop {
			t.Fatalf("expected ratio-0 sampler to always drop")
		}
	}
}

func TestParentBasedUsesRemoteParentSampledDelegate(t *testing.T) {
	sc := itrace.NewSpanContext(itrace.SpanContextConfig{
		TraceID:    [16]byte{1},
		SpanID:     [8]byte{1},
		TraceFlags: itrace.FlagsSampled,
		Remote:     true,
	})
	ctx := itrace.ContextWithSpanContext(context.Background(), sc)
	sampler := ParentBased(AlwaysOffSampler())
	result := sampler.ShouldSample(SamplingParameters{ParentContext: ctx})
	if result.Decision != RecordAndSample {
		t.Fatalf("expected sampled remote parent to force RecordAndSample, got %v", result.Decision)
	}
}

func TestParentBasedFallsBackToRootWhenNoParent(t *testing.T) {
	sampler := ParentBased(AlwaysOffSampler())
	result := sampler.ShouldSample(SamplingParameters{ParentContext: context.Background()})
	if result.Decision != Drop {
		t.Fatalf("expected root sampler decision with no parent, got %v", result.Decision)
	}
}
