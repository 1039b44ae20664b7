package otlp

import (
	"context"
	"testing"
	"time"

	"github.com/dartastic/otelcore-go/attribute"
	"github.com/dartastic/otelcore-go/resource"
	sdkmetric "github.com/dartastic/otelcore-go/sdk/metric"
	sdktrace "github.com/dartastic/otelcore-go/sdk/trace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endedSpan(t *testing.T, p *sdktrace.TracerProvider, scope, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	tracer := p.Tracer(scope)
	_, span := tracer.Start(context.Background(), name)
	span.End()
	return span.(sdktrace.ReadOnlySpan)
}

func TestResourceSpansFromSDKGroupsByResourceThenScope(t *testing.T) {
	svcA := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysOnSampler()),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", "svc-a"))),
	)
	svcB := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysOnSampler()),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", "svc-b"))),
	)

	spans := []sdktrace.ReadOnlySpan{
		endedSpan(t, svcA, "scope-one", "op1"),
		endedSpan(t, svcA, "scope-two", "op2"),
		endedSpan(t, svcA, "scope-one", "op3"),
		endedSpan(t, svcB, "scope-one", "op4"),
	}

	rs := ResourceSpansFromSDK(spans)
	require.Len(t, rs, 2)

	first := rs[0]
	require.Len(t, first.ScopeSpans, 2)
	assert.Equal(t, "scope-one", first.ScopeSpans[0].Scope.Name)
	assert.Len(t, first.ScopeSpans[0].Spans, 2)
	assert.Equal(t, "scope-two", first.ScopeSpans[1].Scope.Name)
	assert.Len(t, first.ScopeSpans[1].Spans, 1)

	second := rs[1]
	require.Len(t, second.ScopeSpans, 1)
	assert.Len(t, second.ScopeSpans[0].Spans, 1)
}

func TestResourceSpansFromSDKEncodesIdentityFields(t *testing.T) {
	p := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysOnSampler()))
	spans := []sdktrace.ReadOnlySpan{endedSpan(t, p, "scope", "my-op")}

	rs := ResourceSpansFromSDK(spans)
	require.Len(t, rs, 1)
	pbSpan := rs[0].ScopeSpans[0].Spans[0]
	assert.Equal(t, "my-op", pbSpan.Name)
	assert.Len(t, pbSpan.TraceId, 16)
	assert.Len(t, pbSpan.SpanId, 8)
	assert.NotZero(t, pbSpan.StartTimeUnixNano)
	assert.NotZero(t, pbSpan.EndTimeUnixNano)
}

func metricWithSum(name string, temporality sdkmetric.Temporality, attrs attribute.Set) sdkmetric.Metric {
	return sdkmetric.Metric{
		Name: name,
		DataPoints: []sdkmetric.DataPoint{
			{
				Attributes: attrs,
				Time:       time.Now(),
				SumValue:   &sdkmetric.SumValue{Value: 3, IsMonotonic: true, Temporality: temporality},
			},
		},
	}
}

func TestToMetricPBSelectsSumOneof(t *testing.T) {
	m := metricWithSum("requests", sdkmetric.CumulativeTemporality, attribute.NewSet(attribute.String("route", "/")))
	pb := toMetricPB(m)
	sum := pb.GetSum()
	require.NotNil(t, sum)
	assert.True(t, sum.IsMonotonic)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, float64(3), sum.DataPoints[0].GetAsDouble())
}

func TestToMetricPBSelectsHistogramOneof(t *testing.T) {
	m := sdkmetric.Metric{
		Name: "latency",
		DataPoints: []sdkmetric.DataPoint{
			{
				Time: time.Now(),
				HistogramValue: &sdkmetric.HistogramValue{
					Sum: 10, Count: 4,
					Boundaries:   []float64{1, 5, 10},
					BucketCounts: []uint64{1, 2, 1, 0},
					Temporality:  sdkmetric.CumulativeTemporality,
				},
			},
		},
	}
	pb := toMetricPB(m)
	hist := pb.GetHistogram()
	require.NotNil(t, hist)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(4), hist.DataPoints[0].Count)
	assert.Equal(t, []uint64{1, 2, 1, 0}, hist.DataPoints[0].BucketCounts)
}

func TestToMetricPBSelectsGaugeOneof(t *testing.T) {
	v := 42.0
	m := sdkmetric.Metric{
		Name: "temperature",
		DataPoints: []sdkmetric.DataPoint{
			{Time: time.Now(), GaugeValue: &v},
		},
	}
	pb := toMetricPB(m)
	gauge := pb.GetGauge()
	require.NotNil(t, gauge)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, 42.0, gauge.DataPoints[0].GetAsDouble())
}

func TestResourceMetricsFromSDKCarriesResourceAttributes(t *testing.T) {
	rm := sdkmetric.ResourceMetrics{
		Resource: resource.NewSchemaless(attribute.String("service.name", "svc-a")),
		ScopeMetrics: []sdkmetric.ScopeMetrics{
			{Metrics: []sdkmetric.Metric{metricWithSum("requests", sdkmetric.CumulativeTemporality, attribute.NewSet())}},
		},
	}
	out := ResourceMetricsFromSDK(rm)
	require.Len(t, out, 1)
	require.Len(t, out[0].Resource.Attributes, 1)
	assert.Equal(t, "service.name", out[0].Resource.Attributes[0].Key)
}
