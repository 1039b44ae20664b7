package metric

import (
	"context"
	"testing"
	"time"

	"github.com/dartastic/otelcore-go/attribute"
)

func TestCounterAddFlowsThroughToCollectedMetric(t *testing.T) {
	p := NewMeterProvider()
	m := p.Meter("test")
	counter, err := m.Int64Counter("requests", WithDescription("total requests"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	counter.Add(ctx, 1, WithAttributes(attribute.String("route", "/a")))
	counter.Add(ctx, 2, WithAttributes(attribute.String("route", "/a")))

	rm := p.produceMetrics(ctx, CumulativeTemporality)
	if len(rm.ScopeMetrics) != 1 || len(rm.ScopeMetrics[0].Metrics) != 1 {
		t.Fatalf("expected exactly one metric, got %+v", rm)
	}
	metric := rm.ScopeMetrics[0].Metrics[0]
	if metric.Name != "requests" || metric.Description != "total requests" {
		t.Fatalf("expected instrument identity to survive, got %+v", metric)
	}
	if len(metric.DataPoints) != 1 || metric.DataPoints[0].SumValue.Value != 3 {
		t.Fatalf("expected a single summed data point of 3, got %+v", metric.DataPoints)
	}
}

func TestViewRenamesAndFiltersAttributes(t *testing.T) {
	p := NewMeterProvider(WithView(View{
		InstrumentName: "latency",
		Name:           "latency_ms",
		AttributeKeys:  []attribute.Key{"route"},
	}))
	m := p.Meter("test")
	h, err := m.Float64Histogram("latency")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.Record(context.Background(), 12.5, WithAttributes(
		attribute.String("route", "/a"),
		attribute.String("user", "sensitive"),
	))

	rm := p.produceMetrics(context.Background(), CumulativeTemporality)
	metric := rm.ScopeMetrics[0].Metrics[0]
	if metric.Name != "latency_ms" {
		t.Fatalf("expected View rename to apply, got %q", metric.Name)
	}
	attrs := metric.DataPoints[0].Attributes.ToSlice()
	if len(attrs) != 1 || attrs[0].Key != "route" {
		t.Fatalf("expected only whitelisted attribute to survive, got %+v", attrs)
	}
}

func TestObservableCallbackReportsAtCollection(t *testing.T) {
	p := NewMeterProvider()
	m := p.Meter("test")
	gauge, err := m.Int64ObservableGauge("queue_depth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	depth := int64(7)
	_, err = m.RegisterCallback(func(ctx context.Context, o Observer) error {
		o.ObserveInt64(gauge, depth)
		return nil
	}, gauge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rm := p.produceMetrics(context.Background(), CumulativeTemporality)
	metric := rm.ScopeMetrics[0].Metrics[0]
	if len(metric.DataPoints) != 1 || *metric.DataPoints[0].GaugeValue != 7 {
		t.Fatalf("expected observed value 7, got %+v", metric.DataPoints)
	}

	depth = 9
	rm2 := p.produceMetrics(context.Background(), CumulativeTemporality)
	if *rm2.ScopeMetrics[0].Metrics[0].DataPoints[0].GaugeValue != 9 {
		t.Fatalf("expected callback to re-run and report the updated value on the next collection")
	}
}

func TestCallbackErrorDiscardsThatRoundsObservations(t *testing.T) {
	p := NewMeterProvider()
	m := p.Meter("test")
	counter, _ := m.Int64ObservableCounter("errors_total")
	calls := 0
	_, _ = m.RegisterCallback(func(ctx context.Context, o Observer) error {
		calls++
		if calls == 2 {
			o.ObserveInt64(counter, 100)
			return errCallbackFailed
		}
		o.ObserveInt64(counter, 5)
		return nil
	}, counter)

	ctx := context.Background()
	first := p.produceMetrics(ctx, CumulativeTemporality)
	if first.ScopeMetrics[0].Metrics[0].DataPoints[0].SumValue.Value != 5 {
		t.Fatalf("expected first collection to report 5")
	}

	second := p.produceMetrics(ctx, CumulativeTemporality)
	if second.ScopeMetrics[0].Metrics[0].DataPoints[0].SumValue.Value != 5 {
		t.Fatalf("expected failed callback's observations to be discarded, keeping the prior value, got %+v", second)
	}
}

var errCallbackFailed = callbackFailure{}

type callbackFailure struct{}

func (callbackFailure) Error() string { return "callback failure" }

func TestPeriodicReaderForceFlushExportsImmediately(t *testing.T) {
	exp := &captureMetricExporter{}
	reader := NewPeriodicReader(exp, WithInterval(time.Hour))
	p := NewMeterProvider(WithReader(reader))
	m := p.Meter("test")
	counter, _ := m.Int64Counter("hits")
	counter.Add(context.Background(), 1)

	if err := p.ForceFlush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exp.exported) != 1 {
		t.Fatalf("expected exactly one export, got %d", len(exp.exported))
	}
	_ = p.Shutdown(context.Background())
}

type captureMetricExporter struct {
	exported []ResourceMetrics
}

func (e *captureMetricExporter) Export(ctx context.Context, m ResourceMetrics) error {
	e.exported = append(e.exported, m)
	return nil
}
func (e *captureMetricExporter) Temporality(k Kind) Temporality { return CumulativeTemporality }
func (e *captureMetricExporter) Shutdown(ctx context.Context) error { return nil }
