// Package otlp converts this module's span, log, and metric data models
// into the OTLP wire protocol and provides the retrying gRPC/HTTP
// transports shared by every exporters/otlp/* package (spec.md §4.7,
// §4.8).
package otlp

import (
	"github.com/dartastic/otelcore-go/attribute"
	"github.com/dartastic/otelcore-go/codes"
	"github.com/dartastic/otelcore-go/resource"
	sdklog "github.com/dartastic/otelcore-go/sdk/log"
	sdkmetric "github.com/dartastic/otelcore-go/sdk/metric"
	sdktrace "github.com/dartastic/otelcore-go/sdk/trace"
	itrace "github.com/dartastic/otelcore-go/trace"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

// resourceServiceName returns the resource's service.name attribute, the
// grouping key spec.md §4.7 mandates for the first level of the
// resource/scope grouping.
func resourceServiceName(r *resource.Resource) string {
	if r == nil {
		return ""
	}
	for _, kv := range r.Attributes() {
		if kv.Key == resource.AttributeServiceName {
			return kv.Value.AsString()
		}
	}
	return ""
}

func scopeKey(name, version string) string { return name + ":" + version }

func toResourcePB(r *resource.Resource) *resourcepb.Resource {
	if r == nil {
		return &resourcepb.Resource{}
	}
	return &resourcepb.Resource{Attributes: toKeyValues(r.Attributes())}
}

func toInstrumentationScopePB(name, version string, attrs attribute.Set) *commonpb.InstrumentationScope {
	return &commonpb.InstrumentationScope{
		Name:       name,
		Version:    version,
		Attributes: toKeyValues(attrs.ToSlice()),
	}
}

func toKeyValues(kvs []attribute.KeyValue) []*commonpb.KeyValue {
	if len(kvs) == 0 {
		return nil
	}
	out := make([]*commonpb.KeyValue, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, &commonpb.KeyValue{Key: string(kv.Key), Value: toAnyValue(kv.Value)})
	}
	return out
}

func toAnyValue(v attribute.Value) *commonpb.AnyValue {
	switch v.Type() {
	case attribute.BOOL:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_BoolValue{BoolValue: v.AsBool()}}
	case attribute.INT64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: v.AsInt64()}}
	case attribute.FLOAT64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_DoubleValue{DoubleValue: v.AsFloat64()}}
	case attribute.STRING:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: v.AsString()}}
	default:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: v.Emit()}}
	}
}

func toTraceIDBytes(id itrace.TraceID) []byte {
	b := make([]byte, len(id))
	copy(b, id[:])
	return b
}

func toSpanIDBytes(id itrace.SpanID) []byte {
	b := make([]byte, len(id))
	copy(b, id[:])
	return b
}

func unixNano(t interface{ UnixNano() int64 }) uint64 {
	n := t.UnixNano()
	if n < 0 {
		return 0
	}
	return uint64(n)
}

func toSpanKindPB(k itrace.SpanKind) tracepb.Span_SpanKind {
	switch k {
	case itrace.SpanKindInternal:
		return tracepb.Span_SPAN_KIND_INTERNAL
	case itrace.SpanKindServer:
		return tracepb.Span_SPAN_KIND_SERVER
	case itrace.SpanKindClient:
		return tracepb.Span_SPAN_KIND_CLIENT
	case itrace.SpanKindProducer:
		return tracepb.Span_SPAN_KIND_PRODUCER
	case itrace.SpanKindConsumer:
		return tracepb.Span_SPAN_KIND_CONSUMER
	default:
		return tracepb.Span_SPAN_KIND_UNSPECIFIED
	}
}

func toStatusCodePB(c codes.Code) tracepb.Status_StatusCode {
	switch c {
	case codes.Ok:
		return tracepb.Status_STATUS_CODE_OK
	case codes.Error:
		return tracepb.Status_STATUS_CODE_ERROR
	default:
		return tracepb.Status_STATUS_CODE_UNSET
	}
}

// ResourceSpansFromSDK groups spans by resource (service.name) then
// instrumentation scope (name:version), per spec.md §4.7.
func ResourceSpansFromSDK(spans []sdktrace.ReadOnlySpan) []*tracepb.ResourceSpans {
	type scopeGroup struct {
		name, version string
		attrs         attribute.Set
		spans         []*tracepb.Span
	}
	type resGroup struct {
		resource *resource.Resource
		scopes   map[string]*scopeGroup
		order    []string
	}
	groups := map[string]*resGroup{}
	var resOrder []string

	for _, s := range spans {
		rKey := resourceServiceName(s.Resource())
		rg, ok := groups[rKey]
		if !ok {
			rg = &resGroup{resource: s.Resource(), scopes: map[string]*scopeGroup{}}
			groups[rKey] = rg
			resOrder = append(resOrder, rKey)
		}
		scope := s.InstrumentationScope()
		sKey := scopeKey(scope.Name, scope.Version)
		sg, ok := rg.scopes[sKey]
		if !ok {
			sg = &scopeGroup{name: scope.Name, version: scope.Version, attrs: scope.Attributes}
			rg.scopes[sKey] = sg
			rg.order = append(rg.order, sKey)
		}
		sg.spans = append(sg.spans, toSpanPB(s))
	}

	out := make([]*tracepb.ResourceSpans, 0, len(resOrder))
	for _, rKey := range resOrder {
		rg := groups[rKey]
		rs := &tracepb.ResourceSpans{Resource: toResourcePB(rg.resource)}
		for _, sKey := range rg.order {
			sg := rg.scopes[sKey]
			rs.ScopeSpans = append(rs.ScopeSpans, &tracepb.ScopeSpans{
				Scope: toInstrumentationScopePB(sg.name, sg.version, sg.attrs),
				Spans: sg.spans,
			})
		}
		out = append(out, rs)
	}
	return out
}

func toSpanPB(s sdktrace.ReadOnlySpan) *tracepb.Span {
	sc := s.SpanContext()
	pb := &tracepb.Span{
		TraceId:           toTraceIDBytes(sc.TraceID()),
		SpanId:            toSpanIDBytes(sc.SpanID()),
		TraceState:        sc.TraceState().String(),
		Name:              s.Name(),
		Kind:              toSpanKindPB(s.SpanKind()),
		StartTimeUnixNano: unixNano(s.StartTime()),
		EndTimeUnixNano:   unixNano(s.EndTime()),
		Attributes:        toKeyValues(s.Attributes()),
		DroppedAttributesCount: uint32(s.DroppedAttributes()),
		DroppedEventsCount:     uint32(s.DroppedEvents()),
		DroppedLinksCount:      uint32(s.DroppedLinks()),
		Status: &tracepb.Status{
			Message: s.Status().Description,
			Code:    toStatusCodePB(s.Status().Code),
		},
	}
	if parent := s.Parent(); parent.IsValid() {
		pb.ParentSpanId = toSpanIDBytes(parent.SpanID())
	}
	for _, ev := range s.Events() {
		pb.Events = append(pb.Events, &tracepb.Span_Event{
			TimeUnixNano: unixNano(ev.Time),
			Name:         ev.Name,
			Attributes:   toKeyValues(ev.Attributes),
		})
	}
	for _, link := range s.Links() {
		pb.Links = append(pb.Links, &tracepb.Span_Link{
			TraceId:    toTraceIDBytes(link.SpanContext.TraceID()),
			SpanId:     toSpanIDBytes(link.SpanContext.SpanID()),
			TraceState: link.SpanContext.TraceState().String(),
			Attributes: toKeyValues(link.Attributes),
		})
	}
	return pb
}

// ResourceLogsFromSDK groups log records by resource then scope, per
// spec.md §4.7.
func ResourceLogsFromSDK(records []*sdklog.Record) []*logspb.ResourceLogs {
	type scopeGroup struct {
		name, version string
		attrs         attribute.Set
		records       []*logspb.LogRecord
	}
	type resGroup struct {
		resource *resource.Resource
		scopes   map[string]*scopeGroup
		order    []string
	}
	groups := map[string]*resGroup{}
	var resOrder []string

	for _, r := range records {
		rKey := resourceServiceName(r.Resource())
		rg, ok := groups[rKey]
		if !ok {
			rg = &resGroup{resource: r.Resource(), scopes: map[string]*scopeGroup{}}
			groups[rKey] = rg
			resOrder = append(resOrder, rKey)
		}
		scope := r.InstrumentationScope()
		sKey := scopeKey(scope.Name, scope.Version)
		sg, ok := rg.scopes[sKey]
		if !ok {
			sg = &scopeGroup{name: scope.Name, version: scope.Version, attrs: scope.Attributes}
			rg.scopes[sKey] = sg
			rg.order = append(rg.order, sKey)
		}
		sg.records = append(sg.records, toLogRecordPB(r))
	}

	out := make([]*logspb.ResourceLogs, 0, len(resOrder))
	for _, rKey := range resOrder {
		rg := groups[rKey]
		rl := &logspb.ResourceLogs{Resource: toResourcePB(rg.resource)}
		for _, sKey := range rg.order {
			sg := rg.scopes[sKey]
			rl.ScopeLogs = append(rl.ScopeLogs, &logspb.ScopeLogs{
				Scope:      toInstrumentationScopePB(sg.name, sg.version, sg.attrs),
				LogRecords: sg.records,
			})
		}
		out = append(out, rl)
	}
	return out
}

func toLogRecordPB(r *sdklog.Record) *logspb.LogRecord {
	pb := &logspb.LogRecord{
		TimeUnixNano:         unixNano(r.Timestamp()),
		ObservedTimeUnixNano: unixNano(r.ObservedTimestamp()),
		SeverityNumber:       logspb.SeverityNumber(r.Severity()),
		SeverityText:         r.SeverityText(),
		Attributes:           toKeyValues(r.Attributes()),
		EventName:            r.EventName(),
	}
	if r.Body() != nil {
		pb.Body = toAnyValue(bodyToAttributeValue(r.Body()))
	}
	if r.TraceID().IsValid() {
		pb.TraceId = toTraceIDBytes(r.TraceID())
	}
	if r.SpanID().IsValid() {
		pb.SpanId = toSpanIDBytes(r.SpanID())
	}
	return pb
}

func bodyToAttributeValue(body interface{}) attribute.Value {
	switch v := body.(type) {
	case string:
		return attribute.StringValue(v)
	case bool:
		return attribute.BoolValue(v)
	case int64:
		return attribute.Int64Value(v)
	case int:
		return attribute.Int64Value(int64(v))
	case float64:
		return attribute.Float64Value(v)
	default:
		return attribute.StringValue(stringify(v))
	}
}

func stringify(v interface{}) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return ""
}

func toTemporalityPB(t sdkmetric.Temporality) metricspb.AggregationTemporality {
	if t == sdkmetric.DeltaTemporality {
		return metricspb.AggregationTemporality_AGGREGATION_TEMPORALITY_DELTA
	}
	return metricspb.AggregationTemporality_AGGREGATION_TEMPORALITY_CUMULATIVE
}

func toExemplarsPB(exemplars []sdkmetric.Exemplar) []*metricspb.Exemplar {
	if len(exemplars) == 0 {
		return nil
	}
	out := make([]*metricspb.Exemplar, 0, len(exemplars))
	for _, e := range exemplars {
		pb := &metricspb.Exemplar{
			FilteredAttributes: toKeyValues(e.FilteredAttributes),
			TimeUnixNano:       unixNano(e.Time),
			Value:              &metricspb.Exemplar_AsDouble{AsDouble: e.Value},
		}
		if e.TraceID.IsValid() {
			pb.TraceId = toTraceIDBytes(e.TraceID)
		}
		if e.SpanID.IsValid() {
			pb.SpanId = toSpanIDBytes(e.SpanID)
		}
		out = append(out, pb)
	}
	return out
}

// ResourceMetricsFromSDK converts one collection's worth of metrics into
// OTLP ResourceMetrics, per spec.md §4.7.
func ResourceMetricsFromSDK(rm sdkmetric.ResourceMetrics) []*metricspb.ResourceMetrics {
	pb := &metricspb.ResourceMetrics{Resource: toResourcePB(rm.Resource)}
	for _, sm := range rm.ScopeMetrics {
		sms := &metricspb.ScopeMetrics{
			Scope: toInstrumentationScopePB(sm.Scope.Name, sm.Scope.Version, sm.Scope.Attributes),
		}
		for _, m := range sm.Metrics {
			sms.Metrics = append(sms.Metrics, toMetricPB(m))
		}
		pb.ScopeMetrics = append(pb.ScopeMetrics, sms)
	}
	return []*metricspb.ResourceMetrics{pb}
}

func toMetricPB(m sdkmetric.Metric) *metricspb.Metric {
	pb := &metricspb.Metric{Name: m.Name, Description: m.Description, Unit: m.Unit}
	if len(m.DataPoints) == 0 {
		return pb
	}
	switch {
	case m.DataPoints[0].SumValue != nil:
		sum := &metricspb.Sum{IsMonotonic: m.DataPoints[0].SumValue.IsMonotonic, AggregationTemporality: toTemporalityPB(m.DataPoints[0].SumValue.Temporality)}
		for _, dp := range m.DataPoints {
			sum.DataPoints = append(sum.DataPoints, &metricspb.NumberDataPoint{
				Attributes:        toKeyValues(dp.Attributes.ToSlice()),
				StartTimeUnixNano: unixNano(dp.StartTime),
				TimeUnixNano:      unixNano(dp.Time),
				Value:             &metricspb.NumberDataPoint_AsDouble{AsDouble: dp.SumValue.Value},
				Exemplars:         toExemplarsPB(dp.Exemplars),
			})
		}
		pb.Data = &metricspb.Metric_Sum{Sum: sum}
	case m.DataPoints[0].HistogramValue != nil:
		hist := &metricspb.Histogram{AggregationTemporality: toTemporalityPB(m.DataPoints[0].HistogramValue.Temporality)}
		for _, dp := range m.DataPoints {
			hv := dp.HistogramValue
			sum := hv.Sum
			hist.DataPoints = append(hist.DataPoints, &metricspb.HistogramDataPoint{
				Attributes:        toKeyValues(dp.Attributes.ToSlice()),
				StartTimeUnixNano: unixNano(dp.StartTime),
				TimeUnixNano:      unixNano(dp.Time),
				Count:             hv.Count,
				Sum:               &sum,
				BucketCounts:      hv.BucketCounts,
				ExplicitBounds:    hv.Boundaries,
				Exemplars:         toExemplarsPB(dp.Exemplars),
			})
		}
		pb.Data = &metricspb.Metric_Histogram{Histogram: hist}
	case m.DataPoints[0].GaugeValue != nil:
		gauge := &metricspb.Gauge{}
		for _, dp := range m.DataPoints {
			v := *dp.GaugeValue
			gauge.DataPoints = append(gauge.DataPoints, &metricspb.NumberDataPoint{
				Attributes:   toKeyValues(dp.Attributes.ToSlice()),
				TimeUnixNano: unixNano(dp.Time),
				Value:        &metricspb.NumberDataPoint_AsDouble{AsDouble: v},
				Exemplars:    toExemplarsPB(dp.Exemplars),
			})
		}
		pb.Data = &metricspb.Metric_Gauge{Gauge: gauge}
	}
	return pb
}
