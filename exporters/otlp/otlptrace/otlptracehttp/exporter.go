// Package otlptracehttp exports spans to an OTLP/HTTP collector
// (spec.md §4.8).
package otlptracehttp

import (
	"context"

	"github.com/dartastic/otelcore-go/internal/otlp"
	sdktrace "github.com/dartastic/otelcore-go/sdk/trace"

	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
)

// Option configures the exporter.
type Option func(*otlp.HTTPConfig)

func WithEndpoint(endpoint string) Option {
	return func(c *otlp.HTTPConfig) { c.Endpoint = endpoint }
}

func WithInsecure() Option {
	return func(c *otlp.HTTPConfig) { c.Insecure = true }
}

func WithHeaders(headers map[string]string) Option {
	return func(c *otlp.HTTPConfig) { c.Headers = headers }
}

func WithCompression(enabled bool) Option {
	return func(c *otlp.HTTPConfig) { c.Compression = enabled }
}

// Exporter implements sdktrace.SpanExporter over OTLP/HTTP.
type Exporter struct {
	client *otlp.HTTPClient
	retry  otlp.RetryConfig
}

// New builds a ready Exporter posting to the conventional /v1/traces
// path.
func New(ctx context.Context, opts ...Option) (*Exporter, error) {
	cfg := otlp.DefaultHTTPConfig("/v1/traces")
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Exporter{client: otlp.NewHTTPClient(cfg), retry: cfg.Retry}, nil
}

// ExportSpans posts spans to the collector, retrying transient HTTP
// failures per spec.md §4.8.
func (e *Exporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if len(spans) == 0 {
		return nil
	}
	req := &coltracepb.ExportTraceServiceRequest{
		ResourceSpans: otlp.ResourceSpansFromSDK(spans),
	}
	return otlp.Retry(ctx, e.retry, func(error) bool { return true }, func() error {
		return e.client.Export(ctx, req)
	})
}

// Shutdown is a no-op; the underlying http.Client owns no persistent
// connection this exporter must close.
func (e *Exporter) Shutdown(ctx context.Context) error { return nil }
