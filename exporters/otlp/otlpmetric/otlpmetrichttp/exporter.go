// Package otlpmetrichttp exports metrics to an OTLP/HTTP collector
// (spec.md §4.8).
package otlpmetrichttp

import (
	"context"

	"github.com/dartastic/otelcore-go/internal/otlp"
	sdkmetric "github.com/dartastic/otelcore-go/sdk/metric"

	colmetricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
)

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

// Exporter implements sdkmetric.Exporter over OTLP/HTTP.
type Exporter struct {
	client *otlp.HTTPClient
	retry  otlp.RetryConfig
}

// New builds a ready Exporter posting to the conventional /v1/metrics
// path.
func New(ctx context.Context, opts ...Option) (*Exporter, error) {
	cfg := otlp.DefaultHTTPConfig("/v1/metrics")
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Exporter{client: otlp.NewHTTPClient(cfg), retry: cfg.Retry}, nil
}

func (e *Exporter) Export(ctx context.Context, metrics sdkmetric.ResourceMetrics) error {
	req := &colmetricspb.ExportMetricsServiceRequest{
		ResourceMetrics: otlp.ResourceMetricsFromSDK(metrics),
	}
	return otlp.Retry(ctx, e.retry, func(error) bool { return true }, func() error {
		return e.client.Export(ctx, req)
	})
}

// Temporality reports this exporter's uniform preference: Cumulative for
// every instrument kind.
func (e *Exporter) Temporality(kind sdkmetric.Kind) sdkmetric.Temporality {
	return sdkmetric.CumulativeTemporality
}

// Shutdown is a no-op; the underlying http.Client owns no persistent
// connection this exporter must close.
func (e *Exporter) Shutdown(ctx context.Context) error { return nil }
