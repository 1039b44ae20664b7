// Package otlploghttp exports log records to an OTLP/HTTP collector
// (spec.md §4.8).
package otlploghttp

import (
	"context"

	"github.com/dartastic/otelcore-go/internal/otlp"
	sdklog "github.com/dartastic/otelcore-go/sdk/log"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
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

// Exporter implements sdklog.Exporter over OTLP/HTTP.
type Exporter struct {
	client *otlp.HTTPClient
	retry  otlp.RetryConfig
}

// New builds a ready Exporter posting to the conventional /v1/logs
// path.
func New(ctx context.Context, opts ...Option) (*Exporter, error) {
	cfg := otlp.DefaultHTTPConfig("/v1/logs")
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Exporter{client: otlp.NewHTTPClient(cfg), retry: cfg.Retry}, nil
}

func (e *Exporter) Export(ctx context.Context, records []*sdklog.Record) error {
	if len(records) == 0 {
		return nil
	}
	req := &collogspb.ExportLogsServiceRequest{
		ResourceLogs: otlp.ResourceLogsFromSDK(records),
	}
	return otlp.Retry(ctx, e.retry, func(error) bool { return true }, func() error {
		return e.client.Export(ctx, req)
	})
}

// Shutdown is a no-op; the underlying http.Client owns no persistent
// connection this exporter must close.
func (e *Exporter) Shutdown(ctx context.Context) error { return nil }
