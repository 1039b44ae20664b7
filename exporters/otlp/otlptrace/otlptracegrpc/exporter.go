// Package otlptracegrpc exports spans to an OTLP/gRPC collector
// (spec.md §4.8).
package otlptracegrpc

import (
	"context"

	"github.com/dartastic/otelcore-go/internal/otlp"
	sdktrace "github.com/dartastic/otelcore-go/sdk/trace"

	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/grpc"
)

// Option configures the exporter.
type Option func(*otlp.GRPCConfig)

func WithEndpoint(endpoint string) Option {
	return func(c *otlp.GRPCConfig) { c.Endpoint = endpoint }
}

func WithInsecure() Option {
	return func(c *otlp.GRPCConfig) { c.Insecure = true }
}

func WithHeaders(headers map[string]string) Option {
	return func(c *otlp.GRPCConfig) { c.Headers = headers }
}

// Exporter implements sdktrace.SpanExporter over an OTLP/gRPC
// connection.
type Exporter struct {
	conn   *grpc.ClientConn
	client coltracepb.TraceServiceClient
	retry  otlp.RetryConfig
}

// New dials the collector and returns a ready Exporter.
func New(ctx context.Context, opts ...Option) (*Exporter, error) {
	cfg := otlp.DefaultGRPCConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	conn, err := otlp.DialGRPC(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Exporter{
		conn:   conn,
		client: coltracepb.NewTraceServiceClient(conn),
		retry:  cfg.Retry,
	}, nil
}

// ExportSpans sends spans to the collector, retrying transient gRPC
// failures per spec.md §4.8.
func (e *Exporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if len(spans) == 0 {
		return nil
	}
	req := &coltracepb.ExportTraceServiceRequest{
		ResourceSpans: otlp.ResourceSpansFromSDK(spans),
	}
	return otlp.Retry(ctx, e.retry, otlp.RetryableGRPC, func() error {
		_, err := e.client.Export(ctx, req)
		return err
	})
}

// Shutdown closes the underlying gRPC connection.
func (e *Exporter) Shutdown(ctx context.Context) error {
	return e.conn.Close()
}
