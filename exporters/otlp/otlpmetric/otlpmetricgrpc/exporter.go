// Package otlpmetricgrpc exports metrics to an OTLP/gRPC collector
// (spec.md §4.8).
package otlpmetricgrpc

import (
	"context"

	"github.com/dartastic/otelcore-go/internal/otlp"
	sdkmetric "github.com/dartastic/otelcore-go/sdk/metric"

	colmetricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	"google.golang.org/grpc"
)

type Option func(*otlp.GRPCConfig)

func WithEndpoint(endpoint string) Option {
	return func(c *otlp.GRPCConfig) { c.Endpoint = endpoint }
}

func WithInsecure() Option {
	return func(c *otlp.GRPCConfig) { c.Insecure = true }
}

// Exporter implements sdkmetric.Exporter over an OTLP/gRPC connection.
// It prefers Cumulative temporality uniformly, the spec.md §4.6 default.
type Exporter struct {
	conn   *grpc.ClientConn
	client colmetricspb.MetricsServiceClient
	retry  otlp.RetryConfig
}

func New(ctx context.Context, opts ...Option) (*Exporter, error) {
	cfg := otlp.DefaultGRPCConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	conn, err := otlp.DialGRPC(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Exporter{conn: conn, client: colmetricspb.NewMetricsServiceClient(conn), retry: cfg.Retry}, nil
}

func (e *Exporter) Export(ctx context.Context, metrics sdkmetric.ResourceMetrics) error {
	req := &colmetricspb.ExportMetricsServiceRequest{
		ResourceMetrics: otlp.ResourceMetricsFromSDK(metrics),
	}
	return otlp.Retry(ctx, e.retry, otlp.RetryableGRPC, func() error {
		_, err := e.client.Export(ctx, req)
		return err
	})
}

// Temporality reports this exporter's uniform preference: Cumulative for
// every instrument kind.
func (e *Exporter) Temporality(kind sdkmetric.Kind) sdkmetric.Temporality {
	return sdkmetric.CumulativeTemporality
}

func (e *Exporter) Shutdown(ctx context.Context) error {
	return e.conn.Close()
}
