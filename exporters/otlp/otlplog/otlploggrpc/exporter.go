// Package otlploggrpc exports log records to an OTLP/gRPC collector
// (spec.md §4.8).
package otlploggrpc

import (
	"context"

	"github.com/dartastic/otelcore-go/internal/otlp"
	sdklog "github.com/dartastic/otelcore-go/sdk/log"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	"google.golang.org/grpc"
)

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

// Exporter implements sdklog.Exporter over an OTLP/gRPC connection.
type Exporter struct {
	conn   *grpc.ClientConn
	client collogspb.LogsServiceClient
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
	return &Exporter{conn: conn, client: collogspb.NewLogsServiceClient(conn), retry: cfg.Retry}, nil
}

func (e *Exporter) Export(ctx context.Context, records []*sdklog.Record) error {
	if len(records) == 0 {
		return nil
	}
	req := &collogspb.ExportLogsServiceRequest{
		ResourceLogs: otlp.ResourceLogsFromSDK(records),
	}
	return otlp.Retry(ctx, e.retry, otlp.RetryableGRPC, func() error {
		_, err := e.client.Export(ctx, req)
		return err
	})
}

func (e *Exporter) Shutdown(ctx context.Context) error {
	return e.conn.Close()
}
