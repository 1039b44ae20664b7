package otlp

import (
	"context"
	"crypto/tls"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// GRPCConfig configures a shared OTLP/gRPC connection (spec.md §4.8).
type GRPCConfig struct {
	Endpoint    string
	Insecure    bool
	TLSConfig   *tls.Config
	Headers     map[string]string
	DialTimeout time.Duration
	Retry       RetryConfig
}

// DefaultGRPCConfig is the conventional localhost collector endpoint
// with TLS enabled and the default retry policy.
func DefaultGRPCConfig() GRPCConfig {
	return GRPCConfig{
		Endpoint:    "localhost:4317",
		DialTimeout: 10 * time.Second,
		Retry:       DefaultRetryConfig(),
	}
}

// DialGRPC establishes the shared connection every otlp*grpc exporter
// dials against, applying TLS/insecure and per-RPC metadata headers
// (spec.md §4.8).
func DialGRPC(ctx context.Context, cfg GRPCConfig) (*grpc.ClientConn, error) {
	var creds credentials.TransportCredentials
	if cfg.Insecure {
		creds = insecure.NewCredentials()
	} else {
		creds = credentials.NewTLS(cfg.TLSConfig)
	}
	opts := []grpc.DialOption{grpc.WithTransportCredentials(creds)}
	if len(cfg.Headers) > 0 {
		opts = append(opts, grpc.WithChainUnaryInterceptor(headerInterceptor(cfg.Headers)))
	}
	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	return grpc.DialContext(dialCtx, cfg.Endpoint, opts...)
}

func headerInterceptor(headers map[string]string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, flattenHeaders(headers)...)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func flattenHeaders(headers map[string]string) []string {
	out := make([]string, 0, len(headers)*2)
	for k, v := range headers {
		out = append(out, k, v)
	}
	return out
}
