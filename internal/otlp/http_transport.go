package otlp

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/protobuf/proto"
)

// HTTPConfig configures a shared OTLP/HTTP exporter transport (spec.md
// §4.8).
type HTTPConfig struct {
	Endpoint    string
	URLPath     string
	Insecure    bool
	TLSConfig   *tls.Config
	Headers     map[string]string
	Compression bool
	Timeout     time.Duration
	Retry       RetryConfig
}

// DefaultHTTPConfig is the conventional localhost collector endpoint
// with gzip compression and the default retry policy.
func DefaultHTTPConfig(urlPath string) HTTPConfig {
	return HTTPConfig{
		Endpoint:    "localhost:4318",
		URLPath:     urlPath,
		Compression: true,
		Timeout:     10 * time.Second,
		Retry:       DefaultRetryConfig(),
	}
}

// HTTPClient posts a single protobuf-encoded OTLP request body, applying
// gzip compression, TLS, and endpoint normalization (spec.md §4.8).
type HTTPClient struct {
	cfg    HTTPConfig
	client *http.Client
	url    string
}

// NewHTTPClient builds an HTTPClient from cfg, normalizing the endpoint
// into a full URL against cfg.URLPath.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	scheme := "https"
	if cfg.Insecure {
		scheme = "http"
	}
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if !strings.Contains(endpoint, "://") {
		endpoint = scheme + "://" + endpoint
	}
	path := cfg.URLPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &HTTPClient{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &http.Transport{TLSClientConfig: cfg.TLSConfig},
		},
		url: endpoint + path,
	}
}

// Export marshals msg with proto.Marshal, POSTs the bytes, and returns an *ErrNonRetryable for any response the OTLP/HTTP spec
// says must not be retried.
func (c *HTTPClient) Export(ctx context.Context, msg proto.Message) error {
	body, err := proto.Marshal(msg)
	if err != nil {
		return fmt.Errorf("otlp: marshal request: %w", err)
	}

	var reader io.Reader = bytes.NewReader(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, nil)
	if err != nil {
		return fmt.Errorf("otlp: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-protobuf")
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	if c.cfg.Compression {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(body); err != nil {
			return fmt.Errorf("otlp: gzip request: %w", err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("otlp: gzip request: %w", err)
		}
		reader = &buf
		req.Header.Set("Content-Encoding", "gzip")
	}
	req.Body = io.NopCloser(reader)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("otlp: http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	respBody, _ := io.ReadAll(resp.Body)
	err = fmt.Errorf("otlp: http export failed with status %d: %s", resp.StatusCode, string(respBody))
	if !RetryableHTTP(resp.StatusCode) {
		return &ErrNonRetryable{Err: err}
	}
	return err
}
