package otlp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RetryConfig controls the retrying wrapper exporters use around a
// single export call (spec.md §4.8).
type RetryConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	// MaxRetries bounds the number of retries after the initial attempt,
	// so Attempts = 1 + MaxRetries (spec.md §4.8/§8).
	MaxRetries uint64
}

// DefaultMaxRetries is spec.md's default retry count.
const DefaultMaxRetries = 3

// DefaultRetryConfig mirrors the OTLP exporter spec's recommended
// full-jitter doubled-base backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialInterval: 5 * time.Second,
		MaxInterval:     30 * time.Second,
		MaxElapsedTime:  time.Minute,
		MaxRetries:      DefaultMaxRetries,
	}
}

// ErrNonRetryable wraps an error that must not be retried (e.g.
// DEADLINE_EXCEEDED, per spec.md §4.8).
type ErrNonRetryable struct{ Err error }

func (e *ErrNonRetryable) Error() string { return e.Err.Error() }
func (e *ErrNonRetryable) Unwrap() error { return e.Err }

// Retry runs fn, retrying with full-jitter doubled-base backoff only for
// errors RetryableGRPC/RetryableHTTP classify as transient. It never
// retries a DEADLINE_EXCEEDED (spec.md §4.8).
func Retry(ctx context.Context, cfg RetryConfig, retryable func(error) bool, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	// backoff jitters symmetrically around its current interval, so a
	// center of 1.5·base with a ±1/3 factor spans [base, 2·base]; doubling
	// per attempt puts retry n in [base·2ⁿ, 2·base·2ⁿ].
	b.InitialInterval = cfg.InitialInterval * 3 / 2
	b.Multiplier = 2
	b.RandomizationFactor = 1.0 / 3
	b.MaxInterval = cfg.MaxInterval
	b.MaxElapsedTime = cfg.MaxElapsedTime
	bctx := backoff.WithContext(b, ctx)
	bounded := backoff.WithMaxRetries(bctx, cfg.MaxRetries)

	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		var nonRetryable *ErrNonRetryable
		if errors.As(err, &nonRetryable) {
			return backoff.Permanent(nonRetryable.Unwrap())
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bounded)
}

// RetryableGRPC classifies a gRPC export error as transient: only
// RESOURCE_EXHAUSTED and UNAVAILABLE are retried; DEADLINE_EXCEEDED and
// everything else is permanent (spec.md §4.8).
func RetryableGRPC(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch st.Code() {
	case codes.ResourceExhausted, codes.Unavailable:
		return true
	default:
		return false
	}
}

// RetryableHTTP classifies an OTLP/HTTP export failure as transient:
// only 429 and 503 are retried (spec.md §4.8).
func RetryableHTTP(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode == http.StatusServiceUnavailable
}
