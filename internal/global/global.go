// Package global holds the process-wide tracer, meter, and logger
// providers an application installs once at startup and the rest of the
// program looks up through SDK-free accessors (spec.md §4.9's
// "process-wide singletons").
//
// The storage pattern mirrors ddtrace/tracer's global tracer: an
// atomic.Value holding a pointer-to-interface, so concurrent Bootstrap
// and accessor calls never race and an accessor called before any
// Bootstrap still returns a safe, usable implementation.
package global

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	itrace "github.com/dartastic/otelcore-go/trace"

	sdklog "github.com/dartastic/otelcore-go/sdk/log"
	sdkmetric "github.com/dartastic/otelcore-go/sdk/metric"
	sdktrace "github.com/dartastic/otelcore-go/sdk/trace"
)

// DefaultShutdownTimeout bounds the total time Shutdown will wait across
// all three providers.
const DefaultShutdownTimeout = 10 * time.Second

// ErrAlreadyBootstrapped is returned by Bootstrap when the process-wide
// providers have already been installed (spec.md §4.9: "Bootstrap is a
// one-shot operation... Re-initialization is an error").
var ErrAlreadyBootstrapped = errors.New("global: already bootstrapped")

var (
	globalTracerProvider atomic.Value // itrace.TracerProvider
	globalMeterProvider  atomic.Value // *sdkmetric.MeterProvider
	globalLoggerProvider atomic.Value // *sdklog.LoggerProvider

	bootstrapped atomic.Bool
)

func init() {
	var tp itrace.TracerProvider = itrace.NewNoopTracerProvider()
	globalTracerProvider.Store(&tp)
}

// Bootstrap installs tp, mp, and lp as the process-wide providers. It may
// only be called once per process; a second call returns
// ErrAlreadyBootstrapped and leaves the existing providers untouched.
// Callers needing an additional, differently-configured provider should
// construct one directly (e.g. sdktrace.NewTracerProvider) rather than
// re-bootstrap the globals.
func Bootstrap(tp itrace.TracerProvider, mp *sdkmetric.MeterProvider, lp *sdklog.LoggerProvider) error {
	if !bootstrapped.CompareAndSwap(false, true) {
		return ErrAlreadyBootstrapped
	}
	if tp != nil {
		globalTracerProvider.Store(&tp)
	}
	if mp != nil {
		globalMeterProvider.Store(mp)
	}
	if lp != nil {
		globalLoggerProvider.Store(lp)
	}
	return nil
}

// TracerProvider returns the installed TracerProvider, or a no-op
// TracerProvider if Bootstrap has not been called.
func TracerProvider() itrace.TracerProvider {
	return *globalTracerProvider.Load().(*itrace.TracerProvider)
}

// MeterProvider returns the installed MeterProvider, or a freshly
// constructed no-reader MeterProvider (whose meters record but export
// nothing) if Bootstrap has not been called.
func MeterProvider() *sdkmetric.MeterProvider {
	if mp, ok := globalMeterProvider.Load().(*sdkmetric.MeterProvider); ok && mp != nil {
		return mp
	}
	return sdkmetric.NewMeterProvider()
}

// LoggerProvider returns the installed LoggerProvider, or a freshly
// constructed no-processor LoggerProvider if Bootstrap has not been
// called.
func LoggerProvider() *sdklog.LoggerProvider {
	if lp, ok := globalLoggerProvider.Load().(*sdklog.LoggerProvider); ok && lp != nil {
		return lp
	}
	return sdklog.NewLoggerProvider()
}

// Shutdown flushes and shuts down the installed logger, meter, and
// tracer providers in that order (logs and metrics describe a trace's
// final spans, so they drain first) bounded by DefaultShutdownTimeout.
// Providers that were never installed are skipped. The first error
// encountered does not stop later providers from also being shut down;
// it is returned after all three have run.
func Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultShutdownTimeout)
	defer cancel()

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if lp, ok := globalLoggerProvider.Load().(*sdklog.LoggerProvider); ok && lp != nil {
		record(lp.ForceFlush(ctx))
		record(lp.Shutdown(ctx))
	}
	if mp, ok := globalMeterProvider.Load().(*sdkmetric.MeterProvider); ok && mp != nil {
		record(mp.ForceFlush(ctx))
		record(mp.Shutdown(ctx))
	}
	if tpPtr, ok := globalTracerProvider.Load().(*itrace.TracerProvider); ok {
		if tp, ok := (*tpPtr).(*sdktrace.TracerProvider); ok {
			record(tp.ForceFlush(ctx))
			record(tp.Shutdown(ctx))
		}
	}
	return firstErr
}
