package global

import (
	"context"
	"sync/atomic"
	"testing"

	sdklog "github.com/dartastic/otelcore-go/sdk/log"
	sdkmetric "github.com/dartastic/otelcore-go/sdk/metric"
	sdktrace "github.com/dartastic/otelcore-go/sdk/trace"
	itrace "github.com/dartastic/otelcore-go/trace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetForTest restores package state between tests; Bootstrap is
// one-shot in production but these tests each need a clean slate.
func resetForTest(t *testing.T) {
	t.Helper()
	bootstrapped.Store(false)
	var tp itrace.TracerProvider = itrace.NewNoopTracerProvider()
	globalTracerProvider.Store(&tp)
	globalMeterProvider = atomic.Value{}
	globalLoggerProvider = atomic.Value{}
}

func TestTracerProviderDefaultsToNoop(t *testing.T) {
	resetForTest(t)
	tp := TracerProvider()
	require.NotNil(t, tp)
	tracer := tp.Tracer("test")
	_, span := tracer.Start(context.Background(), "op")
	assert.False(t, span.IsRecording())
}

func TestBootstrapIsObservedByGetAccessors(t *testing.T) {
	resetForTest(t)
	tp := sdktrace.NewTracerProvider()
	mp := sdkmetric.NewMeterProvider()
	lp := sdklog.NewLoggerProvider()

	require.NoError(t, Bootstrap(tp, mp, lp))
	assert.Same(t, tp, TracerProvider())
	assert.Same(t, mp, MeterProvider())
	assert.Same(t, lp, LoggerProvider())
}

func TestBootstrapRejectsReinitialization(t *testing.T) {
	resetForTest(t)
	require.NoError(t, Bootstrap(sdktrace.NewTracerProvider(), nil, nil))

	err := Bootstrap(sdktrace.NewTracerProvider(), nil, nil)
	assert.ErrorIs(t, err, ErrAlreadyBootstrapped)
}

func TestMeterProviderDefaultsToUsableNoReaderProvider(t *testing.T) {
	resetForTest(t)
	mp := MeterProvider()
	require.NotNil(t, mp)
	counter, err := mp.Meter("test").Int64Counter("requests")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)
}

func TestShutdownSkipsProvidersThatWereNeverInstalled(t *testing.T) {
	resetForTest(t)
	err := Shutdown(context.Background())
	assert.NoError(t, err)
}

func TestShutdownFlushesBootstrappedProviders(t *testing.T) {
	resetForTest(t)
	require.NoError(t, Bootstrap(sdktrace.NewTracerProvider(), sdkmetric.NewMeterProvider(), sdklog.NewLoggerProvider()))

	assert.NoError(t, Shutdown(context.Background()))
}
