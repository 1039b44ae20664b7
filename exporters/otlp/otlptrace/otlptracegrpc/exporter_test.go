package otlptracegrpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDialsWithoutBlocking(t *testing.T) {
	exp, err := New(context.Background(), WithEndpoint("localhost:4317"), WithInsecure())
	require.NoError(t, err)
	require.NotNil(t, exp)
	require.NoError(t, exp.Shutdown(context.Background()))
}

func TestExportSpansNoopsOnEmptyInput(t *testing.T) {
	exp, err := New(context.Background(), WithInsecure())
	require.NoError(t, err)
	defer exp.Shutdown(context.Background())

	require.NoError(t, exp.ExportSpans(context.Background(), nil))
}
