package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/eartune/internal/telemetry"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "eartune-test", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, shutdown(ctx), "noop shutdown ignores a cancelled context")
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no export happens.
	shutdown, err := telemetry.Setup(context.Background(), "eartune-test", "http://192.0.2.1:4318")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTracer_StartsSpans(t *testing.T) {
	ctx, span := telemetry.Tracer().Start(context.Background(), "check")
	defer span.End()
	assert.NotNil(t, ctx)
}
