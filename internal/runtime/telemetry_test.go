package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/mohammad-safakhou/deepresearch/config"
	"github.com/stretchr/testify/require"
)

func TestSetupTelemetryDisabled(t *testing.T) {
	tel, tracer, err := SetupTelemetry(context.Background(), config.TelemetryConfig{}, TelemetryOptions{})
	require.NoError(t, err)
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "noop")
	span.End()
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupTelemetryEnabled(t *testing.T) {
	cfg := config.TelemetryConfig{Enabled: true, ServiceName: "deepresearch-test", OTLPEndpoint: "127.0.0.1:4317"}
	tel, tracer, err := SetupTelemetry(context.Background(), cfg, TelemetryOptions{ServiceVersion: "test"})
	require.NoError(t, err)
	_, span := tracer.Start(context.Background(), "run")
	span.End()
	// no collector is listening, so the flush may fail
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = tel.Shutdown(ctx)
}
