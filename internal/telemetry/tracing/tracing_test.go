package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestHoneycombSetup_Disabled(t *testing.T) {
	shutdown, err := HoneycombSetup(false, "gymlog-test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NotPanics(t, shutdown)
}

func TestEndSpanWithErrCheck(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")

	_, span := tracer.Start(context.Background(), "ok")
	assert.NotPanics(t, func() { EndSpanWithErrCheck(span, nil) })

	_, span = tracer.Start(context.Background(), "failed")
	assert.NotPanics(t, func() { EndSpanWithErrCheck(span, errors.New("store unavailable")) })
}
