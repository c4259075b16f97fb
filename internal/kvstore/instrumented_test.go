package kvstore

import (
	"context"
	"testing"

	"github.com/2beens/gymlog/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedStore(t *testing.T) {
	ctx := context.Background()
	metricsManager := metrics.NewTestManager()
	store := NewInstrumentedStore(NewMemoryStore(), metricsManager)

	require.NoError(t, store.Write(ctx, KeyWorkouts, []byte(`[]`)))
	_, found, err := store.Read(ctx, KeyWorkouts)
	require.NoError(t, err)
	assert.True(t, found)
	_, _, err = store.Read(ctx, KeyWorkoutTemplates)
	require.NoError(t, err)

	// one series per op/key pair
	assert.Equal(t, 3, testutil.CollectAndCount(metricsManager.HistogramStoreDuration))
	assert.NoError(t, store.Close())
}
