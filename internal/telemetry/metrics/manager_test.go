package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_Counters(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()
	require.NotNil(t, m)

	m.CounterWorkoutsSaved.Inc()
	m.CounterWorkoutsSaved.Inc()
	m.CounterRecordsImproved.With(prometheus.Labels{"exercise_id": "free-deadlift"}).Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CounterWorkoutsSaved))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterRecordsImproved.WithLabelValues("free-deadlift")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.CounterTemplatesCreated))

	count, err := testutil.GatherAndCount(reg, "gymlog_test_workouts_saved")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSetupPrometheus(t *testing.T) {
	m, _ := NewTestManagerAndRegistry()
	reg := SetupPrometheus(nil)
	require.NotNil(t, reg)

	// extra collectors are registered next to the default ones
	reg = SetupPrometheus(m.CounterWorkoutsDeleted)
	m.CounterWorkoutsDeleted.Inc()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}
