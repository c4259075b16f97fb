package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/gymlog/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMetrics(t *testing.T) {
	metricsManager, reg := metrics.NewTestManagerAndRegistry()

	r := mux.NewRouter()
	r.HandleFunc("/workouts/{id}", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["id"] == "missing" {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	r.Use(RequestMetrics(metricsManager))

	for _, id := range []string{"w-1", "w-2", "missing"} {
		req, err := http.NewRequest("GET", "/workouts/"+id, nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRequests.WithLabelValues("GET", "404")))

	// a single route template label for all three ids
	count, err := testutil.GatherAndCount(reg, "gymlog_test_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
