package kvstore

import (
	"context"
	"time"

	"github.com/2beens/gymlog/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Store = (*InstrumentedStore)(nil)

// InstrumentedStore observes read/write durations of the wrapped store.
type InstrumentedStore struct {
	inner          Store
	metricsManager *metrics.Manager
}

func NewInstrumentedStore(inner Store, metricsManager *metrics.Manager) *InstrumentedStore {
	return &InstrumentedStore{
		inner:          inner,
		metricsManager: metricsManager,
	}
}

func (s *InstrumentedStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	defer s.observe("read", key, time.Now())
	return s.inner.Read(ctx, key)
}

func (s *InstrumentedStore) Write(ctx context.Context, key string, value []byte) error {
	defer s.observe("write", key, time.Now())
	return s.inner.Write(ctx, key, value)
}

func (s *InstrumentedStore) observe(op, key string, begin time.Time) {
	s.metricsManager.HistogramStoreDuration.With(prometheus.Labels{
		"op":  op,
		"key": key,
	}).Observe(time.Since(begin).Seconds())
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}
