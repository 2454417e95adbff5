package geocache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/isstracker/internal/db"
)

type mockGeocoder struct {
	name  string
	err   error
	calls int
}

func (m *mockGeocoder) Reverse(_ context.Context, _, _ float64) (string, error) {
	m.calls++
	return m.name, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCacheCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_geocode_cache_total",
		Help: "test",
	}, []string{"result"})
}

func newTestCachedGeocoder(t *testing.T, inner *mockGeocoder) (*CachedGeocoder, *mockKVStore, *prometheus.CounterVec) {
	t.Helper()
	ms := &mockKVStore{}
	counter := newTestCacheCounter()
	cg := New(inner, ms, "test:", time.Hour, counter, zap.NewNop())
	return cg, ms, counter
}
