// Package geocache caches reverse-geocoding results in keyed storage.
package geocache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/isstracker/internal/db"
	"github.com/kailas-cloud/isstracker/internal/domain"
)

const geoNamespace = "geo:"

// coordPrecision rounds cache keys to 4 decimal places (about 11 m).
const coordPrecision = 4

// store is the consumer interface for the geocode cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedGeocoder caches place names in a key-value store.
type CachedGeocoder struct {
	inner      domain.Geocoder
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Geocoder,
	s store,
	keyPrefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedGeocoder {
	return &CachedGeocoder{
		inner:      inner,
		store:      s,
		prefix:     keyPrefix + geoNamespace,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Reverse returns a cached place name or calls the inner geocoder.
// Empty results are not cached, so "no place" answers are retried.
func (c *CachedGeocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	key := c.cacheKey(lat, lon)

	if name, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return name, nil
	}

	c.incCache("miss")

	name, err := c.inner.Reverse(ctx, lat, lon)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}

	if name != "" {
		c.putToCache(ctx, key, name)
	}
	return name, nil
}

func (c *CachedGeocoder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedGeocoder) cacheKey(lat, lon float64) string {
	return c.prefix +
		strconv.FormatFloat(lat, 'f', coordPrecision, 64) + "," +
		strconv.FormatFloat(lon, 'f', coordPrecision, 64)
}

func (c *CachedGeocoder) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached place", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedGeocoder) putToCache(ctx context.Context, key, name string) {
	if err := c.store.SetWithTTL(ctx, key, []byte(name), c.ttl); err != nil {
		c.logger.Warn("Failed to cache place", zap.String("key", key), zap.Error(err))
	}
}
