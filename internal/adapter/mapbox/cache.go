package mapbox

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/ristretto"

	"github.com/couchcryptid/cap-alert-etl/internal/domain"
	"github.com/couchcryptid/cap-alert-etl/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory ristretto cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *ristretto.Cache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator holding up to maxEntries results.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) (*CachedGeocoder, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(maxEntries) * 10,
		MaxCost:     int64(maxEntries),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create geocode cache: %w", err)
	}
	return &CachedGeocoder{inner: inner, cache: cache, metrics: metrics}, nil
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	key := cacheKey(query)
	if v, ok := c.cache.Get(key); ok {
		if result, ok := v.(domain.GeocodingResult); ok {
			c.metrics.GeocodeCache.WithLabelValues(methodForward, "hit").Inc()
			return result, nil
		}
	}
	c.metrics.GeocodeCache.WithLabelValues(methodForward, "miss").Inc()

	result, err := c.inner.ForwardGeocode(ctx, query)
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if result.FormattedAddress != "" {
		c.cache.Set(key, result, 1)
		c.cache.Wait()
	}
	return result, nil
}

// Close stops the cache's background goroutines.
func (c *CachedGeocoder) Close() {
	c.cache.Close()
}

func cacheKey(query string) string {
	return "fwd:" + strings.ToLower(strings.Join(strings.Fields(query), " "))
}
