package geo

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// CachedGeocoder memoises successful lookups. Cache errors are logged and
// never fail a lookup.
type CachedGeocoder struct {
	next   Geocoder
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedGeocoder decorates next with cache. A nil cache disables caching.
func NewCachedGeocoder(next Geocoder, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "geo.cache"),
	}
}

// Geocode implements Geocoder.
func (g *CachedGeocoder) Geocode(ctx context.Context, city string) (*Point, error) {
	key := CacheKey(city)
	if key == "" {
		return nil, nil
	}
	if g.cache != nil {
		point, ok, err := g.cache.Get(ctx, key)
		if err != nil {
			g.logger.Warn("geocode cache read failed", "city", city, "error", err)
		} else if ok {
			return &point, nil
		}
	}

	point, err := g.next.Geocode(ctx, city)
	if err != nil || point == nil {
		return point, err
	}
	if g.cache != nil {
		if err := g.cache.Set(ctx, key, *point, g.ttl); err != nil {
			g.logger.Warn("geocode cache write failed", "city", city, "error", err)
		}
	}
	return point, nil
}

// CacheKey normalises a city name for cache lookups.
func CacheKey(city string) string {
	return strings.Join(strings.Fields(strings.ToLower(city)), " ")
}
