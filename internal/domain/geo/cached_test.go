package geo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCachedGeocoderHitsUpstreamOnce(t *testing.T) {
	upstream := &stubGeocoder{point: &Point{Lat: 12.97, Lon: 77.59, DisplayName: "Bengaluru"}}
	cache := newMapCache()
	g := NewCachedGeocoder(upstream, cache, time.Hour, newTestLogger())

	first, err := g.Geocode(context.Background(), "  Bengaluru ")
	require.NoError(t, err)
	second, err := g.Geocode(context.Background(), "bengaluru")
	require.NoError(t, err)

	require.Equal(t, *first, *second)
	require.Equal(t, 1, upstream.calls)
	require.Contains(t, cache.items, "bengaluru")
}

func TestCachedGeocoderSkipsEmptyCity(t *testing.T) {
	upstream := &stubGeocoder{}
	g := NewCachedGeocoder(upstream, newMapCache(), time.Hour, newTestLogger())

	point, err := g.Geocode(context.Background(), "   ")
	require.NoError(t, err)
	require.Nil(t, point)
	require.Zero(t, upstream.calls)
}

func TestCachedGeocoderDoesNotCacheMisses(t *testing.T) {
	upstream := &stubGeocoder{}
	cache := newMapCache()
	g := NewCachedGeocoder(upstream, cache, time.Hour, newTestLogger())

	point, err := g.Geocode(context.Background(), "Atlantis")
	require.NoError(t, err)
	require.Nil(t, point)
	require.Empty(t, cache.items)
}

func TestCachedGeocoderIgnoresCacheFailures(t *testing.T) {
	upstream := &stubGeocoder{point: &Point{Lat: 1, Lon: 2}}
	cache := newMapCache()
	cache.err = errors.New("valkey down")
	g := NewCachedGeocoder(upstream, cache, time.Hour, newTestLogger())

	point, err := g.Geocode(context.Background(), "Pune")
	require.NoError(t, err)
	require.Equal(t, 1.0, point.Lat)
}

func TestCachedGeocoderPropagatesUpstreamError(t *testing.T) {
	upstream := &stubGeocoder{err: errors.New("timeout")}
	g := NewCachedGeocoder(upstream, nil, time.Hour, newTestLogger())

	point, err := g.Geocode(context.Background(), "Pune")
	require.Error(t, err)
	require.Nil(t, point)
}

type stubGeocoder struct {
	point *Point
	err   error
	calls int
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (*Point, error) {
	s.calls++
	return s.point, s.err
}

type mapCache struct {
	items map[string]Point
	err   error
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]Point)}
}

func (m *mapCache) Get(_ context.Context, key string) (Point, bool, error) {
	if m.err != nil {
		return Point{}, false, m.err
	}
	p, ok := m.items[key]
	return p, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, point Point, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.items[key] = point
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
