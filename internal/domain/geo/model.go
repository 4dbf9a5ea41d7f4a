package geo

import (
	"context"
	"time"
)

// Point is a resolved location. It lives for one request unless cached.
type Point struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
}

// Geocoder resolves a free-text city name. A nil point with a nil error means
// the city is empty or unknown upstream.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (*Point, error)
}

// Cache stores resolved points keyed by normalised city name.
type Cache interface {
	Get(ctx context.Context, key string) (Point, bool, error)
	Set(ctx context.Context, key string, point Point, ttl time.Duration) error
}
