package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/pawpulse/internal/domain/geo"
	"github.com/yanqian/pawpulse/internal/infra/fetch"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	countryHint    = "India"
)

// Client resolves city names with the OpenStreetMap Nominatim API.
type Client struct {
	baseURL string
	fetcher *fetch.Client
}

// NewClient builds an API client.
func NewClient(baseURL string, fetcher *fetch.Client) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{baseURL: strings.TrimRight(base, "/"), fetcher: fetcher}
}

// Geocode implements geo.Geocoder. Empty input and zero results yield nil.
func (c *Client) Geocode(ctx context.Context, city string) (*geo.Point, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, nil
	}

	query := url.Values{}
	query.Set("format", "json")
	query.Set("limit", "1")
	query.Set("q", withCountryHint(city))
	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, query.Encode())

	var places []place
	if err := c.fetcher.GetJSON(ctx, "nominatim", endpoint, nil, &places); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", city, err)
	}
	if len(places) == 0 {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", places[0].Lon, err)
	}
	return &geo.Point{Lat: lat, Lon: lon, DisplayName: places[0].DisplayName}, nil
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func withCountryHint(city string) string {
	if strings.Contains(strings.ToLower(city), strings.ToLower(countryHint)) {
		return city
	}
	return city + ", " + countryHint
}

var _ geo.Geocoder = (*Client)(nil)
