package openaq

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/pawpulse/internal/domain/environment"
	"github.com/yanqian/pawpulse/internal/infra/fetch"
)

const (
	defaultBaseURL = "https://api.openaq.org"
	pm25Parameter  = "pm25"
)

// DefaultLocations maps lower-case city names to OpenAQ v3 location ids of a
// representative reference-grade monitor.
func DefaultLocations() map[string]int {
	return map[string]int{
		"delhi":     8118,
		"new delhi": 8118,
		"mumbai":    6945,
		"bengaluru": 5548,
		"bangalore": 5548,
		"chennai":   5653,
		"kolkata":   6093,
		"hyderabad": 5576,
		"pune":      8172,
		"ahmedabad": 5528,
		"jaipur":    5695,
		"lucknow":   6163,
		"gurugram":  10600,
		"gurgaon":   10600,
		"noida":     8661,
	}
}

// Client reads the latest PM2.5 value for a configured city.
type Client struct {
	baseURL   string
	apiKey    string
	locations map[string]int
	fetcher   *fetch.Client
}

// NewClient builds an API client. A nil location table uses DefaultLocations.
func NewClient(baseURL, apiKey string, locations map[string]int, fetcher *fetch.Client) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if locations == nil {
		locations = DefaultLocations()
	}
	table := make(map[string]int, len(locations))
	for city, id := range locations {
		table[normalizeCity(city)] = id
	}
	return &Client{
		baseURL:   strings.TrimRight(base, "/"),
		apiKey:    strings.TrimSpace(apiKey),
		locations: table,
		fetcher:   fetcher,
	}
}

// Latest implements environment.AirQualityClient.
func (c *Client) Latest(ctx context.Context, city string) (environment.AirReading, error) {
	if c.apiKey == "" {
		return environment.AirReading{}, environment.ErrAirQualityDisabled
	}
	id, ok := c.locations[normalizeCity(city)]
	if !ok {
		return environment.AirReading{}, environment.ErrUnsupportedCity
	}

	endpoint := fmt.Sprintf("%s/v3/locations/%d/sensors", c.baseURL, id)
	header := http.Header{}
	header.Set("X-API-Key", c.apiKey)

	var raw sensorsResponse
	if err := c.fetcher.GetJSON(ctx, "openaq", endpoint, header, &raw); err != nil {
		return environment.AirReading{}, fmt.Errorf("air quality request: %w", err)
	}

	reading := environment.AirReading{Location: fmt.Sprintf("openaq:%d", id)}
	for _, s := range raw.Results {
		if s.Parameter.Name != pm25Parameter || s.Latest == nil || s.Latest.Value == nil {
			continue
		}
		observed := parseTime(s.Latest.Datetime.UTC)
		if reading.PM25 != nil && !observed.After(reading.ObservedAt) {
			continue
		}
		reading.PM25 = s.Latest.Value
		reading.ObservedAt = observed
	}
	return reading, nil
}

type sensorsResponse struct {
	Results []sensor `json:"results"`
}

type sensor struct {
	ID        int       `json:"id"`
	Parameter parameter `json:"parameter"`
	Latest    *latest   `json:"latest"`
}

type parameter struct {
	Name  string `json:"name"`
	Units string `json:"units"`
}

type latest struct {
	Datetime struct {
		UTC string `json:"utc"`
	} `json:"datetime"`
	Value *float64 `json:"value"`
}

func normalizeCity(city string) string {
	return strings.Join(strings.Fields(strings.ToLower(city)), " ")
}

func parseTime(value string) time.Time {
	if strings.TrimSpace(value) == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

var _ environment.AirQualityClient = (*Client)(nil)
