package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/pawpulse/internal/domain/environment"
	"github.com/yanqian/pawpulse/internal/infra/fetch"
)

const (
	defaultBaseURL  = "https://api.open-meteo.com"
	currentFields   = "temperature_2m,relative_humidity_2m,apparent_temperature"
	localTimeLayout = "2006-01-02T15:04"
)

// Client reads current conditions from the Open-Meteo forecast API.
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

// Current implements environment.WeatherClient.
func (c *Client) Current(ctx context.Context, lat, lon float64) (environment.WeatherReading, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	query.Set("current", currentFields)
	query.Set("timezone", "auto")
	endpoint := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, query.Encode())

	var raw forecastResponse
	if err := c.fetcher.GetJSON(ctx, "open-meteo", endpoint, nil, &raw); err != nil {
		return environment.WeatherReading{}, fmt.Errorf("weather request: %w", err)
	}
	if raw.Error {
		return environment.WeatherReading{}, fmt.Errorf("weather api error: %s", raw.Reason)
	}
	return environment.WeatherReading{
		Temperature: raw.Current.Temperature,
		Humidity:    raw.Current.Humidity,
		FeelsLike:   raw.Current.ApparentTemperature,
		ObservedAt:  parseLocalTime(raw.Current.Time, raw.UTCOffsetSeconds),
	}, nil
}

type forecastResponse struct {
	Error            bool    `json:"error"`
	Reason           string  `json:"reason"`
	UTCOffsetSeconds int     `json:"utc_offset_seconds"`
	Current          current `json:"current"`
}

type current struct {
	Time                string   `json:"time"`
	Temperature         *float64 `json:"temperature_2m"`
	Humidity            *float64 `json:"relative_humidity_2m"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
}

// parseLocalTime reads Open-Meteo's offset-less local timestamps.
func parseLocalTime(value string, offsetSeconds int) time.Time {
	if strings.TrimSpace(value) == "" {
		return time.Time{}
	}
	ts, err := time.ParseInLocation(localTimeLayout, value, time.FixedZone("", offsetSeconds))
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

var _ environment.WeatherClient = (*Client)(nil)
