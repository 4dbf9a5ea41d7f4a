package environment

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnsupportedCity reports a city missing from the air-quality location table.
	ErrUnsupportedCity = errors.New("environment: city not covered by air-quality source")
	// ErrAirQualityDisabled reports that no air-quality credentials are configured.
	ErrAirQualityDisabled = errors.New("environment: air-quality source not configured")
)

// Walking index status labels.
const (
	StatusGreat    = "Great"
	StatusCaution  = "Caution"
	StatusHighRisk = "High Risk"
	StatusUnknown  = "Unknown"
)

// Air-quality coverage values.
const (
	CoverageLive        = "live"
	CoverageUnsupported = "unsupported"
	CoverageUnavailable = "unavailable"
)

// Risk labels shared by hydration and coat stress.
const (
	RiskHigh     = "High"
	RiskModerate = "Moderate"
	RiskLow      = "Low"
	RiskUnknown  = "Unknown"
)

// WeatherReading is the current weather at a point. Nil fields are unknown.
type WeatherReading struct {
	Temperature *float64
	Humidity    *float64
	FeelsLike   *float64
	ObservedAt  time.Time
}

// AirReading is the latest PM2.5 value for a city.
type AirReading struct {
	PM25       *float64
	Location   string
	ObservedAt time.Time
}

// WeatherClient fetches current conditions for coordinates.
type WeatherClient interface {
	Current(ctx context.Context, lat, lon float64) (WeatherReading, error)
}

// AirQualityClient fetches the latest PM2.5 for a city. It returns
// ErrUnsupportedCity or ErrAirQualityDisabled when it cannot serve the city.
type AirQualityClient interface {
	Latest(ctx context.Context, city string) (AirReading, error)
}

// Snapshot is the merged per-request view of one city's conditions.
type Snapshot struct {
	City        string    `json:"city"`
	Temperature *float64  `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	FeelsLike   *float64  `json:"feelsLike"`
	PM25        *float64  `json:"pm25"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WalkingIndex scores how safe it is to walk a pet right now.
type WalkingIndex struct {
	Score      int    `json:"score"`
	SafeWindow string `json:"safeWindow"`
	Status     string `json:"status"`
}

// AirQuality is the categorical PM2.5 reading.
type AirQuality struct {
	Label    string `json:"label"`
	Status   string `json:"status"`
	Advice   string `json:"advice"`
	Coverage string `json:"coverage,omitempty"`
}

// Radar is the safety-radar payload.
type Radar struct {
	Snapshot
	WalkingIndex WalkingIndex `json:"walkingIndex"`
	AirQuality   AirQuality   `json:"airQuality"`
}

// Brief is the daily pet-care brief.
type Brief struct {
	Snapshot
	Date           string       `json:"date"`
	WalkingIndex   WalkingIndex `json:"walkingIndex"`
	AirQuality     AirQuality   `json:"airQuality"`
	HydrationRisk  string       `json:"hydrationRisk"`
	CoatStressRisk string       `json:"coatStressRisk"`
	Tips           []string     `json:"tips"`
}
