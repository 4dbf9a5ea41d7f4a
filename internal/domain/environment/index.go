package environment

import (
	"math"
	"time"

	"github.com/yanqian/pawpulse/pkg/util"
)

const (
	minScore = 15
	maxScore = 100

	morningWindow = "6:00 AM - 8:00 AM"
	eveningWindow = "6:30 PM - 8:00 PM"
)

type band struct {
	above   float64
	penalty int
}

var (
	temperatureBands = []band{{34, 35}, {30, 25}, {27, 15}}
	humidityBands    = []band{{80, 15}, {70, 10}, {60, 5}}
	pm25Bands        = []band{{120, 30}, {90, 20}, {60, 10}, {30, 5}}
)

// BuildWalkingIndex scores current conditions. Feels-like temperature is
// preferred over the raw reading; unknown inputs carry no penalty.
func BuildWalkingIndex(weather WeatherReading, air AirReading, at time.Time) WalkingIndex {
	score := maxScore
	if temp, ok := effectiveTemperature(weather); ok {
		score -= penalty(temp, temperatureBands)
	}
	if humidity, ok := value(weather.Humidity); ok {
		score -= penalty(humidity, humidityBands)
	}
	if pm25, ok := value(air.PM25); ok {
		score -= penalty(pm25, pm25Bands)
	}
	score = max(minScore, min(maxScore, score))

	return WalkingIndex{
		Score:      score,
		SafeWindow: SafeWindow(at),
		Status:     walkingStatus(score),
	}
}

// UnknownWalkingIndex is used when no signal at all could be fetched.
func UnknownWalkingIndex(at time.Time) WalkingIndex {
	return WalkingIndex{Score: minScore, SafeWindow: SafeWindow(at), Status: StatusUnknown}
}

// SafeWindow picks a fixed walking window from the hour in India Standard
// Time: the next morning slot outside 9:00-17:00, otherwise the evening slot.
func SafeWindow(at time.Time) string {
	hour := at.In(util.IST).Hour()
	if hour < 9 || hour >= 17 {
		return morningWindow
	}
	return eveningWindow
}

func walkingStatus(score int) string {
	switch {
	case score >= 75:
		return StatusGreat
	case score >= 55:
		return StatusCaution
	default:
		return StatusHighRisk
	}
}

// ClassifyAirQuality maps PM2.5 (µg/m³) onto a label with advice.
func ClassifyAirQuality(pm25 *float64) AirQuality {
	v, ok := value(pm25)
	if !ok {
		return AirQuality{
			Label:  "Unknown",
			Status: "Monitor",
			Advice: "Air quality data is unavailable right now. Recheck before long outdoor sessions.",
		}
	}
	switch {
	case v <= 30:
		return AirQuality{Label: "Good", Status: "Safe", Advice: "Air is clean. Normal walks and play are fine."}
	case v <= 60:
		return AirQuality{Label: "Moderate", Status: "Caution", Advice: "Sensitive, senior and flat-faced pets should keep outdoor play moderate."}
	case v <= 90:
		return AirQuality{Label: "Unhealthy", Status: "Limit Outdoor", Advice: "Keep walks short and skip strenuous play outside."}
	case v <= 120:
		return AirQuality{Label: "Very Unhealthy", Status: "Avoid Outdoor", Advice: "Limit outings to quick toilet breaks and play indoors."}
	default:
		return AirQuality{Label: "Hazardous", Status: "Stay Indoors", Advice: "Keep pets indoors with windows closed until the air clears."}
	}
}

// HydrationRisk labels dehydration risk from heat and humidity.
func HydrationRisk(weather WeatherReading) string {
	temp, ok := effectiveTemperature(weather)
	if !ok {
		return RiskUnknown
	}
	humidity, humid := value(weather.Humidity)
	switch {
	case temp >= 33 || (temp >= 30 && humid && humidity >= 70):
		return RiskHigh
	case temp >= 28:
		return RiskModerate
	default:
		return RiskLow
	}
}

// CoatStressRisk labels skin and coat stress from humidity and heat.
func CoatStressRisk(weather WeatherReading) string {
	temp, tempKnown := effectiveTemperature(weather)
	humidity, humid := value(weather.Humidity)
	if !tempKnown && !humid {
		return RiskUnknown
	}
	switch {
	case humid && tempKnown && humidity >= 80 && temp >= 28:
		return RiskHigh
	case (humid && humidity >= 65) || (tempKnown && temp >= 32):
		return RiskModerate
	default:
		return RiskLow
	}
}

func effectiveTemperature(w WeatherReading) (float64, bool) {
	if v, ok := value(w.FeelsLike); ok {
		return v, true
	}
	return value(w.Temperature)
}

func penalty(v float64, bands []band) int {
	for _, b := range bands {
		if v > b.above {
			return b.penalty
		}
	}
	return 0
}

// value unwraps a reading, treating NaN and infinities as unknown.
func value(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0, false
	}
	return *p, true
}
