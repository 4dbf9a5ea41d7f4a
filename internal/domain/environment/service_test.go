package environment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/pawpulse/internal/domain/geo"
	apperrors "github.com/yanqian/pawpulse/pkg/errors"
)

type stubGeocoder struct {
	point *geo.Point
	err   error
}

func (s stubGeocoder) Geocode(context.Context, string) (*geo.Point, error) {
	return s.point, s.err
}

type gate struct {
	started chan<- struct{}
	release <-chan struct{}
}

func (g gate) pass(ctx context.Context) error {
	if g.started == nil {
		return nil
	}
	g.started <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type stubWeather struct {
	reading WeatherReading
	err     error
	gotLat  float64
	gate    gate
}

func (s *stubWeather) Current(ctx context.Context, lat, _ float64) (WeatherReading, error) {
	s.gotLat = lat
	if err := s.gate.pass(ctx); err != nil {
		return WeatherReading{}, err
	}
	return s.reading, s.err
}

type stubAir struct {
	reading AirReading
	err     error
	gate    gate
}

func (s *stubAir) Latest(ctx context.Context, _ string) (AirReading, error) {
	if err := s.gate.pass(ctx); err != nil {
		return AirReading{}, err
	}
	return s.reading, s.err
}

var fixedNow = time.Date(2024, 5, 20, 6, 30, 0, 0, time.UTC) // 12:00 IST

func newTestService(geocoder geo.Geocoder, weather WeatherClient, air AirQualityClient) *service {
	return &service{
		geocoder: geocoder,
		weather:  weather,
		air:      air,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      func() time.Time { return fixedNow },
	}
}

func TestSafetyRadarMergesSignals(t *testing.T) {
	observed := fixedNow.Add(-10 * time.Minute)
	weather := &stubWeather{reading: WeatherReading{Temperature: ptr(33), Humidity: ptr(85), FeelsLike: ptr(36), ObservedAt: observed}}
	air := &stubAir{reading: AirReading{PM25: ptr(100), ObservedAt: observed.Add(-time.Hour)}}
	svc := newTestService(stubGeocoder{point: &geo.Point{Lat: 19.07, Lon: 72.87}}, weather, air)

	radar, err := svc.SafetyRadar(context.Background(), " Mumbai ")
	require.NoError(t, err)
	require.Equal(t, "Mumbai", radar.City)
	require.Equal(t, 19.07, weather.gotLat)
	require.Equal(t, 36.0, *radar.FeelsLike)
	require.Equal(t, 100.0, *radar.PM25)
	require.Equal(t, observed, radar.UpdatedAt)
	require.Equal(t, 30, radar.WalkingIndex.Score)
	require.Equal(t, StatusHighRisk, radar.WalkingIndex.Status)
	require.Equal(t, eveningWindow, radar.WalkingIndex.SafeWindow)
	require.Equal(t, "Very Unhealthy", radar.AirQuality.Label)
	require.Equal(t, CoverageLive, radar.AirQuality.Coverage)
}

func TestSafetyRadarWeatherFailureKeepsAirQuality(t *testing.T) {
	weather := &stubWeather{}
	air := &stubAir{reading: AirReading{PM25: ptr(20)}}
	svc := newTestService(stubGeocoder{err: errors.New("geocoder down")}, weather, air)

	radar, err := svc.SafetyRadar(context.Background(), "Pune")
	require.NoError(t, err)
	require.Nil(t, radar.Temperature)
	require.Nil(t, radar.FeelsLike)
	require.Equal(t, 20.0, *radar.PM25)
	require.Equal(t, "Good", radar.AirQuality.Label)
	require.Equal(t, 100, radar.WalkingIndex.Score)
	require.Equal(t, fixedNow, radar.UpdatedAt)
}

func TestSafetyRadarUnsupportedCity(t *testing.T) {
	weather := &stubWeather{reading: WeatherReading{Temperature: ptr(24), Humidity: ptr(50)}}
	air := &stubAir{err: ErrUnsupportedCity}
	svc := newTestService(stubGeocoder{point: &geo.Point{}}, weather, air)

	radar, err := svc.SafetyRadar(context.Background(), "Shimla")
	require.NoError(t, err)
	require.Nil(t, radar.PM25)
	require.Equal(t, "Unknown", radar.AirQuality.Label)
	require.Equal(t, "Monitor", radar.AirQuality.Status)
	require.Equal(t, CoverageUnsupported, radar.AirQuality.Coverage)
	require.Equal(t, StatusGreat, radar.WalkingIndex.Status)
}

func TestSafetyRadarAllUpstreamsDown(t *testing.T) {
	svc := newTestService(stubGeocoder{}, &stubWeather{}, &stubAir{err: errors.New("timeout")})

	radar, err := svc.SafetyRadar(context.Background(), "Delhi")
	require.NoError(t, err)
	require.Equal(t, StatusUnknown, radar.WalkingIndex.Status)
	require.Equal(t, minScore, radar.WalkingIndex.Score)
	require.Equal(t, CoverageUnavailable, radar.AirQuality.Coverage)
}

func TestSafetyRadarFetchesConcurrently(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	g := gate{started: started, release: release}
	weather := &stubWeather{reading: WeatherReading{Temperature: ptr(24)}, gate: g}
	air := &stubAir{reading: AirReading{PM25: ptr(10)}, gate: g}
	svc := newTestService(stubGeocoder{point: &geo.Point{}}, weather, air)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan Radar, 1)
	go func() {
		radar, _ := svc.SafetyRadar(ctx, "Chennai")
		done <- radar
	}()

	// Both upstream calls must be in flight before either is released.
	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-ctx.Done():
			t.Fatal("weather and air quality were not fetched concurrently")
		}
	}
	close(release)
	radar := <-done
	require.Equal(t, 10.0, *radar.PM25)
	require.Equal(t, 24.0, *radar.Temperature)
}

func TestSafetyRadarRequiresCity(t *testing.T) {
	svc := newTestService(stubGeocoder{}, &stubWeather{}, &stubAir{})
	_, err := svc.SafetyRadar(context.Background(), "  ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestDailyBrief(t *testing.T) {
	weather := &stubWeather{reading: WeatherReading{Temperature: ptr(31), Humidity: ptr(82), FeelsLike: ptr(35)}}
	air := &stubAir{reading: AirReading{PM25: ptr(70)}}
	svc := newTestService(stubGeocoder{point: &geo.Point{}}, weather, air)

	brief, err := svc.DailyBrief(context.Background(), "Kolkata")
	require.NoError(t, err)
	require.Equal(t, "2024-05-20", brief.Date)
	require.Equal(t, RiskHigh, brief.HydrationRisk)
	require.Equal(t, RiskHigh, brief.CoatStressRisk)
	require.Equal(t, "Unhealthy", brief.AirQuality.Label)
	require.Equal(t, 100-35-15-10, brief.WalkingIndex.Score)
	require.Contains(t, brief.Tips, brief.AirQuality.Advice)
	require.GreaterOrEqual(t, len(brief.Tips), 4)
}

func TestDailyBriefComfortableDay(t *testing.T) {
	weather := &stubWeather{reading: WeatherReading{Temperature: ptr(22), Humidity: ptr(40)}}
	air := &stubAir{reading: AirReading{PM25: ptr(12)}}
	svc := newTestService(stubGeocoder{point: &geo.Point{}}, weather, air)

	brief, err := svc.DailyBrief(context.Background(), "Bengaluru")
	require.NoError(t, err)
	require.Equal(t, RiskLow, brief.HydrationRisk)
	require.Equal(t, RiskLow, brief.CoatStressRisk)
	require.Len(t, brief.Tips, 1)
}

func TestFallbackPayloads(t *testing.T) {
	radar := FallbackRadar(" Goa ", fixedNow)
	require.Equal(t, "Goa", radar.City)
	require.Nil(t, radar.Temperature)
	require.Nil(t, radar.PM25)
	require.Equal(t, "Unknown", radar.AirQuality.Label)
	require.Equal(t, "Monitor", radar.AirQuality.Status)
	require.Equal(t, StatusUnknown, radar.WalkingIndex.Status)

	brief := FallbackBrief("Goa", fixedNow)
	require.Equal(t, RiskUnknown, brief.HydrationRisk)
	require.Equal(t, RiskUnknown, brief.CoatStressRisk)
	require.NotEmpty(t, brief.Tips)
	require.Equal(t, "2024-05-20", brief.Date)
}
