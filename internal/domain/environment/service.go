package environment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/pawpulse/internal/domain/geo"
	apperrors "github.com/yanqian/pawpulse/pkg/errors"
	"github.com/yanqian/pawpulse/pkg/util"
)

// Service exposes the city scoped environmental signals.
type Service interface {
	SafetyRadar(ctx context.Context, city string) (Radar, error)
	DailyBrief(ctx context.Context, city string) (Brief, error)
}

type service struct {
	geocoder geo.Geocoder
	weather  WeatherClient
	air      AirQualityClient
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the environment domain.
func NewService(geocoder geo.Geocoder, weather WeatherClient, air AirQualityClient, logger *slog.Logger) Service {
	return &service{
		geocoder: geocoder,
		weather:  weather,
		air:      air,
		logger:   logger.With("component", "environment.service"),
		now:      util.NowUTC,
	}
}

func (s *service) SafetyRadar(ctx context.Context, city string) (Radar, error) {
	obs, err := s.observe(ctx, city)
	if err != nil {
		return Radar{}, err
	}
	return Radar{
		Snapshot:     obs.snapshot,
		WalkingIndex: obs.walkingIndex(),
		AirQuality:   obs.airQuality(),
	}, nil
}

func (s *service) DailyBrief(ctx context.Context, city string) (Brief, error) {
	obs, err := s.observe(ctx, city)
	if err != nil {
		return Brief{}, err
	}
	walking := obs.walkingIndex()
	air := obs.airQuality()
	hydration := HydrationRisk(obs.weather)
	coat := CoatStressRisk(obs.weather)
	return Brief{
		Snapshot:       obs.snapshot,
		Date:           obs.at.In(util.IST).Format("2006-01-02"),
		WalkingIndex:   walking,
		AirQuality:     air,
		HydrationRisk:  hydration,
		CoatStressRisk: coat,
		Tips:           briefTips(walking, air, hydration, coat),
	}, nil
}

type observation struct {
	snapshot Snapshot
	weather  WeatherReading
	air      AirReading
	airErr   error
	at       time.Time
}

// observe fetches weather and air quality concurrently. A failure on one side
// only leaves that side's fields nil.
func (s *service) observe(ctx context.Context, city string) (observation, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return observation{}, apperrors.Wrap(apperrors.CodeInvalidInput, "city is required", nil)
	}

	var (
		g   errgroup.Group
		obs = observation{at: s.now()}
	)
	g.Go(func() error {
		reading, err := s.fetchWeather(ctx, city)
		if err != nil {
			s.logger.Warn("weather unavailable", "city", city, "error", err)
			return nil
		}
		obs.weather = reading
		return nil
	})
	g.Go(func() error {
		reading, err := s.air.Latest(ctx, city)
		if err != nil {
			obs.airErr = err
			if !errors.Is(err, ErrUnsupportedCity) && !errors.Is(err, ErrAirQualityDisabled) {
				s.logger.Warn("air quality unavailable", "city", city, "error", err)
			}
			return nil
		}
		obs.air = reading
		return nil
	})
	_ = g.Wait()

	obs.snapshot = Snapshot{
		City:        city,
		Temperature: finite(obs.weather.Temperature),
		Humidity:    finite(obs.weather.Humidity),
		FeelsLike:   finite(obs.weather.FeelsLike),
		PM25:        finite(obs.air.PM25),
		UpdatedAt:   latest(obs.at, obs.weather.ObservedAt, obs.air.ObservedAt).UTC(),
	}
	return obs, nil
}

func (s *service) fetchWeather(ctx context.Context, city string) (WeatherReading, error) {
	point, err := s.geocoder.Geocode(ctx, city)
	if err != nil {
		return WeatherReading{}, err
	}
	if point == nil {
		return WeatherReading{}, apperrors.Wrap(apperrors.CodeUpstream, "city could not be geocoded", nil)
	}
	return s.weather.Current(ctx, point.Lat, point.Lon)
}

func (o observation) known() bool {
	return o.snapshot.Temperature != nil || o.snapshot.Humidity != nil ||
		o.snapshot.FeelsLike != nil || o.snapshot.PM25 != nil
}

func (o observation) walkingIndex() WalkingIndex {
	if !o.known() {
		return UnknownWalkingIndex(o.at)
	}
	return BuildWalkingIndex(o.weather, o.air, o.at)
}

func (o observation) airQuality() AirQuality {
	aq := ClassifyAirQuality(o.snapshot.PM25)
	switch {
	case errors.Is(o.airErr, ErrUnsupportedCity):
		aq.Coverage = CoverageUnsupported
	case o.snapshot.PM25 != nil:
		aq.Coverage = CoverageLive
	default:
		aq.Coverage = CoverageUnavailable
	}
	return aq
}

// FallbackRadar is served when the radar cannot be computed at all.
func FallbackRadar(city string, at time.Time) Radar {
	aq := ClassifyAirQuality(nil)
	aq.Coverage = CoverageUnavailable
	return Radar{
		Snapshot:     Snapshot{City: strings.TrimSpace(city), UpdatedAt: at.UTC()},
		WalkingIndex: UnknownWalkingIndex(at),
		AirQuality:   aq,
	}
}

// FallbackBrief is served when the brief cannot be computed at all.
func FallbackBrief(city string, at time.Time) Brief {
	radar := FallbackRadar(city, at)
	return Brief{
		Snapshot:       radar.Snapshot,
		Date:           at.In(util.IST).Format("2006-01-02"),
		WalkingIndex:   radar.WalkingIndex,
		AirQuality:     radar.AirQuality,
		HydrationRisk:  RiskUnknown,
		CoatStressRisk: RiskUnknown,
		Tips:           briefTips(radar.WalkingIndex, radar.AirQuality, RiskUnknown, RiskUnknown),
	}
}

func briefTips(walking WalkingIndex, air AirQuality, hydration, coat string) []string {
	tips := make([]string, 0, 5)
	switch walking.Status {
	case StatusHighRisk:
		tips = append(tips, "Keep walks short, stay in the shade and test the pavement with your palm before heading out.")
	case StatusCaution:
		tips = append(tips, "Plan walks for "+walking.SafeWindow+" and take breaks in the shade.")
	case StatusUnknown:
		tips = append(tips, "Live conditions are unavailable. Prefer the "+walking.SafeWindow+" window and watch for panting.")
	}
	switch hydration {
	case RiskHigh:
		tips = append(tips, "Carry water and offer small sips every 15 minutes outdoors.")
	case RiskModerate:
		tips = append(tips, "Keep a fresh water bowl ready after every walk.")
	}
	switch coat {
	case RiskHigh:
		tips = append(tips, "Dry the coat fully after walks and check skin folds and paws for irritation.")
	case RiskModerate:
		tips = append(tips, "Brush out loose undercoat to help the skin breathe.")
	}
	if air.Label != "Good" && air.Label != "Unknown" {
		tips = append(tips, air.Advice)
	}
	if len(tips) == 0 {
		tips = append(tips, "Conditions look comfortable. Enjoy a normal walk during "+walking.SafeWindow+".")
	}
	return tips
}

func finite(p *float64) *float64 {
	v, ok := value(p)
	if !ok {
		return nil
	}
	return &v
}

func latest(fallback time.Time, candidates ...time.Time) time.Time {
	var out time.Time
	for _, c := range candidates {
		if c.After(out) {
			out = c
		}
	}
	if out.IsZero() {
		return fallback
	}
	return out
}
