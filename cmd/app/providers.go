package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/pawpulse/internal/domain/geo"
	"github.com/yanqian/pawpulse/internal/domain/linkcheck"
	"github.com/yanqian/pawpulse/internal/domain/petevents"
	"github.com/yanqian/pawpulse/internal/domain/petservices"
	"github.com/yanqian/pawpulse/internal/infra/airquality/openaq"
	"github.com/yanqian/pawpulse/internal/infra/config"
	"github.com/yanqian/pawpulse/internal/infra/fetch"
	"github.com/yanqian/pawpulse/internal/infra/geocache"
	"github.com/yanqian/pawpulse/internal/infra/geocode/nominatim"
	"github.com/yanqian/pawpulse/internal/infra/poi/overpass"
	"github.com/yanqian/pawpulse/internal/infra/search/customsearch"
	"github.com/yanqian/pawpulse/internal/infra/weather/openmeteo"
)

func provideFetchClient(cfg *config.Config) *fetch.Client {
	return fetch.NewClient(fetch.Config{
		Timeout:      cfg.Fetch.Timeout,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		UserAgent:    cfg.Fetch.UserAgent,
	})
}

func provideGeocoder(cfg *config.Config, fetcher *fetch.Client, cache geo.Cache, logger *slog.Logger) geo.Geocoder {
	upstream := nominatim.NewClient(cfg.Upstreams.NominatimURL, fetcher)
	if cache == nil {
		return upstream
	}
	return geo.NewCachedGeocoder(upstream, cache, cfg.GeocodeCache.TTL, logger)
}

// provideGeocodeCache returns the configured store and a cleanup that
// releases the Valkey connection, if one was opened.
func provideGeocodeCache(cfg *config.Config, logger *slog.Logger) (geo.Cache, func()) {
	noop := func() {}
	if !cfg.GeocodeCache.Enabled {
		logger.Info("geocode cache disabled")
		return nil, noop
	}
	if cfg.GeocodeCache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg.GeocodeCache.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return geocache.NewMemoryStore(cfg.GeocodeCache.MaxEntries), noop
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return geocache.NewMemoryStore(cfg.GeocodeCache.MaxEntries), noop
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("geocode valkey cache enabled", "addr", cfg.GeocodeCache.Valkey.Addr)
			return geocache.NewValkeyStore(client, cfg.GeocodeCache.Valkey.Prefix), client.Close
		}
	}
	return geocache.NewMemoryStore(cfg.GeocodeCache.MaxEntries), noop
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideLinkCheckConfig(cfg *config.Config) linkcheck.Config {
	return linkcheck.Config{
		MaxURLs:     cfg.LinkCheck.MaxURLs,
		Concurrency: cfg.LinkCheck.Concurrency,
	}
}

func provideLinkValidator(fetcher *fetch.Client, logger *slog.Logger) *linkcheck.Validator {
	return linkcheck.NewValidator(linkcheck.DefaultPolicies(), fetcher, logger)
}

func provideWeatherClient(cfg *config.Config, fetcher *fetch.Client) *openmeteo.Client {
	return openmeteo.NewClient(cfg.Upstreams.OpenMeteoURL, fetcher)
}

func provideAirQualityClient(cfg *config.Config, fetcher *fetch.Client, logger *slog.Logger) *openaq.Client {
	if strings.TrimSpace(cfg.AirQuality.APIKey) == "" {
		logger.Warn("OPENAQ_API_KEY not set, air quality readings disabled")
	}
	locations := cfg.AirQuality.Locations
	if len(locations) == 0 {
		locations = openaq.DefaultLocations()
	}
	return openaq.NewClient(cfg.Upstreams.OpenAQURL, cfg.AirQuality.APIKey, locations, fetcher)
}

func providePOIClient(cfg *config.Config, fetcher *fetch.Client) *overpass.Client {
	return overpass.NewClient(cfg.Upstreams.OverpassURL, fetcher)
}

func providePetServicesConfig(cfg *config.Config) petservices.Config {
	return petservices.Config{
		RadiusMeters: cfg.Services.RadiusMeters,
		MaxResults:   cfg.Services.MaxResults,
	}
}

func provideSearchClient(cfg *config.Config, fetcher *fetch.Client, logger *slog.Logger) *customsearch.Client {
	client := customsearch.NewClient(cfg.Upstreams.CustomSearchURL, cfg.Search.APIKey, cfg.Search.EngineID, fetcher)
	if !client.Enabled() {
		logger.Warn("search credentials not set, pet event discovery disabled")
	}
	return client
}

func providePetEventsConfig(cfg *config.Config) petevents.Config {
	return petevents.Config{
		SearchResults: cfg.Events.SearchResults,
		MaxEvents:     cfg.Events.MaxEvents,
		Concurrency:   cfg.Events.Concurrency,
	}
}
