package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Fetch        FetchConfig        `yaml:"fetch"`
	Upstreams    UpstreamsConfig    `yaml:"upstreams"`
	AirQuality   AirQualityConfig   `yaml:"airQuality"`
	Search       SearchConfig       `yaml:"search"`
	GeocodeCache GeocodeCacheConfig `yaml:"geocodeCache"`
	LinkCheck    LinkCheckConfig    `yaml:"linkCheck"`
	Services     ServicesConfig     `yaml:"services"`
	Events       EventsConfig       `yaml:"events"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	// AllowedOrigins feeds CORS; empty allows any origin.
	AllowedOrigins []string `yaml:"allowedOrigins"`
	// TrustedProxies may set X-Forwarded-For; empty trusts none and the
	// limiter keys on the socket address.
	TrustedProxies []string `yaml:"trustedProxies"`
}

// RateLimitConfig drives the per-client request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// FetchConfig bounds every outbound call.
type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes"`
	UserAgent    string        `yaml:"userAgent"`
}

// UpstreamsConfig overrides third-party API base URLs.
type UpstreamsConfig struct {
	NominatimURL    string `yaml:"nominatimUrl"`
	OverpassURL     string `yaml:"overpassUrl"`
	OpenMeteoURL    string `yaml:"openMeteoUrl"`
	OpenAQURL       string `yaml:"openAqUrl"`
	CustomSearchURL string `yaml:"customSearchUrl"`
}

// AirQualityConfig holds the OpenAQ key and city to location id table. An
// empty table falls back to the built-in defaults.
type AirQualityConfig struct {
	APIKey    string         `yaml:"apiKey"`
	Locations map[string]int `yaml:"locations"`
}

// SearchConfig holds the optional web search credentials.
type SearchConfig struct {
	APIKey   string `yaml:"apiKey"`
	EngineID string `yaml:"engineId"`
}

// GeocodeCacheConfig controls caching of resolved cities.
type GeocodeCacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"maxEntries"`
	Valkey     ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the shared cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// LinkCheckConfig limits URL validation batches.
type LinkCheckConfig struct {
	MaxURLs     int `yaml:"maxUrls"`
	Concurrency int `yaml:"concurrency"`
}

// ServicesConfig tunes the nearby services resolver.
type ServicesConfig struct {
	RadiusMeters int `yaml:"radiusMeters"`
	MaxResults   int `yaml:"maxResults"`
}

// EventsConfig tunes pet event discovery.
type EventsConfig struct {
	SearchResults int `yaml:"searchResults"`
	MaxEvents     int `yaml:"maxEvents"`
	Concurrency   int `yaml:"concurrency"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_TRUSTED_PROXIES"); v != "" {
		cfg.HTTP.TrustedProxies = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Fetch.Timeout = parsed
		}
	}
	if v := os.Getenv("FETCH_USER_AGENT"); v != "" {
		cfg.Fetch.UserAgent = v
	}
	if v := os.Getenv("NOMINATIM_URL"); v != "" {
		cfg.Upstreams.NominatimURL = v
	}
	if v := os.Getenv("OVERPASS_URL"); v != "" {
		cfg.Upstreams.OverpassURL = v
	}
	if v := os.Getenv("OPEN_METEO_URL"); v != "" {
		cfg.Upstreams.OpenMeteoURL = v
	}
	if v := os.Getenv("OPENAQ_URL"); v != "" {
		cfg.Upstreams.OpenAQURL = v
	}
	if v := os.Getenv("CUSTOM_SEARCH_URL"); v != "" {
		cfg.Upstreams.CustomSearchURL = v
	}
	if v := os.Getenv("OPENAQ_API_KEY"); v != "" {
		cfg.AirQuality.APIKey = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_API_KEY"); v != "" {
		cfg.Search.APIKey = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_ENGINE_ID"); v != "" {
		cfg.Search.EngineID = v
	}
	if v := os.Getenv("GEOCODE_CACHE_ENABLED"); v != "" {
		cfg.GeocodeCache.Enabled = parseBool(v)
	}
	if v := os.Getenv("GEOCODE_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.GeocodeCache.TTL = parsed
		}
	}
	if v := os.Getenv("GEOCODE_CACHE_MAX_ENTRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.GeocodeCache.MaxEntries = parsed
		}
	}
	if v := os.Getenv("GEOCODE_CACHE_VALKEY_ENABLED"); v != "" {
		cfg.GeocodeCache.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("GEOCODE_CACHE_VALKEY_ADDR"); v != "" {
		cfg.GeocodeCache.Valkey.Addr = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8787",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Fetch: FetchConfig{
			Timeout:      6500 * time.Millisecond,
			MaxBodyBytes: 1 << 20,
			UserAgent:    "PawPulse/1.0 (+https://pawpulse.app)",
		},
		Upstreams: UpstreamsConfig{
			NominatimURL:    "https://nominatim.openstreetmap.org",
			OverpassURL:     "https://overpass-api.de",
			OpenMeteoURL:    "https://api.open-meteo.com",
			OpenAQURL:       "https://api.openaq.org",
			CustomSearchURL: "https://www.googleapis.com",
		},
		GeocodeCache: GeocodeCacheConfig{
			Enabled:    false,
			TTL:        24 * time.Hour,
			MaxEntries: 1024,
			Valkey: ValkeyConfig{
				Enabled: false,
				Prefix:  "pawpulse:geocode",
			},
		},
		LinkCheck: LinkCheckConfig{
			MaxURLs:     40,
			Concurrency: 6,
		},
		Services: ServicesConfig{
			RadiusMeters: 7000,
			MaxResults:   12,
		},
		Events: EventsConfig{
			SearchResults: 10,
			MaxEvents:     8,
			Concurrency:   4,
		},
	}
}

// Validate ensures the configuration is safe to use. Missing air-quality or
// search credentials are allowed; those features degrade instead.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Fetch.Timeout <= 0 {
		return errors.New("fetch.timeout must be positive")
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		return errors.New("fetch.maxBodyBytes must be positive")
	}
	if c.GeocodeCache.TTL < 0 {
		return errors.New("geocodeCache.ttl cannot be negative")
	}
	if c.GeocodeCache.Valkey.Enabled && strings.TrimSpace(c.GeocodeCache.Valkey.Addr) == "" {
		return errors.New("geocodeCache.valkey.addr cannot be empty when valkey cache is enabled")
	}
	for city, id := range c.AirQuality.Locations {
		if id <= 0 {
			return fmt.Errorf("airQuality.locations[%s] must be a positive location id", city)
		}
	}
	if c.LinkCheck.MaxURLs <= 0 {
		return errors.New("linkCheck.maxUrls must be positive")
	}
	if c.LinkCheck.Concurrency <= 0 {
		return errors.New("linkCheck.concurrency must be positive")
	}
	if c.Services.RadiusMeters <= 0 || c.Services.MaxResults <= 0 {
		return errors.New("services.radiusMeters and services.maxResults must be positive")
	}
	if c.Events.SearchResults <= 0 || c.Events.MaxEvents <= 0 || c.Events.Concurrency <= 0 {
		return errors.New("events limits must be positive")
	}
	return nil
}
