package overpass

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/pawpulse/internal/domain/geo"
	"github.com/yanqian/pawpulse/internal/domain/petservices"
	"github.com/yanqian/pawpulse/internal/infra/fetch"
)

const defaultBaseURL = "https://overpass-api.de"

// Tags queried around the point, as key=value pairs.
var petTags = [][2]string{
	{"amenity", "veterinary"},
	{"amenity", "animal_shelter"},
	{"amenity", "animal_boarding"},
	{"shop", "pet"},
	{"shop", "pet_grooming"},
}

// Client queries the Overpass API for pet related places.
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

// Nearby implements petservices.POIClient with a single union query.
func (c *Client) Nearby(ctx context.Context, center geo.Point, radiusMeters int) ([]petservices.Place, error) {
	form := url.Values{}
	form.Set("data", buildQuery(center, radiusMeters))

	var raw interpreterResponse
	if err := c.fetcher.PostFormJSON(ctx, "overpass", c.baseURL+"/api/interpreter", form, &raw); err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}

	places := make([]petservices.Place, 0, len(raw.Elements))
	for _, el := range raw.Elements {
		lat, lon := el.Lat, el.Lon
		if el.Center != nil {
			lat, lon = el.Center.Lat, el.Center.Lon
		}
		places = append(places, petservices.Place{
			ID:   el.Type + "/" + strconv.FormatInt(el.ID, 10),
			Lat:  lat,
			Lon:  lon,
			Tags: el.Tags,
		})
	}
	return places, nil
}

func buildQuery(center geo.Point, radiusMeters int) string {
	around := fmt.Sprintf("(around:%d,%s,%s)", radiusMeters,
		strconv.FormatFloat(center.Lat, 'f', 6, 64), strconv.FormatFloat(center.Lon, 'f', 6, 64))

	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, tag := range petTags {
		fmt.Fprintf(&b, "  nwr[%q=%q]%s;\n", tag[0], tag[1], around)
	}
	b.WriteString(");\nout center tags;")
	return b.String()
}

type interpreterResponse struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *center           `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

var _ petservices.POIClient = (*Client)(nil)
