package petservices

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/yanqian/pawpulse/internal/domain/geo"
	apperrors "github.com/yanqian/pawpulse/pkg/errors"
)

const (
	defaultRadiusMeters = 7000
	defaultMaxResults   = 12
	listingSource       = "openstreetmap"
	mapsSearchBase      = "https://www.google.com/maps/search/?api=1&query="
)

// Service resolves pet services near a city.
type Service interface {
	Resolve(ctx context.Context, city string) ([]Listing, error)
	SearchLinks(city string) []SearchLink
}

type service struct {
	cfg      Config
	geocoder geo.Geocoder
	poi      POIClient
	logger   *slog.Logger
}

// NewService wires up the nearby services domain.
func NewService(cfg Config, geocoder geo.Geocoder, poi POIClient, logger *slog.Logger) Service {
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = defaultRadiusMeters
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	return &service{
		cfg:      cfg,
		geocoder: geocoder,
		poi:      poi,
		logger:   logger.With("component", "petservices.service"),
	}
}

// Resolve returns an empty list when the city cannot be geocoded.
func (s *service) Resolve(ctx context.Context, city string) ([]Listing, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "city is required", nil)
	}
	point, err := s.geocoder.Geocode(ctx, city)
	if err != nil {
		s.logger.Warn("geocode failed", "city", city, "error", err)
		return []Listing{}, nil
	}
	if point == nil {
		return []Listing{}, nil
	}

	places, err := s.poi.Nearby(ctx, *point, s.cfg.RadiusMeters)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUpstream, "points of interest lookup failed", err)
	}
	listings := buildListings(places, city)
	if len(listings) > s.cfg.MaxResults {
		listings = listings[:s.cfg.MaxResults]
	}
	s.logger.Info("nearby services resolved", "city", city, "places", len(places), "listings", len(listings))
	return listings, nil
}

var searchTerms = []struct {
	kind  ServiceType
	label string
	query string
}{
	{TypeVetClinic, "Vet clinics", "veterinary clinic"},
	{TypeGroomer, "Pet groomers", "pet grooming"},
	{TypeBoarding, "Pet boarding", "pet boarding"},
	{TypePetStore, "Pet stores", "pet store"},
	{TypeAnimalShelter, "Animal shelters", "animal shelter"},
}

func (s *service) SearchLinks(city string) []SearchLink {
	city = strings.TrimSpace(city)
	links := make([]SearchLink, 0, len(searchTerms))
	for _, term := range searchTerms {
		query := term.query
		if city != "" {
			query += " near " + city
		}
		links = append(links, SearchLink{Type: term.kind, Label: term.label, URL: mapsSearchURL(query)})
	}
	return links
}

// buildListings drops unnamed places, dedupes by (name, address) and orders
// listings with contact details first, then by name.
func buildListings(places []Place, city string) []Listing {
	out := make([]Listing, 0, len(places))
	seen := make(map[string]struct{}, len(places))
	for _, p := range places {
		name := firstTag(p.Tags, "name", "name:en", "brand")
		if name == "" {
			continue
		}
		address := formatAddress(p.Tags)
		key := strings.ToLower(name) + "|" + strings.ToLower(address)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		locality := firstTag(p.Tags, "addr:suburb", "addr:district", "addr:city")
		listing := Listing{
			ID:       p.ID,
			Name:     name,
			Type:     classify(p.Tags),
			Address:  address,
			Locality: locality,
			Phone:    firstTag(p.Tags, "phone", "contact:phone", "contact:mobile"),
			Source:   listingSource,
		}
		if website := firstTag(p.Tags, "website", "contact:website", "url"); website != "" {
			listing.Link = website
			listing.HasWebsite = true
		} else if tel := telURL(listing.Phone); tel != "" {
			listing.Link = tel
		} else {
			listing.Link = mapsSearchURL(strings.Join(nonEmpty(name, locality, city), ", "))
		}
		out = append(out, listing)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := hasContact(out[i]), hasContact(out[j])
		if ci != cj {
			return ci
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func classify(tags map[string]string) ServiceType {
	switch tags["amenity"] {
	case "veterinary":
		return TypeVetClinic
	case "animal_shelter":
		return TypeAnimalShelter
	case "animal_boarding":
		return TypeBoarding
	}
	switch tags["shop"] {
	case "pet":
		return TypePetStore
	case "pet_grooming":
		return TypeGroomer
	}
	return TypeOther
}

func hasContact(l Listing) bool {
	return l.HasWebsite || l.Phone != ""
}

func formatAddress(tags map[string]string) string {
	if full := strings.TrimSpace(tags["addr:full"]); full != "" {
		return full
	}
	street := strings.Join(nonEmpty(tags["addr:housenumber"], tags["addr:street"]), " ")
	return strings.Join(nonEmpty(street, tags["addr:suburb"], tags["addr:city"]), ", ")
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(tags[k]); v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// telURL keeps the first number of a possibly multi-valued phone tag, digits
// and a leading plus only.
func telURL(phone string) string {
	first, _, _ := strings.Cut(phone, ";")
	var b strings.Builder
	for i, r := range strings.TrimSpace(first) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	if strings.TrimPrefix(b.String(), "+") == "" {
		return ""
	}
	return "tel:" + b.String()
}

func mapsSearchURL(query string) string {
	return fmt.Sprintf("%s%s", mapsSearchBase, url.QueryEscape(query))
}
