package petservices

import (
	"context"

	"github.com/yanqian/pawpulse/internal/domain/geo"
)

// ServiceType classifies a listing.
type ServiceType string

const (
	TypeVetClinic     ServiceType = "VetClinic"
	TypeAnimalShelter ServiceType = "AnimalShelter"
	TypeBoarding      ServiceType = "Boarding"
	TypePetStore      ServiceType = "PetStore"
	TypeGroomer       ServiceType = "Groomer"
	TypeOther         ServiceType = "Other"
)

// Place is a raw point of interest with its OpenStreetMap tags.
type Place struct {
	ID   string
	Lat  float64
	Lon  float64
	Tags map[string]string
}

// POIClient finds tagged places around a point.
type POIClient interface {
	Nearby(ctx context.Context, center geo.Point, radiusMeters int) ([]Place, error)
}

// Listing is a pet service shown to users.
type Listing struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       ServiceType `json:"type"`
	Address    string      `json:"address"`
	Locality   string      `json:"locality"`
	Phone      string      `json:"phone,omitempty"`
	Link       string      `json:"link"`
	HasWebsite bool        `json:"hasWebsite"`
	Source     string      `json:"source"`
}

// SearchLink is a map search fallback for one service type.
type SearchLink struct {
	Type  ServiceType `json:"type"`
	Label string      `json:"label"`
	URL   string      `json:"url"`
}

// Response is serialized back to API consumers.
type Response struct {
	City        string       `json:"city"`
	Services    []Listing    `json:"services"`
	SearchLinks []SearchLink `json:"searchLinks"`
}

// Config wires runtime limits for the resolver.
type Config struct {
	RadiusMeters int
	MaxResults   int
}
