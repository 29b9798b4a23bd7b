package geocode

import (
	"context"
	"strings"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// DefaultLocation is returned by Static for any address it has no entry for.
var DefaultLocation = domain.Location{Lat: 40.7484474, Lng: -73.9871516}

// Static is an offline geocoder for local development and tests.
type Static struct {
	known    map[string]domain.Location
	fallback domain.Location
}

func NewStatic(known map[string]domain.Location) *Static {
	normalized := make(map[string]domain.Location, len(known))
	for addr, loc := range known {
		normalized[normalize(addr)] = loc
	}
	return &Static{known: normalized, fallback: DefaultLocation}
}

func (s *Static) Resolve(_ context.Context, address string) (domain.Location, error) {
	key := normalize(address)
	if key == "" {
		return domain.Location{}, domain.ErrGeocoding
	}
	if loc, ok := s.known[key]; ok {
		return loc, nil
	}
	return s.fallback, nil
}

func normalize(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
