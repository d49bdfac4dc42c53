package geolocation

import (
	"context"
	"fmt"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/providers"
)

// StaticProvider answers lookups from a fixed table. Used offline and in tests.
type StaticProvider struct {
	table map[string]entities.Coordinate
}

// NewStaticProvider creates a provider over table. A nil table uses DefaultPostalCodes.
func NewStaticProvider(table map[string]entities.Coordinate) providers.PostalCodeGeocoder {
	if table == nil {
		table = DefaultPostalCodes()
	}
	return &StaticProvider{table: table}
}

// LookupPostalCode returns the table entry for postalCode.
func (s *StaticProvider) LookupPostalCode(_ context.Context, postalCode string) (entities.Coordinate, error) {
	coord, ok := s.table[postalCode]
	if !ok {
		return entities.Coordinate{}, fmt.Errorf("postal code %s not in table: %w", postalCode, providers.ErrPostalCodeNotFound)
	}
	return coord, nil
}

// DefaultPostalCodes covers the cities the catalog ships with.
func DefaultPostalCodes() map[string]entities.Coordinate {
	return map[string]entities.Coordinate{
		"02115": {Latitude: 42.3429, Longitude: -71.0907},  // Boston, MA
		"10001": {Latitude: 40.7484, Longitude: -73.9967},  // New York, NY
		"20001": {Latitude: 38.9122, Longitude: -77.0177},  // Washington, DC
		"21287": {Latitude: 39.2966, Longitude: -76.5930},  // Baltimore, MD
		"44195": {Latitude: 41.5025, Longitude: -81.6208},  // Cleveland, OH
		"55905": {Latitude: 44.0225, Longitude: -92.4666},  // Rochester, MN
		"60611": {Latitude: 41.8948, Longitude: -87.6196},  // Chicago, IL
		"77030": {Latitude: 29.7079, Longitude: -95.4013},  // Houston, TX
		"80045": {Latitude: 39.7469, Longitude: -104.8386}, // Aurora, CO
		"80206": {Latitude: 39.7317, Longitude: -104.9526}, // Denver, CO
		"80220": {Latitude: 39.7312, Longitude: -104.9126}, // Denver, CO
		"90095": {Latitude: 34.0663, Longitude: -118.4453}, // Los Angeles, CA
		"94143": {Latitude: 37.7631, Longitude: -122.4586}, // San Francisco, CA
		"94305": {Latitude: 37.4241, Longitude: -122.1661}, // Palo Alto, CA
	}
}
