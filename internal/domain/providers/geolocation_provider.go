package providers

import (
	"context"
	"errors"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

// PostalCodeGeocoder resolves a US postal code to coordinates through an
// external lookup. Implementations perform exactly one upstream call per
// invocation and do no caching of their own.
type PostalCodeGeocoder interface {
	LookupPostalCode(ctx context.Context, postalCode string) (entities.Coordinate, error)
}

// ErrPostalCodeNotFound is returned, wrapped, when the lookup service has no
// record of the postal code. It says nothing about the health of the service.
var ErrPostalCodeNotFound = errors.New("postal code not found")
