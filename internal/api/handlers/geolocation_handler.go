package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

// PostalCodeResolver resolves a ZIP code to coordinates.
type PostalCodeResolver interface {
	Resolve(ctx context.Context, postalCode string) (entities.Coordinate, error)
}

// GeolocationHandler handles geolocation endpoints.
type GeolocationHandler struct {
	resolver PostalCodeResolver
}

// NewGeolocationHandler creates a new geolocation handler.
func NewGeolocationHandler(resolver PostalCodeResolver) *GeolocationHandler {
	return &GeolocationHandler{resolver: resolver}
}

// Geocode handles GET /api/geocode?zip=...
func (h *GeolocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	zip := strings.TrimSpace(r.URL.Query().Get("zip"))
	if zip == "" {
		respondWithError(w, http.StatusBadRequest, "zip parameter is required")
		return
	}

	coord, err := h.resolver.Resolve(r.Context(), zip)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"zip": zip,
		"lat": coord.Latitude,
		"lon": coord.Longitude,
	})
}
