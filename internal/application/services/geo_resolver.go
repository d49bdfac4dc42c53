package services

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/providers"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/aiclinimatch/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// EarthRadiusMiles is the sphere radius used by DistanceMiles.
const EarthRadiusMiles = 3958.7613

var postalCodePattern = regexp.MustCompile(`^\d{5}$`)

// IsPostalCode reports whether s is exactly five decimal digits.
func IsPostalCode(s string) bool {
	return postalCodePattern.MatchString(s)
}

// GeoResolver turns US postal codes into coordinates. Each code is looked up
// upstream at most once per resolver; results are kept for its lifetime.
type GeoResolver struct {
	geocoder providers.PostalCodeGeocoder
	shared   providers.CacheProvider
	metrics  *observability.Metrics

	mu    sync.RWMutex
	cache map[string]entities.Coordinate
	group singleflight.Group
}

// NewGeoResolver creates a resolver over geocoder with an empty cache.
func NewGeoResolver(geocoder providers.PostalCodeGeocoder) *GeoResolver {
	return &GeoResolver{
		geocoder: geocoder,
		cache:    make(map[string]entities.Coordinate),
	}
}

// SetSharedCache adds a second cache tier consulted before the upstream lookup.
func (r *GeoResolver) SetSharedCache(cache providers.CacheProvider) {
	r.shared = cache
}

// SetMetrics enables cache and lookup counters.
func (r *GeoResolver) SetMetrics(metrics *observability.Metrics) {
	r.metrics = metrics
}

// Resolve returns the coordinate for postalCode.
func (r *GeoResolver) Resolve(ctx context.Context, postalCode string) (entities.Coordinate, error) {
	code := strings.TrimSpace(postalCode)
	if !IsPostalCode(code) {
		return entities.Coordinate{}, apperrors.NewInvalidInputError("postal code must be exactly 5 digits")
	}

	if coord, ok := r.cached(code); ok {
		observability.RecordCacheHit(ctx, r.metrics, "memory")
		return coord, nil
	}
	observability.RecordCacheMiss(ctx, r.metrics, "memory")

	// Shared lookups must not be aborted because one waiting caller went away.
	lookupCtx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(code, func() (interface{}, error) {
		if coord, ok := r.cached(code); ok {
			return coord, nil
		}
		if coord, ok := r.fromShared(lookupCtx, code); ok {
			r.store(code, coord)
			return coord, nil
		}

		coord, err := r.geocoder.LookupPostalCode(lookupCtx, code)
		observability.RecordGeoLookup(lookupCtx, r.metrics, err == nil)
		if err != nil {
			return nil, apperrors.NewResolutionError(code, err)
		}

		r.store(code, coord)
		r.toShared(lookupCtx, code, coord)
		return coord, nil
	})
	if err != nil {
		return entities.Coordinate{}, err
	}
	return v.(entities.Coordinate), nil
}

// Cached reports whether postalCode has already been resolved.
func (r *GeoResolver) Cached(postalCode string) bool {
	_, ok := r.cached(strings.TrimSpace(postalCode))
	return ok
}

func (r *GeoResolver) cached(code string) (entities.Coordinate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	coord, ok := r.cache[code]
	return coord, ok
}

// store keeps the first coordinate written for a code.
func (r *GeoResolver) store(code string, coord entities.Coordinate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.cache[code]; !exists {
		r.cache[code] = coord
	}
}

func (r *GeoResolver) fromShared(ctx context.Context, code string) (entities.Coordinate, bool) {
	if r.shared == nil {
		return entities.Coordinate{}, false
	}
	data, err := r.shared.Get(ctx, code)
	if err != nil {
		observability.RecordCacheMiss(ctx, r.metrics, "shared")
		return entities.Coordinate{}, false
	}
	var coord entities.Coordinate
	if err := json.Unmarshal(data, &coord); err != nil || !coord.IsFinite() {
		observability.LoggerFromContext(ctx).Warn().Str("postal_code", code).Msg("ignoring malformed shared geo cache entry")
		return entities.Coordinate{}, false
	}
	observability.RecordCacheHit(ctx, r.metrics, "shared")
	return coord, true
}

func (r *GeoResolver) toShared(ctx context.Context, code string, coord entities.Coordinate) {
	if r.shared == nil {
		return
	}
	data, err := json.Marshal(coord)
	if err != nil {
		return
	}
	if err := r.shared.Set(ctx, code, data, 0); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("postal_code", code).Msg("failed to write shared geo cache")
	}
}

// DistanceMiles is the haversine great-circle distance between a and b.
func DistanceMiles(a, b entities.Coordinate) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)
	lat1 := toRad(a.Latitude)
	lat2 := toRad(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
