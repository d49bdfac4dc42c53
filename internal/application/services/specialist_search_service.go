package services

import (
	"context"
	"strings"
	"time"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/repositories"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/attribute"
)

// Resolver resolves postal codes to coordinates.
type Resolver interface {
	Resolve(ctx context.Context, postalCode string) (entities.Coordinate, error)
}

// SearchTracker records completed searches.
type SearchTracker interface {
	TrackSearch(ctx context.Context, event *entities.SearchEvent)
}

// SpecialistSearchService runs browse-and-filter searches over the catalog.
type SpecialistSearchService struct {
	repo     repositories.SpecialistRepository
	resolver Resolver
	filter   *FilterEngine
	ranking  *RankingEngine
	tracker  SearchTracker
	metrics  *observability.Metrics
}

// NewSpecialistSearchService creates a new search service
func NewSpecialistSearchService(repo repositories.SpecialistRepository, resolver Resolver, filter *FilterEngine, ranking *RankingEngine) *SpecialistSearchService {
	return &SpecialistSearchService{
		repo:     repo,
		resolver: resolver,
		filter:   filter,
		ranking:  ranking,
	}
}

// SetTracker enables search analytics.
func (s *SpecialistSearchService) SetTracker(tracker SearchTracker) {
	s.tracker = tracker
}

// SetMetrics enables search metrics.
func (s *SpecialistSearchService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Search filters and orders the catalog for query. A location term that is a
// postal code turns on proximity search; when it cannot be resolved the search
// silently falls back to matching the term as text. Only a failure to read
// the catalog is returned as an error.
func (s *SpecialistSearchService) Search(ctx context.Context, query entities.SpecialistQuery) (*entities.SearchResponse, error) {
	ctx, span := observability.StartSpan(ctx, "SpecialistSearchService.Search")
	defer span.End()
	start := time.Now()

	pool, err := s.repo.All(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	origin := s.resolveOrigin(ctx, query.Location)

	results := s.filter.Apply(query, pool, origin)
	results = s.ranking.RankByDistance(results, origin)

	resp := &entities.SearchResponse{
		Results:          results,
		Found:            len(results) > 0,
		Origin:           origin,
		ProximityApplied: origin != nil,
	}

	observability.SetSpanAttributes(span,
		attribute.Int("search.results", len(results)),
		attribute.Bool("search.proximity", resp.ProximityApplied),
	)
	observability.RecordSearchResults(ctx, s.metrics, len(results), resp.ProximityApplied)

	if s.tracker != nil {
		radius := 0.0
		if resp.ProximityApplied {
			radius = ParseRadius(query.RadiusMiles)
		}
		s.tracker.TrackSearch(ctx, &entities.SearchEvent{
			Query:            strings.TrimSpace(query.FreeText),
			LocationTerm:     strings.TrimSpace(query.Location),
			ProximityApplied: resp.ProximityApplied,
			RadiusMiles:      radius,
			ResultCount:      len(results),
			LatencyMs:        int(time.Since(start).Milliseconds()),
			CreatedAt:        time.Now().UTC(),
		})
	}

	return resp, nil
}

func (s *SpecialistSearchService) resolveOrigin(ctx context.Context, location string) *entities.Coordinate {
	term := strings.TrimSpace(location)
	if s.resolver == nil || !IsPostalCode(term) {
		return nil
	}

	coord, err := s.resolver.Resolve(ctx, term)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("postal_code", term).
			Msg("postal code lookup failed, falling back to text location match")
		return nil
	}
	return &coord
}
