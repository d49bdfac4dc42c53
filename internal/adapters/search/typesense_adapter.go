package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/repositories"
	tsclient "github.com/zatekoja/aiclinimatch/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter mirrors the specialist catalog into a Typesense collection
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements SpecialistIndexRepository
var _ repositories.SpecialistIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a specialist document
func (a *TypesenseAdapter) Index(ctx context.Context, specialist *entities.Specialist) error {
	document := buildSpecialistDocument(specialist)
	if document == nil {
		return fmt.Errorf("cannot index empty specialist")
	}

	_, err := a.client.Client().Collection(tsclient.SpecialistsCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index specialist %s: %w", specialist.ID, err)
	}
	return nil
}

// Delete removes a specialist from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.SpecialistsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete specialist from index: %w", err)
	}
	return nil
}

// SearchParams narrows an index lookup. A zero RadiusMiles disables the geo filter.
type SearchParams struct {
	Text        string
	Origin      *entities.Coordinate
	RadiusMiles float64
	Limit       int
}

// Search returns the ids of matching specialists in Typesense rank order
func (a *TypesenseAdapter) Search(ctx context.Context, params SearchParams) ([]string, error) {
	searchParams := buildSearchParams(params)

	result, err := a.client.Client().Collection(tsclient.SpecialistsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search specialists: %w", err)
	}

	ids := []string{}
	if result.Hits == nil {
		return ids, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		if id, ok := (*hit.Document)["id"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func buildSearchParams(params SearchParams) *api.SearchCollectionParams {
	q := strings.TrimSpace(params.Text)
	if q == "" {
		q = "*"
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(q),
		QueryBy: pointer.String("name,specialty,tags,keywords,institution,location_text"),
		PerPage: pointer.Int(limit),
	}
	if params.Origin != nil && params.RadiusMiles > 0 {
		searchParams.FilterBy = pointer.String(fmt.Sprintf("location:(%f, %f, %g mi)",
			params.Origin.Latitude, params.Origin.Longitude, params.RadiusMiles))
		searchParams.SortBy = pointer.String(fmt.Sprintf("location(%f, %f):asc",
			params.Origin.Latitude, params.Origin.Longitude))
	}
	return searchParams
}

// buildSpecialistDocument flattens a specialist into the collection schema.
// Records without a finite coordinate are indexed without a geopoint.
func buildSpecialistDocument(s *entities.Specialist) map[string]interface{} {
	if s == nil || s.ID == "" {
		return nil
	}

	document := map[string]interface{}{
		"id":            s.ID,
		"name":          s.Name,
		"specialty":     s.Specialty,
		"sub_specialty": s.Subspecialty,
		"institution":   s.Institution,
		"location_text": s.Location,
		"insurance":     nonNil(s.InsuranceAccepted),
		"tags":          nonNil(s.Tags),
		"keywords":      s.Keywords,
		"telehealth":    s.Telehealth,
		"accepting":     s.AcceptingNewPatients,
		"match_score":   s.MatchScore,
	}
	if s.Coordinate != nil && s.Coordinate.IsFinite() {
		document["location"] = []float64{s.Coordinate.Latitude, s.Coordinate.Longitude}
	}
	return document
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
