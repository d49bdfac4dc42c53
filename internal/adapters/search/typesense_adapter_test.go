package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

func TestBuildSpecialistDocument(t *testing.T) {
	specialist := &entities.Specialist{
		ID:                   "petrova",
		Name:                 "Dr. Lena Petrova, MD",
		Specialty:            "Pulmonology",
		Location:             "Denver, CO",
		Coordinate:           &entities.Coordinate{Latitude: 39.7388, Longitude: -104.942},
		InsuranceAccepted:    []string{"Medicare"},
		Telehealth:           true,
		AcceptingNewPatients: true,
	}

	doc := buildSpecialistDocument(specialist)

	require.NotNil(t, doc)
	assert.Equal(t, "petrova", doc["id"])
	assert.Equal(t, "Denver, CO", doc["location_text"])
	assert.Equal(t, []float64{39.7388, -104.942}, doc["location"])
	assert.Equal(t, []string{"Medicare"}, doc["insurance"])
	assert.Equal(t, []string{}, doc["tags"])
	assert.Equal(t, true, doc["accepting"])
}

func TestBuildSpecialistDocument_NoGeopoint(t *testing.T) {
	doc := buildSpecialistDocument(&entities.Specialist{ID: "reyes"})
	assert.NotContains(t, doc, "location")

	doc = buildSpecialistDocument(&entities.Specialist{
		ID:         "broken",
		Coordinate: &entities.Coordinate{Latitude: math.NaN()},
	})
	assert.NotContains(t, doc, "location")
}

func TestBuildSpecialistDocument_Empty(t *testing.T) {
	assert.Nil(t, buildSpecialistDocument(nil))
	assert.Nil(t, buildSpecialistDocument(&entities.Specialist{}))
}

func TestBuildSearchParams(t *testing.T) {
	params := buildSearchParams(SearchParams{})
	assert.Equal(t, "*", *params.Q)
	assert.Equal(t, 20, *params.PerPage)
	assert.Nil(t, params.FilterBy)

	params = buildSearchParams(SearchParams{
		Text:        "cystic fibrosis",
		Origin:      &entities.Coordinate{Latitude: 39.7312, Longitude: -104.9126},
		RadiusMiles: 20,
		Limit:       5,
	})
	assert.Equal(t, "cystic fibrosis", *params.Q)
	assert.Equal(t, 5, *params.PerPage)
	require.NotNil(t, params.FilterBy)
	assert.Equal(t, "location:(39.731200, -104.912600, 20 mi)", *params.FilterBy)
	assert.Equal(t, "location(39.731200, -104.912600):asc", *params.SortBy)
}
