package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

// UnboundedRadiusMiles is the proximity radius used when none was given.
const UnboundedRadiusMiles = 9999.0

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseRadius reads a radius the way a lenient form field would: the leading
// number is used ("20mi" is 20) and anything without one is unbounded.
func ParseRadius(raw string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(raw))
	if m == "" {
		return UnboundedRadiusMiles
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return UnboundedRadiusMiles
	}
	return v
}

// FilterEngine decides which catalog records a query accepts.
type FilterEngine struct{}

// NewFilterEngine creates a new filter engine.
func NewFilterEngine() *FilterEngine {
	return &FilterEngine{}
}

// normalizedQuery holds lowercased, trimmed terms.
type normalizedQuery struct {
	freeText    string
	location    string
	institution string
	trials      string
	telehealth  bool
	accepting   bool
	radius      float64
}

func normalize(q entities.SpecialistQuery) normalizedQuery {
	return normalizedQuery{
		freeText:    strings.ToLower(strings.TrimSpace(q.FreeText)),
		location:    strings.ToLower(strings.TrimSpace(q.Location)),
		institution: strings.ToLower(strings.TrimSpace(q.Institution)),
		trials:      strings.ToLower(strings.TrimSpace(q.Trials)),
		telehealth:  q.TelehealthRequired,
		accepting:   q.AcceptingRequired,
		radius:      ParseRadius(q.RadiusMiles),
	}
}

// Apply returns the records of pool accepted by query, in pool order. When
// origin is set, location is matched by distance and each result carries it;
// otherwise the location term is matched as text.
func (f *FilterEngine) Apply(query entities.SpecialistQuery, pool []*entities.Specialist, origin *entities.Coordinate) []entities.SpecialistResult {
	q := normalize(query)
	results := make([]entities.SpecialistResult, 0, len(pool))

	for _, s := range pool {
		if s == nil {
			continue
		}
		keywords := s.SearchableKeywords()

		locationMatch, distance := q.matchLocation(s, keywords, origin)
		if !locationMatch {
			continue
		}
		if !containsTerm(keywords, q.freeText) ||
			!containsTerm(keywords, q.institution) ||
			!containsTerm(keywords, q.trials) {
			continue
		}
		if q.telehealth && !s.Telehealth {
			continue
		}
		if q.accepting && !s.AcceptingNewPatients {
			continue
		}

		results = append(results, entities.SpecialistResult{Specialist: s, DistanceMiles: distance})
	}

	return results
}

func (q normalizedQuery) matchLocation(s *entities.Specialist, keywords string, origin *entities.Coordinate) (bool, *float64) {
	if origin == nil {
		return containsTerm(keywords, q.location), nil
	}
	if s.Coordinate == nil || !s.Coordinate.IsFinite() {
		return false, nil
	}
	d := DistanceMiles(*origin, *s.Coordinate)
	if d > q.radius {
		return false, nil
	}
	return true, &d
}

// containsTerm treats an empty term as matching everything.
func containsTerm(keywords, term string) bool {
	return term == "" || strings.Contains(keywords, term)
}
