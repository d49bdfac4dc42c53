package evaluation

import (
	"time"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

// Kind names what a golden query exercises.
type Kind string

const (
	KindCondition   Kind = "condition"   // e.g. "cystic fibrosis"
	KindKeyword     Kind = "keyword"     // e.g. "chorea", "hyperbaric"
	KindLocation    Kind = "location"    // city text or ZIP with radius
	KindInstitution Kind = "institution" // e.g. "johns hopkins"
)

// ValidKinds returns all valid kind values.
func ValidKinds() []Kind {
	return []Kind{KindCondition, KindKeyword, KindLocation, KindInstitution}
}

// IsValid checks if the kind is one of the defined constants.
func (k Kind) IsValid() bool {
	switch k {
	case KindCondition, KindKeyword, KindLocation, KindInstitution:
		return true
	}
	return false
}

// GoldenQuery is a labeled search with the specialists it should return.
type GoldenQuery struct {
	ID          string                   `json:"id"`
	Kind        Kind                     `json:"kind"`
	Query       entities.SpecialistQuery `json:"query"`
	ExpectedIDs []string                 `json:"expected_ids"`
	Difficulty  string                   `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the evaluation outcome for a single query.
type EvalResult struct {
	QueryID      string        `json:"query_id"`
	Kind         Kind          `json:"kind"`
	RecallAt10   float64       `json:"recall_at_10"`
	MRRAt10      float64       `json:"mrr_at_10"`
	ResultCount  int           `json:"result_count"`
	RetrievedIDs []string      `json:"retrieved_ids"`
	Latency      time.Duration `json:"latency_ns"`
	Error        string        `json:"error,omitempty"`
}

// EvalSummary holds aggregate metrics across all golden queries.
type EvalSummary struct {
	TotalQueries    int                   `json:"total_queries"`
	FailedQueries   int                   `json:"failed_queries"`
	AvgRecallAt10   float64               `json:"avg_recall_at_10"`
	AvgMRRAt10      float64               `json:"avg_mrr_at_10"`
	AvgLatency      time.Duration         `json:"avg_latency_ns"`
	QueriesWithHits int                   `json:"queries_with_hits"`
	ByKind          map[Kind]*KindSummary `json:"by_kind"`
	Results         []EvalResult          `json:"results"`
}

// HitRate is the share of queries that returned at least one result.
func (s *EvalSummary) HitRate() float64 {
	if s.TotalQueries == 0 {
		return 0
	}
	return float64(s.QueriesWithHits) / float64(s.TotalQueries)
}

// KindSummary holds metrics grouped by query kind.
type KindSummary struct {
	Count         int     `json:"count"`
	AvgRecallAt10 float64 `json:"avg_recall_at_10"`
	AvgMRRAt10    float64 `json:"avg_mrr_at_10"`
}
