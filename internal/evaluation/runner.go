package evaluation

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

type SearchResultProvider interface {
	Search(ctx context.Context, query entities.SpecialistQuery) (*entities.SearchResponse, error)
}

// Runner runs evaluation across a set of golden queries.
type Runner struct {
	searchService SearchResultProvider
}

func NewRunner(svc SearchResultProvider) *Runner {
	return &Runner{searchService: svc}
}

func (r *Runner) Run(ctx context.Context, queries []GoldenQuery) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalQueries: len(queries),
		ByKind:       make(map[Kind]*KindSummary),
		Results:      make([]EvalResult, 0, len(queries)),
	}

	for _, gq := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		resp, err := r.searchService.Search(ctx, gq.Query)
		duration := time.Since(start)

		result := EvalResult{QueryID: gq.ID, Kind: gq.Kind, Latency: duration}
		if err != nil {
			log.Warn().Err(err).Str("query_id", gq.ID).Msg("golden query failed")
			result.Error = err.Error()
			summary.FailedQueries++
			r.updateSummary(summary, result)
			continue
		}

		ids := make([]string, 0, len(resp.Results))
		for _, res := range resp.Results {
			ids = append(ids, res.Specialist.ID)
		}

		result.RetrievedIDs = ids
		result.ResultCount = len(ids)
		result.RecallAt10 = RecallAtK(gq.ExpectedIDs, ids, 10)
		result.MRRAt10 = MRRAtK(gq.ExpectedIDs, ids, 10)

		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.Results = append(s.Results, res)
	s.AvgRecallAt10 += res.RecallAt10
	s.AvgMRRAt10 += res.MRRAt10
	s.AvgLatency += res.Latency
	if res.ResultCount > 0 {
		s.QueriesWithHits++
	}

	if _, ok := s.ByKind[res.Kind]; !ok {
		s.ByKind[res.Kind] = &KindSummary{}
	}
	ks := s.ByKind[res.Kind]
	ks.Count++
	ks.AvgRecallAt10 += res.RecallAt10
	ks.AvgMRRAt10 += res.MRRAt10
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalQueries > 0 {
		n := float64(s.TotalQueries)
		s.AvgRecallAt10 /= n
		s.AvgMRRAt10 /= n
		s.AvgLatency /= time.Duration(s.TotalQueries)
	}

	for _, ks := range s.ByKind {
		if ks.Count > 0 {
			n := float64(ks.Count)
			ks.AvgRecallAt10 /= n
			ks.AvgMRRAt10 /= n
		}
	}
}
