package services

import (
	"math"
	"sort"
	"strings"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

// InsuranceMatchBonus is added to a candidate's score when it accepts the patient's plan.
const InsuranceMatchBonus = 3

// RankingEngine orders accepted candidates.
type RankingEngine struct{}

// NewRankingEngine creates a new ranking engine.
func NewRankingEngine() *RankingEngine {
	return &RankingEngine{}
}

// RankByDistance orders a browse result. Without an origin the input order is
// kept. With one, entries lacking a finite distance are dropped and the rest
// are sorted nearest first, equal distances keeping input order.
func (r *RankingEngine) RankByDistance(results []entities.SpecialistResult, origin *entities.Coordinate) []entities.SpecialistResult {
	if origin == nil {
		out := make([]entities.SpecialistResult, len(results))
		copy(out, results)
		return out
	}

	out := make([]entities.SpecialistResult, 0, len(results))
	for _, res := range results {
		if res.DistanceMiles == nil || math.IsNaN(*res.DistanceMiles) || math.IsInf(*res.DistanceMiles, 0) {
			continue
		}
		out = append(out, res)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].DistanceMiles < *out[j].DistanceMiles
	})
	return out
}

// RankMatches scores condition candidates against a case. Candidates are
// copied first; the inputs are never modified. Plans accepted by a candidate
// that contain the case insurance (ignoring case) earn InsuranceMatchBonus.
// A case asking for telehealth drops every candidate without it. The result
// is sorted by score, highest first, ties keeping input order.
func (r *RankingEngine) RankMatches(candidates []*entities.Specialist, c entities.ExtractedCase) []*entities.Specialist {
	insurance := strings.TrimSpace(c.Insurance)
	wantsTelehealth := c.WantsTelehealth()

	out := make([]*entities.Specialist, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if wantsTelehealth && !candidate.Telehealth {
			continue
		}
		s := candidate.Clone()
		if insurance != "" && s.AcceptsInsurance(insurance) {
			s.MatchScore += InsuranceMatchBonus
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}
