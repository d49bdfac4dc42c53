package evaluation

import "fmt"

// GuardrailConfig sets the minimum aggregate quality a run must reach.
// Zero values disable a check.
type GuardrailConfig struct {
	MinAvgRecall float64
	MinAvgMRR    float64
	MinHitRate   float64
	MaxFailed    int
}

type Guardrails struct {
	config GuardrailConfig
}

func NewGuardrails(config GuardrailConfig) *Guardrails {
	if config.MaxFailed < 0 {
		config.MaxFailed = 0
	}
	return &Guardrails{config: config}
}

// Check returns one message per violated threshold.
func (g *Guardrails) Check(s *EvalSummary) []string {
	var violations []string
	if s.AvgRecallAt10 < g.config.MinAvgRecall {
		violations = append(violations, fmt.Sprintf("avg recall@10 %.3f below %.3f", s.AvgRecallAt10, g.config.MinAvgRecall))
	}
	if s.AvgMRRAt10 < g.config.MinAvgMRR {
		violations = append(violations, fmt.Sprintf("avg mrr@10 %.3f below %.3f", s.AvgMRRAt10, g.config.MinAvgMRR))
	}
	if s.HitRate() < g.config.MinHitRate {
		violations = append(violations, fmt.Sprintf("hit rate %.3f below %.3f", s.HitRate(), g.config.MinHitRate))
	}
	if s.FailedQueries > g.config.MaxFailed {
		violations = append(violations, fmt.Sprintf("%d queries failed, at most %d allowed", s.FailedQueries, g.config.MaxFailed))
	}
	return violations
}
