package services

import (
	"fmt"
	"strings"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

// IntakeTurn is the outcome of feeding one utterance to the intake.
type IntakeTurn struct {
	Case      entities.ExtractedCase `json:"case"`
	Extracted entities.ExtractedCase `json:"extracted"`
	Complete  bool                   `json:"complete"`
	Missing   []string               `json:"missing"`
	Reply     string                 `json:"reply"`
}

// ReferralIntakeService turns a conversation into a referral case and finds
// specialists for the finished case.
type ReferralIntakeService struct {
	extractor *FieldExtractor
	matches   *MatchCatalog
	ranking   *RankingEngine
}

// NewReferralIntakeService creates a new intake service
func NewReferralIntakeService(extractor *FieldExtractor, matches *MatchCatalog, ranking *RankingEngine) *ReferralIntakeService {
	return &ReferralIntakeService{
		extractor: extractor,
		matches:   matches,
		ranking:   ranking,
	}
}

// Next extracts what it can from utterance and merges it into current.
func (s *ReferralIntakeService) Next(utterance string, current entities.ExtractedCase) IntakeTurn {
	extracted := s.extractor.Extract(utterance, current)
	updated := current.Merge(extracted)
	missing := MissingFields(updated)

	return IntakeTurn{
		Case:      updated,
		Extracted: extracted,
		Complete:  len(missing) == 0,
		Missing:   missing,
		Reply:     composeReply(extracted, missing),
	}
}

// FindMatches ranks the condition candidates for c.
func (s *ReferralIntakeService) FindMatches(c entities.ExtractedCase) []*entities.Specialist {
	return s.ranking.RankMatches(s.matches.Candidates(c), c)
}

func composeReply(extracted entities.ExtractedCase, missing []string) string {
	var b strings.Builder

	if extracted.Condition != "" {
		fmt.Fprintf(&b, "Got it! I've identified the condition as %s.\n\n", extracted.Condition)
	}
	if extracted.Urgency != "" {
		fmt.Fprintf(&b, "Urgency level set to %s.\n\n", strings.ToUpper(string(extracted.Urgency)))
	}
	if extracted.Insurance != "" {
		fmt.Fprintf(&b, "Patient insurance: %s.\n\n", extracted.Insurance)
	}
	if extracted.Location != "" {
		fmt.Fprintf(&b, "Location: %s.\n\n", extracted.Location)
	}

	if len(missing) > 0 {
		b.WriteString("To find the best specialists, I still need:\n- ")
		b.WriteString(strings.Join(missing, "\n- "))
		b.WriteString("\n\nCould you provide these details?")
	} else {
		b.WriteString("I have all the information needed to find matching specialists.")
	}

	return b.String()
}
