package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

func newIntakeService(t *testing.T) *ReferralIntakeService {
	t.Helper()
	return NewReferralIntakeService(NewFieldExtractor(), loadShippedMatchCatalog(t), NewRankingEngine())
}

func TestIntake_ConversationAccumulatesCase(t *testing.T) {
	svc := newIntakeService(t)

	first := svc.Next("Patient with cystic fibrosis, urgent, Blue Cross insurance", entities.ExtractedCase{})

	assert.False(t, first.Complete)
	assert.Equal(t, []string{"patient location"}, first.Missing)
	assert.Contains(t, first.Reply, "Got it! I've identified the condition as Cystic Fibrosis.")
	assert.Contains(t, first.Reply, "Urgency level set to URGENT.")
	assert.Contains(t, first.Reply, "Patient insurance: Blue Cross Blue Shield.")
	assert.Contains(t, first.Reply, "- patient location")

	second := svc.Next("She lives in Boston, MA", first.Case)

	assert.True(t, second.Complete)
	assert.Empty(t, second.Missing)
	assert.Equal(t, "Boston, MA", second.Case.Location)
	assert.Equal(t, entities.ConditionCysticFibrosis, second.Case.Condition)
	assert.Equal(t, "Patient with cystic fibrosis, urgent, Blue Cross insurance", second.Case.Notes)
	assert.Empty(t, second.Extracted.Condition, "fields already set are not extracted again")
	assert.Contains(t, second.Reply, "Location: Boston, MA.")
	assert.Contains(t, second.Reply, "I have all the information needed to find matching specialists.")
}

func TestIntake_SetFieldsAreNeverReplaced(t *testing.T) {
	svc := newIntakeService(t)
	current := entities.ExtractedCase{Condition: entities.ConditionLeukemia, Urgency: entities.UrgencyRoutine}

	turn := svc.Next("actually it is cystic fibrosis, emergency", current)

	assert.Equal(t, entities.ConditionLeukemia, turn.Case.Condition)
	assert.Equal(t, entities.UrgencyRoutine, turn.Case.Urgency)
	assert.NotContains(t, turn.Reply, "identified the condition")
}

func TestIntake_EmptyUtteranceAsksForEverything(t *testing.T) {
	svc := newIntakeService(t)

	turn := svc.Next("", entities.ExtractedCase{})

	assert.False(t, turn.Complete)
	assert.Equal(t, []string{"condition/diagnosis", "urgency level", "insurance provider", "patient location"}, turn.Missing)
	assert.Contains(t, turn.Reply, "Could you provide these details?")
}

func TestIntake_FindMatchesAppliesInsuranceBonus(t *testing.T) {
	svc := newIntakeService(t)

	got := svc.FindMatches(entities.ExtractedCase{Condition: entities.ConditionHuntingtons, Insurance: "Cigna"})

	require.Len(t, got, 3)
	assert.Equal(t, []string{"thorne", "carter", "rodriguez"}, matchIDs(got))
	assert.Equal(t, 97, got[0].MatchScore)
	assert.Equal(t, 92, got[1].MatchScore)
	assert.Equal(t, 85, got[2].MatchScore)
}

func TestIntake_FindMatchesTelehealthOnly(t *testing.T) {
	svc := newIntakeService(t)

	got := svc.FindMatches(entities.ExtractedCase{Condition: entities.ConditionOsteoradionecrosis, Telehealth: boolPtr(true)})
	assert.Empty(t, got)

	got = svc.FindMatches(entities.ExtractedCase{Condition: entities.ConditionOsteoradionecrosis})
	assert.Equal(t, []string{"vance", "tanaka"}, matchIDs(got))
}

func TestIntake_FindMatchesUnknownConditionUsesDefault(t *testing.T) {
	svc := newIntakeService(t)

	got := svc.FindMatches(entities.ExtractedCase{Condition: entities.ConditionParkinsons, Location: "Denver, CO"})

	require.Len(t, got, 1)
	assert.Equal(t, "generic1", got[0].ID)
	assert.Equal(t, "Denver, CO", got[0].Location)
}
