package services

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

func loadShippedMatchCatalog(t *testing.T) *MatchCatalog {
	t.Helper()
	mc, err := LoadMatchCatalog(filepath.Join("..", "..", "..", "config", "condition_matches.json"))
	require.NoError(t, err)
	return mc
}

func TestMatchCatalog_KnownCondition(t *testing.T) {
	mc := loadShippedMatchCatalog(t)

	got := mc.Candidates(entities.ExtractedCase{Condition: entities.ConditionCysticFibrosis})

	assert.Equal(t, []string{"petrova", "khan", "brown"}, matchIDs(got))
	assert.Equal(t, 95, got[0].MatchScore)
	assert.NotEmpty(t, got[0].MatchReasons)
}

func TestMatchCatalog_UnknownConditionFallsBack(t *testing.T) {
	mc := loadShippedMatchCatalog(t)

	got := mc.Candidates(entities.ExtractedCase{Condition: entities.ConditionLeukemia, Location: "Denver, CO"})
	require.Len(t, got, 1)
	assert.Equal(t, "generic1", got[0].ID)
	assert.Equal(t, "Denver, CO", got[0].Location)

	got = mc.Candidates(entities.ExtractedCase{})
	require.Len(t, got, 1)
	assert.Equal(t, "Boston, MA", got[0].Location)
}

func TestMatchCatalog_ReturnsCopies(t *testing.T) {
	mc := loadShippedMatchCatalog(t)

	first := mc.Candidates(entities.ExtractedCase{Condition: entities.ConditionHuntingtons})
	first[0].MatchScore = 0
	first[0].MatchReasons[0] = "changed"

	second := mc.Candidates(entities.ExtractedCase{Condition: entities.ConditionHuntingtons})
	assert.Equal(t, 97, second[0].MatchScore)
	assert.Equal(t, "Leading HD expert", second[0].MatchReasons[0])

	fallback := mc.Candidates(entities.ExtractedCase{Location: "Houston"})
	again := mc.Candidates(entities.ExtractedCase{})
	assert.Equal(t, "Houston", fallback[0].Location)
	assert.Equal(t, "Boston, MA", again[0].Location)
}

func TestMatchCatalog_TelehealthExcludedInEveryRanking(t *testing.T) {
	mc := loadShippedMatchCatalog(t)
	engine := NewRankingEngine()

	for _, condition := range []entities.Condition{
		entities.ConditionCysticFibrosis,
		entities.ConditionHuntingtons,
		entities.ConditionOsteoradionecrosis,
		entities.ConditionParkinsons,
	} {
		ranked := engine.RankMatches(mc.Candidates(entities.ExtractedCase{Condition: condition}), entities.ExtractedCase{Telehealth: boolPtr(true)})
		for _, s := range ranked {
			assert.True(t, s.Telehealth, "%s: %s", condition, s.ID)
		}
	}
}

func TestNewMatchCatalog_Rejects(t *testing.T) {
	_, err := NewMatchCatalog(strings.NewReader(`{"conditions":{}}`))
	assert.Error(t, err)

	_, err = NewMatchCatalog(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestMatchCatalog_ConditionStemsMatch(t *testing.T) {
	mc := loadShippedMatchCatalog(t)

	assert.ElementsMatch(t, []string{"cystic fibrosis", "huntington", "osteoradionecrosis"}, mc.Conditions())

	tests := []struct {
		condition entities.Condition
		firstID   string
	}{
		{"Huntington", "thorne"},
		{"huntington's chorea", "thorne"},
		{"Cystic fibrosis, adult", "petrova"},
		{"OSTEORADIONECROSIS", "vance"},
	}
	for _, tt := range tests {
		t.Run(string(tt.condition), func(t *testing.T) {
			got := mc.Candidates(entities.ExtractedCase{Condition: tt.condition})
			require.NotEmpty(t, got)
			assert.Equal(t, tt.firstID, got[0].ID)
		})
	}
}
