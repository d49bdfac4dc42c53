package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractedCase_MergeKeepsExistingFields(t *testing.T) {
	yes := true
	current := ExtractedCase{Condition: ConditionCysticFibrosis, Notes: "first"}
	partial := ExtractedCase{
		Condition:  ConditionLeukemia,
		Urgency:    UrgencyStat,
		Telehealth: &yes,
		Notes:      "second",
	}

	merged := current.Merge(partial)

	assert.Equal(t, ConditionCysticFibrosis, merged.Condition)
	assert.Equal(t, UrgencyStat, merged.Urgency)
	assert.True(t, merged.WantsTelehealth())
	assert.Equal(t, "first", merged.Notes)
	// the receiver is a value; the original is untouched
	assert.Empty(t, current.Urgency)
}

func TestExtractedCase_IsEmpty(t *testing.T) {
	assert.True(t, ExtractedCase{}.IsEmpty())

	miles := 25
	assert.False(t, ExtractedCase{PreferredDistanceMiles: &miles}.IsEmpty())
}

func TestUrgency_IsValid(t *testing.T) {
	assert.True(t, UrgencyRoutine.IsValid())
	assert.True(t, Urgency("stat").IsValid())
	assert.False(t, Urgency("whenever").IsValid())
}
