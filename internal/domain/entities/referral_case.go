package entities

// Urgency is how soon the referred patient needs to be seen.
type Urgency string

const (
	UrgencyRoutine Urgency = "routine"
	UrgencyUrgent  Urgency = "urgent"
	UrgencyStat    Urgency = "stat"
)

// IsValid reports whether u is one of the known urgency levels.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyRoutine, UrgencyUrgent, UrgencyStat:
		return true
	}
	return false
}

// Condition is a clinical condition from the fixed extraction vocabulary.
type Condition string

const (
	ConditionCysticFibrosis     Condition = "Cystic Fibrosis"
	ConditionHuntingtons        Condition = "Huntington's Disease"
	ConditionOsteoradionecrosis Condition = "Osteoradionecrosis"
	ConditionEhlersDanlos       Condition = "Ehlers-Danlos Syndrome"
	ConditionLeukemia           Condition = "Leukemia"
	ConditionParkinsons         Condition = "Parkinson's Disease"
)

// ExtractedCase holds the structured referral fields derived from free text.
// The zero value of each field means "unset".
type ExtractedCase struct {
	Condition              Condition `json:"condition,omitempty"`
	Urgency                Urgency   `json:"urgency,omitempty"`
	Insurance              string    `json:"insurance,omitempty"`
	Location               string    `json:"location,omitempty"`
	Telehealth             *bool     `json:"telehealth,omitempty"`
	PreferredDistanceMiles *int      `json:"preferred_distance,omitempty"`
	Notes                  string    `json:"notes,omitempty"`
}

// Merge returns c with every field of partial that c has not set yet.
// Fields already set on c are never replaced.
func (c ExtractedCase) Merge(partial ExtractedCase) ExtractedCase {
	out := c
	if out.Condition == "" {
		out.Condition = partial.Condition
	}
	if out.Urgency == "" {
		out.Urgency = partial.Urgency
	}
	if out.Insurance == "" {
		out.Insurance = partial.Insurance
	}
	if out.Location == "" {
		out.Location = partial.Location
	}
	if out.Telehealth == nil {
		out.Telehealth = partial.Telehealth
	}
	if out.PreferredDistanceMiles == nil {
		out.PreferredDistanceMiles = partial.PreferredDistanceMiles
	}
	if out.Notes == "" {
		out.Notes = partial.Notes
	}
	return out
}

// IsEmpty reports whether no field is set.
func (c ExtractedCase) IsEmpty() bool {
	return c.Condition == "" && c.Urgency == "" && c.Insurance == "" && c.Location == "" &&
		c.Telehealth == nil && c.PreferredDistanceMiles == nil && c.Notes == ""
}

// WantsTelehealth reports whether an explicit telehealth preference of true is present.
func (c ExtractedCase) WantsTelehealth() bool {
	return c.Telehealth != nil && *c.Telehealth
}
