package entities

import "strings"

// Specialist is a referral target in the candidate catalog. Records are
// created once at catalog load and are not mutated while queries run.
type Specialist struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Specialty            string        `json:"specialty"`
	Subspecialty         string        `json:"sub_specialty,omitempty"`
	Institution          string        `json:"institution,omitempty"`
	Location             string        `json:"location"`
	Coordinate           *Coordinate   `json:"coordinate,omitempty"`
	InsuranceAccepted    []string      `json:"insurance_accepted,omitempty"`
	Telehealth           bool          `json:"telehealth"`
	AcceptingNewPatients bool          `json:"accepting"`
	Tags                 []string      `json:"tags,omitempty"`
	Keywords             string        `json:"keywords,omitempty"`
	Trials               []Trial       `json:"trials,omitempty"`
	MatchScore           int           `json:"match_score,omitempty"`
	MatchReasons         []string      `json:"match_reasons,omitempty"`
	WaitTime             string        `json:"wait_time,omitempty"`
	AcceptanceRate       int           `json:"acceptance_rate,omitempty"`
	Bio                  string        `json:"bio,omitempty"`
	ImageURL             string        `json:"img,omitempty"`
	ReferralInfo         *ReferralInfo `json:"referral_info,omitempty"`
}

// Trial is a clinical trial a specialist is running.
type Trial struct {
	ID          string `json:"id"`
	Description string `json:"desc"`
}

// ReferralInfo describes how a specialist takes referrals.
type ReferralInfo struct {
	Accepted string `json:"accepted,omitempty"`
	Protocol string `json:"protocol,omitempty"`
	Contact  string `json:"contact,omitempty"`
}

// SearchableKeywords is the lowercase text every free-text predicate is
// matched against: keywords, specialty and the comma-joined tags.
func (s *Specialist) SearchableKeywords() string {
	return strings.ToLower(s.Keywords + " " + s.Specialty + " " + strings.Join(s.Tags, ", "))
}

// Clone returns a copy whose slices can be modified without touching s.
func (s *Specialist) Clone() *Specialist {
	c := *s
	c.InsuranceAccepted = append([]string(nil), s.InsuranceAccepted...)
	c.Tags = append([]string(nil), s.Tags...)
	c.Trials = append([]Trial(nil), s.Trials...)
	c.MatchReasons = append([]string(nil), s.MatchReasons...)
	if s.Coordinate != nil {
		coord := *s.Coordinate
		c.Coordinate = &coord
	}
	return &c
}

// AcceptsInsurance reports whether any accepted plan contains plan, ignoring case.
func (s *Specialist) AcceptsInsurance(plan string) bool {
	needle := strings.ToLower(plan)
	for _, accepted := range s.InsuranceAccepted {
		if strings.Contains(strings.ToLower(accepted), needle) {
			return true
		}
	}
	return false
}
