package entities

import "time"

// ReferralStatus tracks a submitted referral through the dashboard.
type ReferralStatus string

const (
	ReferralStatusPending    ReferralStatus = "pending"
	ReferralStatusInProgress ReferralStatus = "in_progress"
	ReferralStatusCompleted  ReferralStatus = "completed"
	ReferralStatusCancelled  ReferralStatus = "cancelled"
)

// IsFinal reports whether s accepts no further status changes.
func (s ReferralStatus) IsFinal() bool {
	return s == ReferralStatusCompleted || s == ReferralStatusCancelled
}

// FinalReferralStatuses lists the statuses a referral never leaves.
func FinalReferralStatuses() []ReferralStatus {
	return []ReferralStatus{ReferralStatusCompleted, ReferralStatusCancelled}
}

// IsValid reports whether s is a known status.
func (s ReferralStatus) IsValid() bool {
	switch s {
	case ReferralStatusPending, ReferralStatusInProgress, ReferralStatusCompleted, ReferralStatusCancelled:
		return true
	}
	return false
}

// Referral is a patient referral submitted to a specialist.
type Referral struct {
	ID             string         `json:"id" db:"id"`
	PatientName    string         `json:"patient_name" db:"patient_name"`
	SpecialistID   string         `json:"specialist_id" db:"specialist_id"`
	SpecialistName string         `json:"specialist_name" db:"specialist_name"`
	Condition      string         `json:"condition,omitempty" db:"condition"`
	Urgency        Urgency        `json:"urgency,omitempty" db:"urgency"`
	Insurance      string         `json:"insurance,omitempty" db:"insurance"`
	Reason         string         `json:"reason" db:"reason"`
	Status         ReferralStatus `json:"status" db:"status"`
	Documents      []string       `json:"documents,omitempty" db:"-"`
	DocumentCount  int            `json:"document_count" db:"document_count"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}
