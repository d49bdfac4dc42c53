package entities

import "time"

// ReferralEventType identifies what happened to a referral.
type ReferralEventType string

const (
	ReferralEventCreated       ReferralEventType = "referral.created"
	ReferralEventStatusChanged ReferralEventType = "referral.status_changed"
)

// ReferralEvent is published on the event bus when a referral changes.
type ReferralEvent struct {
	ID           string            `json:"id"`
	Type         ReferralEventType `json:"type"`
	ReferralID   string            `json:"referral_id"`
	SpecialistID string            `json:"specialist_id"`
	Status       ReferralStatus    `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
}
