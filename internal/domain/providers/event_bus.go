package providers

import (
	"context"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to referral events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ReferralEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ReferralEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelReferrals carries every referral event
	EventChannelReferrals = "referrals:updates"

	// EventChannelSpecialistPrefix is the prefix for per-specialist channels
	EventChannelSpecialistPrefix = "specialist:"
)

// SpecialistChannel returns the channel name for referrals addressed to one specialist
func SpecialistChannel(specialistID string) string {
	return EventChannelSpecialistPrefix + specialistID
}
