package repositories

import (
	"context"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

// ReferralRepository defines the interface for referral data operations
type ReferralRepository interface {
	// Create stores a new referral
	Create(ctx context.Context, referral *entities.Referral) error

	// GetByID retrieves a referral by ID
	GetByID(ctx context.Context, id string) (*entities.Referral, error)

	// List returns the most recent referrals first
	List(ctx context.Context, limit int) ([]*entities.Referral, error)

	// UpdateStatus changes the status of a referral. A referral in a final
	// status only accepts that same status again; anything else is a conflict.
	// The check and the write happen atomically.
	UpdateStatus(ctx context.Context, id string, status entities.ReferralStatus) error
}
