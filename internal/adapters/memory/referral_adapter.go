package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/repositories"
	apperrors "github.com/zatekoja/aiclinimatch/pkg/errors"
)

// ReferralAdapter keeps referrals in process memory. It backs the referral
// dashboard when no database is configured; nothing survives a restart.
type ReferralAdapter struct {
	mu        sync.RWMutex
	referrals map[string]*entities.Referral
}

// NewReferralAdapter creates an empty in-memory referral store
func NewReferralAdapter() repositories.ReferralRepository {
	return &ReferralAdapter{referrals: make(map[string]*entities.Referral)}
}

func (a *ReferralAdapter) Create(_ context.Context, referral *entities.Referral) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.referrals[referral.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("referral with id %s already exists", referral.ID))
	}
	a.referrals[referral.ID] = copyReferral(referral)
	return nil
}

func (a *ReferralAdapter) GetByID(_ context.Context, id string) (*entities.Referral, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	referral, ok := a.referrals[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("referral with id %s not found", id))
	}
	return copyReferral(referral), nil
}

// List returns up to limit referrals, newest first
func (a *ReferralAdapter) List(_ context.Context, limit int) ([]*entities.Referral, error) {
	a.mu.RLock()
	out := make([]*entities.Referral, 0, len(a.referrals))
	for _, referral := range a.referrals {
		out = append(out, copyReferral(referral))
	}
	a.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (a *ReferralAdapter) UpdateStatus(_ context.Context, id string, status entities.ReferralStatus) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	referral, ok := a.referrals[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("referral with id %s not found", id))
	}
	if referral.Status.IsFinal() && referral.Status != status {
		return apperrors.NewConflictError(fmt.Sprintf("referral is already %s", referral.Status))
	}
	referral.Status = status
	referral.UpdatedAt = time.Now().UTC()
	return nil
}

func copyReferral(r *entities.Referral) *entities.Referral {
	c := *r
	c.Documents = append([]string(nil), r.Documents...)
	return &c
}
