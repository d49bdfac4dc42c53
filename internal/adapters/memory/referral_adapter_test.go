package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	apperrors "github.com/zatekoja/aiclinimatch/pkg/errors"
)

func TestReferralAdapter_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewReferralAdapter()
	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &entities.Referral{ID: "old", Status: entities.ReferralStatusPending, CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &entities.Referral{ID: "new", Status: entities.ReferralStatusPending, CreatedAt: base.Add(time.Hour)}))

	err := repo.Create(ctx, &entities.Referral{ID: "old"})
	assert.True(t, apperrors.IsConflict(err))

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)

	list, err = repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.UpdateStatus(ctx, "old", entities.ReferralStatusCompleted))
	got, err := repo.GetByID(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, entities.ReferralStatusCompleted, got.Status)

	assert.True(t, apperrors.IsNotFound(repo.UpdateStatus(ctx, "missing", entities.ReferralStatusCompleted)))
	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReferralAdapter_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewReferralAdapter()
	original := &entities.Referral{ID: "r1", Status: entities.ReferralStatusPending, Documents: []string{"a.pdf"}}
	require.NoError(t, repo.Create(ctx, original))

	original.Status = entities.ReferralStatusCancelled
	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	got.Documents[0] = "changed.pdf"

	again, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, entities.ReferralStatusPending, again.Status)
	assert.Equal(t, []string{"a.pdf"}, again.Documents)
}

func TestReferralAdapter_FinalStatusesAreKept(t *testing.T) {
	ctx := context.Background()
	repo := NewReferralAdapter()
	require.NoError(t, repo.Create(ctx, &entities.Referral{ID: "r1", Status: entities.ReferralStatusPending}))

	require.NoError(t, repo.UpdateStatus(ctx, "r1", entities.ReferralStatusCancelled))
	require.NoError(t, repo.UpdateStatus(ctx, "r1", entities.ReferralStatusCancelled))

	err := repo.UpdateStatus(ctx, "r1", entities.ReferralStatusInProgress)
	assert.True(t, apperrors.IsConflict(err))

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, entities.ReferralStatusCancelled, got.Status)
}

func TestReferralAdapter_ConcurrentClosesPickOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewReferralAdapter()
	require.NoError(t, repo.Create(ctx, &entities.Referral{ID: "r1", Status: entities.ReferralStatusPending}))

	statuses := []entities.ReferralStatus{entities.ReferralStatusCompleted, entities.ReferralStatusCancelled}
	const rounds = 20
	errs := make([]error, rounds)
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.UpdateStatus(ctx, "r1", statuses[i%2])
		}(i)
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	for i, err := range errs {
		if statuses[i%2] == got.Status {
			assert.NoError(t, err)
		} else {
			assert.True(t, apperrors.IsConflict(err))
		}
	}
}
