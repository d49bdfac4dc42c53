package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/repositories"
	apperrors "github.com/zatekoja/aiclinimatch/pkg/errors"
)

const maxZeroResultQueries = 500

type SearchAnalyticsService struct {
	repo repositories.SearchAnalyticsRepository
}

func NewSearchAnalyticsService(repo repositories.SearchAnalyticsRepository) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo}
}

// TrackSearch logs the event in the background; failures are only logged.
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	go func() {
		// Detached from the request so a finished response does not cancel the write
		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := s.repo.LogEvent(bgCtx, event); err != nil {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("failed to log search event")
		}
	}()
}

func (s *SearchAnalyticsService) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 || limit > maxZeroResultQueries {
		return nil, apperrors.NewValidationError("limit must be between 1 and 500")
	}
	return s.repo.GetZeroResultQueries(ctx, limit)
}
