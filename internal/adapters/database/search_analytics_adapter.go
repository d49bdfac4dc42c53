package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/repositories"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/aiclinimatch/pkg/errors"
)

type SearchAnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

func NewSearchAnalyticsAdapter(client *postgres.Client) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query, args, err := a.db.Insert("search_events").Prepared(true).Rows(goqu.Record{
		"id":                event.ID,
		"query":             event.Query,
		"location_term":     event.LocationTerm,
		"proximity_applied": event.ProximityApplied,
		"radius_miles":      event.RadiusMiles,
		"result_count":      event.ResultCount,
		"latency_ms":        event.LatencyMs,
		"created_at":        event.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}

	return nil
}

func (a *SearchAnalyticsAdapter) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := a.db.Select(
		"id", "query", "location_term", "proximity_applied", "radius_miles",
		"result_count", "latency_ms", "created_at",
	).From("search_events").
		Where(goqu.Ex{"result_count": 0}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}
	defer rows.Close()

	var events []*entities.SearchEvent
	for rows.Next() {
		e := &entities.SearchEvent{}
		err := rows.Scan(
			&e.ID,
			&e.Query,
			&e.LocationTerm,
			&e.ProximityApplied,
			&e.RadiusMiles,
			&e.ResultCount,
			&e.LatencyMs,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
