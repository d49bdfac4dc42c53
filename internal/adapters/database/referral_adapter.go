package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/repositories"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/aiclinimatch/pkg/errors"
)

const referralsTable = "referrals"

var referralColumns = []interface{}{
	"id", "patient_name", "specialist_id", "specialist_name", "condition",
	"urgency", "insurance", "reason", "status", "document_count",
	"created_at", "updated_at",
}

// ReferralAdapter implements the ReferralRepository interface
type ReferralAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReferralAdapter creates a new referral adapter
func NewReferralAdapter(client *postgres.Client) repositories.ReferralRepository {
	return &ReferralAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create stores a new referral
func (a *ReferralAdapter) Create(ctx context.Context, referral *entities.Referral) error {
	record := goqu.Record{
		"id":              referral.ID,
		"patient_name":    referral.PatientName,
		"specialist_id":   referral.SpecialistID,
		"specialist_name": referral.SpecialistName,
		"condition":       referral.Condition,
		"urgency":         string(referral.Urgency),
		"insurance":       referral.Insurance,
		"reason":          referral.Reason,
		"status":          string(referral.Status),
		"document_count":  referral.DocumentCount,
		"created_at":      referral.CreatedAt,
		"updated_at":      referral.UpdatedAt,
	}

	query, args, err := a.db.Insert(referralsTable).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create referral", err)
	}
	return nil
}

// GetByID retrieves a referral by ID
func (a *ReferralAdapter) GetByID(ctx context.Context, id string) (*entities.Referral, error) {
	query, args, err := a.db.Select(referralColumns...).
		From(referralsTable).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	referral, err := scanReferral(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("referral with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get referral", err)
	}
	return referral, nil
}

// List returns the most recent referrals first
func (a *ReferralAdapter) List(ctx context.Context, limit int) ([]*entities.Referral, error) {
	query, args, err := a.db.Select(referralColumns...).
		From(referralsTable).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list referrals", err)
	}
	defer rows.Close()

	referrals := make([]*entities.Referral, 0)
	for rows.Next() {
		referral, err := scanReferral(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan referral", err)
		}
		referrals = append(referrals, referral)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate referrals", err)
	}

	return referrals, nil
}

// UpdateStatus sets the status of a referral unless it is already final
func (a *ReferralAdapter) UpdateStatus(ctx context.Context, id string, status entities.ReferralStatus) error {
	final := make([]interface{}, 0, 2)
	for _, s := range entities.FinalReferralStatuses() {
		final = append(final, string(s))
	}

	query, args, err := a.db.Update(referralsTable).
		Set(goqu.Record{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		}).
		Where(
			goqu.C("id").Eq(id),
			goqu.Or(
				goqu.C("status").NotIn(final...),
				goqu.C("status").Eq(string(status)),
			),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update referral", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the referral is missing or it is final.
	current, err := a.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return apperrors.NewConflictError(fmt.Sprintf("referral is already %s", current.Status))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReferral(row rowScanner) (*entities.Referral, error) {
	referral := &entities.Referral{}
	var urgency, status string

	err := row.Scan(
		&referral.ID,
		&referral.PatientName,
		&referral.SpecialistID,
		&referral.SpecialistName,
		&referral.Condition,
		&urgency,
		&referral.Insurance,
		&referral.Reason,
		&status,
		&referral.DocumentCount,
		&referral.CreatedAt,
		&referral.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	referral.Urgency = entities.Urgency(urgency)
	referral.Status = entities.ReferralStatus(status)
	return referral, nil
}
