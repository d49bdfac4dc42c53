package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/providers"
	"github.com/zatekoja/aiclinimatch/internal/domain/repositories"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/aiclinimatch/pkg/errors"
)

const (
	defaultReferralListLimit = 50
	maxReferralListLimit     = 200
)

// allowedDocumentTypes are the attachment extensions a referral may carry.
var allowedDocumentTypes = map[string]struct{}{
	".pdf": {}, ".docx": {}, ".jpg": {}, ".jpeg": {}, ".png": {}, ".dcm": {},
}

// SubmitReferralRequest is the input for a new referral.
type SubmitReferralRequest struct {
	PatientName  string           `json:"patient_name"`
	SpecialistID string           `json:"specialist_id"`
	Condition    string           `json:"condition"`
	Urgency      entities.Urgency `json:"urgency"`
	Insurance    string           `json:"insurance"`
	Reason       string           `json:"reason"`
	Documents    []string         `json:"documents"`
}

// ReferralService handles referral submission and the referral dashboard.
type ReferralService struct {
	repo        repositories.ReferralRepository
	specialists repositories.SpecialistRepository
	eventBus    providers.EventBus
	now         func() time.Time
}

// NewReferralService creates a new referral service. eventBus may be nil.
func NewReferralService(repo repositories.ReferralRepository, specialists repositories.SpecialistRepository, eventBus providers.EventBus) *ReferralService {
	return &ReferralService{
		repo:        repo,
		specialists: specialists,
		eventBus:    eventBus,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates and stores a referral, then announces it on the event bus.
func (s *ReferralService) Submit(ctx context.Context, req SubmitReferralRequest) (*entities.Referral, error) {
	if err := validateSubmit(req); err != nil {
		return nil, err
	}

	specialist, err := s.specialists.GetByID(ctx, req.SpecialistID)
	if err != nil {
		return nil, err
	}
	if !specialist.AcceptingNewPatients {
		return nil, apperrors.NewConflictError(fmt.Sprintf("%s is not accepting referrals", specialist.Name))
	}

	now := s.now()
	referral := &entities.Referral{
		ID:             uuid.NewString(),
		PatientName:    strings.TrimSpace(req.PatientName),
		SpecialistID:   specialist.ID,
		SpecialistName: specialist.Name,
		Condition:      strings.TrimSpace(req.Condition),
		Urgency:        req.Urgency,
		Insurance:      strings.TrimSpace(req.Insurance),
		Reason:         strings.TrimSpace(req.Reason),
		Status:         entities.ReferralStatusPending,
		Documents:      req.Documents,
		DocumentCount:  len(req.Documents),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, referral); err != nil {
		return nil, err
	}

	s.publish(ctx, entities.ReferralEventCreated, referral)
	return referral, nil
}

// List returns recent referrals, newest first.
func (s *ReferralService) List(ctx context.Context, limit int) ([]*entities.Referral, error) {
	if limit <= 0 {
		limit = defaultReferralListLimit
	}
	if limit > maxReferralListLimit {
		limit = maxReferralListLimit
	}
	return s.repo.List(ctx, limit)
}

// UpdateStatus moves a referral to status. Completed and cancelled referrals are final.
func (s *ReferralService) UpdateStatus(ctx context.Context, id string, status entities.ReferralStatus) (*entities.Referral, error) {
	if !status.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown referral status %q", status))
	}

	referral, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if referral.Status == status {
		return referral, nil
	}
	if referral.Status.IsFinal() {
		return nil, apperrors.NewConflictError(fmt.Sprintf("referral is already %s", referral.Status))
	}

	// The repository rechecks the final states; another request may have
	// closed the referral since it was read.
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	referral.Status = status
	referral.UpdatedAt = s.now()

	s.publish(ctx, entities.ReferralEventStatusChanged, referral)
	return referral, nil
}

func (s *ReferralService) publish(ctx context.Context, eventType entities.ReferralEventType, referral *entities.Referral) {
	if s.eventBus == nil {
		return
	}

	event := &entities.ReferralEvent{
		ID:           uuid.NewString(),
		Type:         eventType,
		ReferralID:   referral.ID,
		SpecialistID: referral.SpecialistID,
		Status:       referral.Status,
		Timestamp:    s.now(),
	}

	for _, channel := range []string{providers.EventChannelReferrals, providers.SpecialistChannel(referral.SpecialistID)} {
		if err := s.eventBus.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("channel", channel).
				Str("referral_id", referral.ID).
				Msg("failed to publish referral event")
		}
	}
}

func validateSubmit(req SubmitReferralRequest) error {
	if strings.TrimSpace(req.PatientName) == "" {
		return apperrors.NewValidationError("patient name is required")
	}
	if strings.TrimSpace(req.SpecialistID) == "" {
		return apperrors.NewValidationError("specialist id is required")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return apperrors.NewValidationError("reason for referral is required")
	}
	if req.Urgency != "" && !req.Urgency.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown urgency %q", req.Urgency))
	}
	for _, name := range req.Documents {
		if !IsAllowedDocument(name) {
			return apperrors.NewValidationError(fmt.Sprintf("document %q has an unsupported file type", name))
		}
	}
	return nil
}

// IsAllowedDocument reports whether name has an accepted attachment extension.
func IsAllowedDocument(name string) bool {
	_, ok := allowedDocumentTypes[strings.ToLower(filepath.Ext(strings.TrimSpace(name)))]
	return ok
}
