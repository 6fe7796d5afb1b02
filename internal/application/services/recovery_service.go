package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/careloop/symptom-intake/internal/adapters/state"
	"github.com/careloop/symptom-intake/internal/domain/entities"
	"github.com/careloop/symptom-intake/internal/domain/repositories"
	apperrors "github.com/careloop/symptom-intake/pkg/errors"
)

// RecoveryService decides when to surface the one-time recovery
// check-in for a stale consultation, and persists the patient's
// resolution back to the consultation store.
type RecoveryService struct {
	consultations repositories.ConsultationRepository
	store         *state.Store
	staleDays     int
}

// NewRecoveryService creates a new recovery service.
func NewRecoveryService(consultations repositories.ConsultationRepository, store *state.Store, staleDays int) *RecoveryService {
	if staleDays <= 0 {
		staleDays = 3
	}
	return &RecoveryService{
		consultations: consultations,
		store:         store,
		staleDays:     staleDays,
	}
}

// PromptCandidate scans the device's history and returns the first
// consultation old enough to ask about, unresolved, and not yet
// prompted. The prompted flag is set on surfacing, so a second
// dashboard load without a response does not re-prompt. Returns nil
// when nothing qualifies.
func (s *RecoveryService) PromptCandidate(ctx context.Context, deviceID string) (*entities.Consultation, error) {
	consultations, err := s.consultations.ListByDevice(ctx, deviceID, repositories.ConsultationFilter{})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, consultation := range consultations {
		if !consultation.IsStale(s.staleDays, now) {
			continue
		}

		prompted, err := s.store.WasPrompted(ctx, deviceID, consultation.ID)
		if err != nil {
			return nil, err
		}
		if prompted {
			continue
		}

		if err := s.store.MarkPrompted(ctx, deviceID, consultation.ID); err != nil {
			return nil, err
		}

		log.Info().
			Str("device_id", deviceID).
			Str("consultation_id", consultation.ID).
			Msg("surfacing recovery prompt")
		return consultation, nil
	}

	return nil, nil
}

// ResolutionInput is the patient's answer to the recovery prompt.
type ResolutionInput struct {
	IsResolved       bool   `json:"is_resolved"`
	RecoveryNotes    string `json:"recovery_notes"`
	FollowUpRequired bool   `json:"follow_up_required"`
}

// Resolve writes the resolution fields back to the consultation.
func (s *RecoveryService) Resolve(ctx context.Context, consultationID string, input ResolutionInput) error {
	if strings.TrimSpace(consultationID) == "" {
		return apperrors.NewValidationError("consultation id is required")
	}

	now := time.Now().UTC()
	recovery := entities.RecoveryStatus{
		IsResolved:       &input.IsResolved,
		RecoveryNotes:    strings.TrimSpace(input.RecoveryNotes),
		FollowUpRequired: &input.FollowUpRequired,
	}
	if input.IsResolved {
		recovery.ResolvedAt = &now
	}

	return s.consultations.UpdateRecovery(ctx, consultationID, recovery)
}
