package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/careloop/symptom-intake/internal/adapters/state"
	"github.com/careloop/symptom-intake/internal/domain/entities"
	"github.com/careloop/symptom-intake/internal/domain/providers"
	"github.com/careloop/symptom-intake/internal/domain/repositories"
	"github.com/careloop/symptom-intake/internal/engine"
	"github.com/careloop/symptom-intake/internal/infrastructure/observability"
	apperrors "github.com/careloop/symptom-intake/pkg/errors"
)

// SubmitConsultationInput is one symptom-intake submission.
type SubmitConsultationInput struct {
	DeviceID string
	Symptoms string
	// Illness is an optional diagnosis hint; when empty the advice
	// collaborator's illness is used instead.
	Illness  string
	Location string
	Contact  FollowUpContact
}

// ConsultationResult is what a submission produces: the stored
// consultation, its risk record, and the classifier's assessment.
type ConsultationResult struct {
	Consultation *entities.Consultation `json:"consultation"`
	Risk         *entities.RiskRecord   `json:"risk"`
	Assessment   entities.Assessment    `json:"assessment"`
}

// TriageService runs the submission flow: advice, confidence score,
// risk classification, persistence, follow-up scheduling.
type TriageService struct {
	consultations repositories.ConsultationRepository
	advice        providers.AdviceProvider
	store         *state.Store
	scheduler     *FollowUpScheduler
	metrics       *observability.Metrics
}

// NewTriageService creates a new triage service.
func NewTriageService(
	consultations repositories.ConsultationRepository,
	advice providers.AdviceProvider,
	store *state.Store,
	scheduler *FollowUpScheduler,
	metrics *observability.Metrics,
) *TriageService {
	return &TriageService{
		consultations: consultations,
		advice:        advice,
		store:         store,
		scheduler:     scheduler,
		metrics:       metrics,
	}
}

// Submit processes one consultation end to end. Advice failures are
// contained: the engine degrades to its fallback scoring path instead
// of failing the submission.
func (s *TriageService) Submit(ctx context.Context, input SubmitConsultationInput) (*ConsultationResult, error) {
	symptoms := strings.TrimSpace(input.Symptoms)
	if symptoms == "" {
		return nil, apperrors.NewValidationError("symptoms are required")
	}

	var advice *entities.Advice
	if s.advice != nil {
		generated, err := s.advice.GenerateAdvice(ctx, symptoms)
		if err != nil {
			log.Warn().Err(err).
				Str("device_id", input.DeviceID).
				Msg("advice generation failed, scoring without it")
		} else {
			advice = generated
		}
	}

	illness := strings.TrimSpace(input.Illness)
	if illness == "" && advice != nil && advice.Illness != nil {
		illness = *advice.Illness
	}

	confidence := engine.Score(symptoms, illness)
	if external := advice.ExternalConfidence(); external > 0 {
		confidence = external
	}

	assessment := engine.Classify(illness, symptoms, advice)
	observability.RecordScoreComputed(ctx, s.metrics, string(assessment.Severity))

	now := time.Now().UTC()
	consultation := &entities.Consultation{
		ID:         uuid.New().String(),
		DeviceID:   input.DeviceID,
		Symptoms:   symptoms,
		Illness:    illness,
		Advice:     advice,
		Confidence: confidence,
		Severity:   assessment.Severity,
		Location:   input.Location,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.consultations.Create(ctx, consultation); err != nil {
		return nil, err
	}

	record := &entities.RiskRecord{
		ID:             uuid.New().String(),
		ConsultationID: consultation.ID,
		Severity:       assessment.Severity,
		Urgency:        assessment.Urgency,
		FollowUpHours:  assessment.FollowUpHours,
		FollowUpDate:   now.Add(time.Duration(assessment.FollowUpHours[0]) * time.Hour),
		FollowUpNeeded: assessment.FollowUpNeeded,
		Confidence:     confidence,
		CreatedAt:      now,
	}

	if err := s.store.SaveRisk(ctx, input.DeviceID, record); err != nil {
		return nil, err
	}

	if assessment.FollowUpNeeded && s.scheduler != nil {
		if _, err := s.scheduler.Schedule(ctx, input.DeviceID, record, input.Contact); err != nil {
			// The consultation and risk record stand; only the
			// check-in is lost until the next submission.
			log.Error().Err(err).
				Str("device_id", input.DeviceID).
				Str("risk_id", record.ID).
				Msg("failed to schedule follow-up")
		}
	}

	log.Info().
		Str("device_id", input.DeviceID).
		Str("consultation_id", consultation.ID).
		Str("severity", string(assessment.Severity)).
		Int("confidence", confidence).
		Msg("consultation triaged")

	return &ConsultationResult{
		Consultation: consultation,
		Risk:         record,
		Assessment:   assessment,
	}, nil
}

// GetConsultation loads one consultation by id.
func (s *TriageService) GetConsultation(ctx context.Context, id string) (*entities.Consultation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("consultation id is required")
	}
	return s.consultations.GetByID(ctx, id)
}

// ListHistory returns a device's consultation history, newest first.
func (s *TriageService) ListHistory(ctx context.Context, deviceID string, filter repositories.ConsultationFilter) ([]*entities.Consultation, error) {
	return s.consultations.ListByDevice(ctx, deviceID, filter)
}
