package services

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/careloop/symptom-intake/internal/adapters/state"
	"github.com/careloop/symptom-intake/internal/domain/entities"
	"github.com/careloop/symptom-intake/internal/domain/providers"
	apperrors "github.com/careloop/symptom-intake/pkg/errors"
)

const (
	DecisionYes = "yes"
	DecisionNo  = "no"
)

// OutcomeService folds the patient's yes/no follow-up response back
// into the running health metrics, scaled by the risk record's
// originally stored confidence.
type OutcomeService struct {
	store    *state.Store
	eventBus providers.EventBus
}

// NewOutcomeService creates a new outcome service.
func NewOutcomeService(store *state.Store, eventBus providers.EventBus) *OutcomeService {
	return &OutcomeService{store: store, eventBus: eventBus}
}

// OutcomeResult is the state after one response was applied.
type OutcomeResult struct {
	Metrics *entities.HealthMetrics `json:"metrics"`
	Risk    *entities.RiskRecord    `json:"risk"`
}

// Respond applies a follow-up decision. An absent or unknown risk id
// falls back to the currently active record rather than failing the
// request. A repeated visit on the same link re-applies the delta;
// there is no single-use guard on the action URLs.
func (s *OutcomeService) Respond(ctx context.Context, deviceID, riskID, decision string) (*OutcomeResult, error) {
	if decision != DecisionYes && decision != DecisionNo {
		return nil, apperrors.NewValidationError("decision must be yes or no")
	}

	record, err := s.store.GetRisk(ctx, deviceID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewNotFoundError("no active risk record for device")
		}
		return nil, err
	}
	if riskID != "" && record.ID != riskID {
		log.Warn().
			Str("device_id", deviceID).
			Str("requested_risk_id", riskID).
			Str("active_risk_id", record.ID).
			Msg("follow-up response for superseded risk record, applying to active one")
	}

	healthDelta, recoveryDelta := outcomeDeltas(record.Confidence)
	if decision == DecisionNo {
		healthDelta = -healthDelta
		recoveryDelta = -recoveryDelta
	}

	metrics, err := s.store.UpdateMetrics(ctx, deviceID, func(m *entities.HealthMetrics) {
		m.Apply(healthDelta, recoveryDelta)
	})
	if err != nil {
		return nil, err
	}

	record.Responded = true
	if decision == DecisionYes {
		record.Outcome = entities.OutcomeImproved
		record.NeedsReassessment = false
	} else {
		record.Outcome = entities.OutcomeWorse
		record.NeedsReassessment = true
	}
	if err := s.store.SaveRisk(ctx, deviceID, record); err != nil {
		return nil, err
	}

	s.publishResponded(ctx, deviceID, record)

	log.Info().
		Str("device_id", deviceID).
		Str("risk_id", record.ID).
		Str("decision", decision).
		Int("health_score", metrics.HealthScore).
		Int("recovery_rate", metrics.RecoveryRate).
		Msg("follow-up response recorded")

	return &OutcomeResult{Metrics: metrics, Risk: record}, nil
}

// outcomeDeltas derives the metric swing from the stored confidence.
// Higher original diagnostic confidence moves the metrics further in
// either direction: health 2-7, recovery 4-14.
func outcomeDeltas(confidence int) (healthDelta, recoveryDelta int) {
	c := float64(confidence)
	healthDelta = int(math.Round(2 + c/20))
	if healthDelta < 2 {
		healthDelta = 2
	}
	recoveryDelta = int(math.Round(4 + c/10))
	if recoveryDelta < 4 {
		recoveryDelta = 4
	}
	return healthDelta, recoveryDelta
}

func (s *OutcomeService) publishResponded(ctx context.Context, deviceID string, record *entities.RiskRecord) {
	if s.eventBus == nil {
		return
	}
	event := &entities.FollowUpEvent{
		Type:      entities.FollowUpEventResponded,
		DeviceID:  deviceID,
		RiskID:    record.ID,
		Severity:  record.Severity,
		Outcome:   record.Outcome,
		Timestamp: time.Now().UTC(),
	}
	for _, channel := range []string{providers.EventChannelFollowUps, providers.GetDeviceChannel(deviceID)} {
		if err := s.eventBus.Publish(ctx, channel, event); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("failed to publish response event")
		}
	}
}
