package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/careloop/symptom-intake/internal/adapters/state"
	"github.com/careloop/symptom-intake/internal/domain/entities"
	apperrors "github.com/careloop/symptom-intake/pkg/errors"
)

const topSymptomLimit = 10

// DashboardView is everything the dashboard renders for one device.
type DashboardView struct {
	Metrics        *entities.HealthMetrics `json:"metrics"`
	ActiveRisk     *entities.RiskRecord    `json:"active_risk,omitempty"`
	RecoveryPrompt *entities.Consultation  `json:"recovery_prompt,omitempty"`
	TopSymptoms    []WordCount             `json:"top_symptoms,omitempty"`
}

// DashboardService assembles the dashboard. Loading it always runs the
// follow-up catch-up check first, before anything else touches the
// schedule state.
type DashboardService struct {
	scheduler *FollowUpScheduler
	store     *state.Store
	recovery  *RecoveryService
	analytics *AnalyticsService
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(
	scheduler *FollowUpScheduler,
	store *state.Store,
	recovery *RecoveryService,
	analytics *AnalyticsService,
) *DashboardService {
	return &DashboardService{
		scheduler: scheduler,
		store:     store,
		recovery:  recovery,
		analytics: analytics,
	}
}

// Load builds the dashboard view for a device.
func (s *DashboardService) Load(ctx context.Context, deviceID string) (*DashboardView, error) {
	if err := s.scheduler.CatchUp(ctx, deviceID); err != nil {
		// Overdue delivery failures never block the dashboard.
		log.Warn().Err(err).Str("device_id", deviceID).Msg("dashboard catch-up failed")
	}

	metrics, err := s.store.GetMetrics(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	view := &DashboardView{Metrics: metrics}

	risk, err := s.store.GetRisk(ctx, deviceID)
	if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}
	view.ActiveRisk = risk

	prompt, err := s.recovery.PromptCandidate(ctx, deviceID)
	if err != nil {
		log.Warn().Err(err).Str("device_id", deviceID).Msg("recovery prompt scan failed")
	} else {
		view.RecoveryPrompt = prompt
	}

	symptoms, err := s.analytics.SymptomDistribution(ctx, deviceID, topSymptomLimit)
	if err != nil {
		log.Warn().Err(err).Str("device_id", deviceID).Msg("symptom distribution failed")
	} else {
		view.TopSymptoms = symptoms
	}

	return view, nil
}
