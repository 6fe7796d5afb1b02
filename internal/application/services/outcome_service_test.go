package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careloop/symptom-intake/internal/adapters/state"
	"github.com/careloop/symptom-intake/internal/domain/entities"
	apperrors "github.com/careloop/symptom-intake/pkg/errors"
)

func newTestOutcomeService() (*OutcomeService, *state.Store, *fakeEventBus) {
	store := state.NewStore(newMemoryCache())
	bus := &fakeEventBus{}
	return NewOutcomeService(store, bus), store, bus
}

func saveActiveRisk(t *testing.T, store *state.Store, deviceID string, confidence int) *entities.RiskRecord {
	t.Helper()
	record := &entities.RiskRecord{
		ID:             "risk-1",
		ConsultationID: "consult-1",
		Severity:       entities.SeverityModerate,
		FollowUpHours:  [2]int{24, 48},
		FollowUpNeeded: true,
		Confidence:     confidence,
	}
	require.NoError(t, store.SaveRisk(context.Background(), deviceID, record))
	return record
}

func TestOutcomeService_Respond_Yes(t *testing.T) {
	service, store, bus := newTestOutcomeService()
	ctx := context.Background()
	saveActiveRisk(t, store, "device-1", 70)

	result, err := service.Respond(ctx, "device-1", "risk-1", DecisionYes)
	require.NoError(t, err)

	// c=70: health delta round(2+3.5)=6, recovery delta round(4+7)=11.
	assert.Equal(t, 86, result.Metrics.HealthScore)
	assert.Equal(t, 71, result.Metrics.RecoveryRate)

	assert.True(t, result.Risk.Responded)
	assert.Equal(t, entities.OutcomeImproved, result.Risk.Outcome)
	assert.False(t, result.Risk.NeedsReassessment)

	persisted, err := store.GetRisk(ctx, "device-1")
	require.NoError(t, err)
	assert.True(t, persisted.Responded)
	assert.Equal(t, entities.OutcomeImproved, persisted.Outcome)

	assert.Contains(t, bus.eventTypes(), entities.FollowUpEventResponded)
}

func TestOutcomeService_Respond_No(t *testing.T) {
	service, store, _ := newTestOutcomeService()
	ctx := context.Background()
	saveActiveRisk(t, store, "device-1", 70)

	result, err := service.Respond(ctx, "device-1", "risk-1", DecisionNo)
	require.NoError(t, err)

	assert.Equal(t, 74, result.Metrics.HealthScore)
	assert.Equal(t, 49, result.Metrics.RecoveryRate)
	assert.Equal(t, entities.OutcomeWorse, result.Risk.Outcome)
	assert.True(t, result.Risk.NeedsReassessment)
}

func TestOutcomeService_OutcomeSymmetry(t *testing.T) {
	// A yes and a no on records with the same confidence move the
	// metrics by equal magnitude in opposite directions.
	for _, confidence := range []int{0, 35, 70, 100} {
		serviceYes, storeYes, _ := newTestOutcomeService()
		serviceNo, storeNo, _ := newTestOutcomeService()
		ctx := context.Background()

		saveActiveRisk(t, storeYes, "device-1", confidence)
		saveActiveRisk(t, storeNo, "device-1", confidence)

		yes, err := serviceYes.Respond(ctx, "device-1", "risk-1", DecisionYes)
		require.NoError(t, err)
		no, err := serviceNo.Respond(ctx, "device-1", "risk-1", DecisionNo)
		require.NoError(t, err)

		upHealth := yes.Metrics.HealthScore - entities.DefaultHealthScore
		downHealth := entities.DefaultHealthScore - no.Metrics.HealthScore
		assert.Equal(t, upHealth, downHealth, "health delta for confidence %d", confidence)

		upRecovery := yes.Metrics.RecoveryRate - entities.DefaultRecoveryRate
		downRecovery := entities.DefaultRecoveryRate - no.Metrics.RecoveryRate
		assert.Equal(t, upRecovery, downRecovery, "recovery delta for confidence %d", confidence)
	}
}

func TestOutcomeService_MetricsClampTo100(t *testing.T) {
	service, store, _ := newTestOutcomeService()
	ctx := context.Background()
	saveActiveRisk(t, store, "device-1", 100)

	var last *OutcomeResult
	for i := 0; i < 10; i++ {
		result, err := service.Respond(ctx, "device-1", "risk-1", DecisionYes)
		require.NoError(t, err)
		last = result
	}

	assert.Equal(t, 100, last.Metrics.HealthScore)
	assert.Equal(t, 100, last.Metrics.RecoveryRate)
}

func TestOutcomeService_MetricsClampTo0(t *testing.T) {
	service, store, _ := newTestOutcomeService()
	ctx := context.Background()
	saveActiveRisk(t, store, "device-1", 100)

	var last *OutcomeResult
	for i := 0; i < 15; i++ {
		result, err := service.Respond(ctx, "device-1", "risk-1", DecisionNo)
		require.NoError(t, err)
		last = result
	}

	assert.Equal(t, 0, last.Metrics.HealthScore)
	assert.Equal(t, 0, last.Metrics.RecoveryRate)
}

func TestOutcomeService_UnknownRiskIDFallsBackToActive(t *testing.T) {
	service, store, _ := newTestOutcomeService()
	ctx := context.Background()
	saveActiveRisk(t, store, "device-1", 50)

	result, err := service.Respond(ctx, "device-1", "risk-stale", DecisionYes)
	require.NoError(t, err)
	assert.Equal(t, "risk-1", result.Risk.ID)
	assert.True(t, result.Risk.Responded)
}

func TestOutcomeService_EmptyRiskIDUsesActive(t *testing.T) {
	service, store, _ := newTestOutcomeService()
	ctx := context.Background()
	saveActiveRisk(t, store, "device-1", 50)

	result, err := service.Respond(ctx, "device-1", "", DecisionNo)
	require.NoError(t, err)
	assert.Equal(t, "risk-1", result.Risk.ID)
}

func TestOutcomeService_InvalidDecision(t *testing.T) {
	service, store, _ := newTestOutcomeService()
	saveActiveRisk(t, store, "device-1", 50)

	_, err := service.Respond(context.Background(), "device-1", "risk-1", "maybe")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestOutcomeService_NoActiveRisk(t *testing.T) {
	service, _, _ := newTestOutcomeService()

	_, err := service.Respond(context.Background(), "device-1", "risk-1", DecisionYes)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestOutcomeDeltas(t *testing.T) {
	tests := []struct {
		confidence   int
		wantHealth   int
		wantRecovery int
	}{
		{0, 2, 4},
		{20, 3, 6},
		{70, 6, 11},
		{100, 7, 14},
	}

	for _, tt := range tests {
		health, recovery := outcomeDeltas(tt.confidence)
		assert.Equal(t, tt.wantHealth, health, "health delta for confidence %d", tt.confidence)
		assert.Equal(t, tt.wantRecovery, recovery, "recovery delta for confidence %d", tt.confidence)
	}
}
