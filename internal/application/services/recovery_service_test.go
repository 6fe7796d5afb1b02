package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/careloop/symptom-intake/internal/adapters/state"
	"github.com/careloop/symptom-intake/internal/domain/entities"
	apperrors "github.com/careloop/symptom-intake/pkg/errors"
)

func consultationAgedDays(id string, days int) *entities.Consultation {
	return &entities.Consultation{
		ID:        id,
		DeviceID:  "device-1",
		Symptoms:  "fever, cough",
		CreatedAt: time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour),
	}
}

func TestRecoveryService_PromptCandidate_SelectsFirstStale(t *testing.T) {
	repo := new(MockConsultationRepository)
	store := state.NewStore(newMemoryCache())
	service := NewRecoveryService(repo, store, 3)
	ctx := context.Background()

	fresh := consultationAgedDays("consult-fresh", 1)
	stale := consultationAgedDays("consult-stale", 4)
	older := consultationAgedDays("consult-older", 6)
	repo.On("ListByDevice", mock.Anything, "device-1", mock.Anything).
		Return([]*entities.Consultation{fresh, stale, older}, nil)

	candidate, err := service.PromptCandidate(ctx, "device-1")
	require.NoError(t, err)
	require.NotNil(t, candidate)

	// Only the first qualifying consultation is surfaced per pass.
	assert.Equal(t, "consult-stale", candidate.ID)

	prompted, err := store.WasPrompted(ctx, "device-1", "consult-stale")
	require.NoError(t, err)
	assert.True(t, prompted)
}

func TestRecoveryService_PromptCandidate_NoRepromptWithoutResponse(t *testing.T) {
	repo := new(MockConsultationRepository)
	store := state.NewStore(newMemoryCache())
	service := NewRecoveryService(repo, store, 3)
	ctx := context.Background()

	stale := consultationAgedDays("consult-stale", 4)
	repo.On("ListByDevice", mock.Anything, "device-1", mock.Anything).
		Return([]*entities.Consultation{stale}, nil)

	first, err := service.PromptCandidate(ctx, "device-1")
	require.NoError(t, err)
	require.NotNil(t, first)

	// Second dashboard load, still no response: nothing to surface.
	second, err := service.PromptCandidate(ctx, "device-1")
	require.NoError(t, err)
	assert.Nil(t, second)
}

func TestRecoveryService_PromptCandidate_SkipsResolved(t *testing.T) {
	repo := new(MockConsultationRepository)
	store := state.NewStore(newMemoryCache())
	service := NewRecoveryService(repo, store, 3)

	resolved := consultationAgedDays("consult-resolved", 5)
	isResolved := true
	resolved.Recovery.IsResolved = &isResolved
	repo.On("ListByDevice", mock.Anything, "device-1", mock.Anything).
		Return([]*entities.Consultation{resolved}, nil)

	candidate, err := service.PromptCandidate(context.Background(), "device-1")
	require.NoError(t, err)
	assert.Nil(t, candidate)
}

func TestRecoveryService_PromptCandidate_SkipsFresh(t *testing.T) {
	repo := new(MockConsultationRepository)
	store := state.NewStore(newMemoryCache())
	service := NewRecoveryService(repo, store, 3)

	repo.On("ListByDevice", mock.Anything, "device-1", mock.Anything).
		Return([]*entities.Consultation{consultationAgedDays("consult-fresh", 2)}, nil)

	candidate, err := service.PromptCandidate(context.Background(), "device-1")
	require.NoError(t, err)
	assert.Nil(t, candidate)
}

func TestRecoveryService_PromptCandidate_AdvancesAfterPrompted(t *testing.T) {
	repo := new(MockConsultationRepository)
	store := state.NewStore(newMemoryCache())
	service := NewRecoveryService(repo, store, 3)
	ctx := context.Background()

	first := consultationAgedDays("consult-a", 4)
	second := consultationAgedDays("consult-b", 5)
	repo.On("ListByDevice", mock.Anything, "device-1", mock.Anything).
		Return([]*entities.Consultation{first, second}, nil)

	candidate, err := service.PromptCandidate(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, "consult-a", candidate.ID)

	candidate, err = service.PromptCandidate(ctx, "device-1")
	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, "consult-b", candidate.ID)
}

func TestRecoveryService_Resolve(t *testing.T) {
	repo := new(MockConsultationRepository)
	store := state.NewStore(newMemoryCache())
	service := NewRecoveryService(repo, store, 3)

	repo.On("UpdateRecovery", mock.Anything, "consult-1", mock.MatchedBy(func(r entities.RecoveryStatus) bool {
		return r.IsResolved != nil && *r.IsResolved &&
			r.RecoveryNotes == "feeling fine" &&
			r.FollowUpRequired != nil && !*r.FollowUpRequired &&
			r.ResolvedAt != nil
	})).Return(nil)

	err := service.Resolve(context.Background(), "consult-1", ResolutionInput{
		IsResolved:    true,
		RecoveryNotes: "  feeling fine  ",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecoveryService_Resolve_UnresolvedHasNoResolvedAt(t *testing.T) {
	repo := new(MockConsultationRepository)
	store := state.NewStore(newMemoryCache())
	service := NewRecoveryService(repo, store, 3)

	repo.On("UpdateRecovery", mock.Anything, "consult-1", mock.MatchedBy(func(r entities.RecoveryStatus) bool {
		return r.IsResolved != nil && !*r.IsResolved && r.ResolvedAt == nil
	})).Return(nil)

	err := service.Resolve(context.Background(), "consult-1", ResolutionInput{
		IsResolved:       false,
		FollowUpRequired: true,
	})
	require.NoError(t, err)
}

func TestRecoveryService_Resolve_RequiresID(t *testing.T) {
	service := NewRecoveryService(new(MockConsultationRepository), state.NewStore(newMemoryCache()), 3)

	err := service.Resolve(context.Background(), "", ResolutionInput{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
