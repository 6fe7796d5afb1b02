package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careloop/symptom-intake/internal/domain/entities"
	"github.com/careloop/symptom-intake/internal/domain/providers"
	apperrors "github.com/careloop/symptom-intake/pkg/errors"
)

// memoryCache is an in-process CacheProvider for tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[key]
	if !ok {
		return nil, &providers.ErrCacheMiss{Key: key}
	}
	return data, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok, nil
}

func TestStore_RiskRoundTrip(t *testing.T) {
	store := NewStore(newMemoryCache())
	ctx := context.Background()

	record := &entities.RiskRecord{
		ID:            "risk-1",
		Severity:      entities.SeverityModerate,
		FollowUpHours: [2]int{24, 48},
		Confidence:    63,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, store.SaveRisk(ctx, "device-1", record))

	loaded, err := store.GetRisk(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, record.ID, loaded.ID)
	assert.Equal(t, record.Severity, loaded.Severity)
	assert.Equal(t, record.Confidence, loaded.Confidence)
}

func TestStore_GetRisk_NotFound(t *testing.T) {
	store := NewStore(newMemoryCache())

	_, err := store.GetRisk(context.Background(), "missing-device")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestStore_MarkScheduleSent(t *testing.T) {
	store := NewStore(newMemoryCache())
	ctx := context.Background()
	now := time.Now().UTC()

	schedule := &entities.FollowUpSchedule{
		ID:    "risk-1",
		To:    "+15550100",
		DueAt: now.Add(-time.Hour),
	}
	require.NoError(t, store.SaveSchedule(ctx, "device-1", schedule))

	sent, err := store.MarkScheduleSent(ctx, "device-1", "risk-1", now)
	require.NoError(t, err)
	assert.True(t, sent.Sent)
	require.NotNil(t, sent.SentAt)

	// Second attempt must be rejected.
	_, err = store.MarkScheduleSent(ctx, "device-1", "risk-1", now)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestStore_MarkScheduleSent_Superseded(t *testing.T) {
	store := NewStore(newMemoryCache())
	ctx := context.Background()

	require.NoError(t, store.SaveSchedule(ctx, "device-1", &entities.FollowUpSchedule{ID: "risk-2"}))

	_, err := store.MarkScheduleSent(ctx, "device-1", "risk-1", time.Now())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestStore_GetMetrics_DefaultsOnFirstAccess(t *testing.T) {
	store := NewStore(newMemoryCache())

	metrics, err := store.GetMetrics(context.Background(), "fresh-device")
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultHealthScore, metrics.HealthScore)
	assert.Equal(t, entities.DefaultRecoveryRate, metrics.RecoveryRate)
	assert.Zero(t, metrics.Version)
}

func TestStore_UpdateMetrics(t *testing.T) {
	store := NewStore(newMemoryCache())
	ctx := context.Background()

	updated, err := store.UpdateMetrics(ctx, "device-1", func(m *entities.HealthMetrics) {
		m.Apply(5, 10)
	})
	require.NoError(t, err)
	assert.Equal(t, 85, updated.HealthScore)
	assert.Equal(t, 70, updated.RecoveryRate)
	assert.Equal(t, int64(1), updated.Version)

	// Clamping at the upper bound.
	updated, err = store.UpdateMetrics(ctx, "device-1", func(m *entities.HealthMetrics) {
		m.Apply(50, 50)
	})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.HealthScore)
	assert.Equal(t, 100, updated.RecoveryRate)
	assert.Equal(t, int64(2), updated.Version)
}

func TestStore_PromptedFlag(t *testing.T) {
	store := NewStore(newMemoryCache())
	ctx := context.Background()

	prompted, err := store.WasPrompted(ctx, "device-1", "consult-1")
	require.NoError(t, err)
	assert.False(t, prompted)

	require.NoError(t, store.MarkPrompted(ctx, "device-1", "consult-1"))

	prompted, err = store.WasPrompted(ctx, "device-1", "consult-1")
	require.NoError(t, err)
	assert.True(t, prompted)

	// Other consultations are unaffected.
	prompted, err = store.WasPrompted(ctx, "device-1", "consult-2")
	require.NoError(t, err)
	assert.False(t, prompted)
}
