package state

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/careloop/symptom-intake/internal/domain/entities"
	"github.com/careloop/symptom-intake/internal/domain/providers"
	apperrors "github.com/careloop/symptom-intake/pkg/errors"
)

const (
	riskKeyPrefix     = "triage:risk:"
	scheduleKeyPrefix = "triage:schedule:"
	metricsKeyPrefix  = "triage:metrics:"
	promptedKeyPrefix = "triage:prompted:"

	// promptedTTLSeconds keeps "already asked" flags for a year;
	// consultations older than that are out of prompt range anyway.
	promptedTTLSeconds = 365 * 24 * 60 * 60
)

// Store persists engine state (active risk record, follow-up
// schedule, health metrics, recovery-prompt flags) in the
// device-local key-value store. One entry of each kind exists per
// device; a new consultation's writes supersede the previous ones.
type Store struct {
	cache providers.CacheProvider
}

// NewStore creates a new engine state store
func NewStore(cache providers.CacheProvider) *Store {
	return &Store{cache: cache}
}

// SaveRisk stores the active risk record for a device.
func (s *Store) SaveRisk(ctx context.Context, deviceID string, record *entities.RiskRecord) error {
	return s.put(ctx, riskKeyPrefix+deviceID, record)
}

// GetRisk loads the active risk record, or a NOT_FOUND error when the
// device has none.
func (s *Store) GetRisk(ctx context.Context, deviceID string) (*entities.RiskRecord, error) {
	var record entities.RiskRecord
	if err := s.get(ctx, riskKeyPrefix+deviceID, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// SaveSchedule stores the follow-up schedule for a device.
func (s *Store) SaveSchedule(ctx context.Context, deviceID string, schedule *entities.FollowUpSchedule) error {
	return s.put(ctx, scheduleKeyPrefix+deviceID, schedule)
}

// GetSchedule loads the follow-up schedule, or a NOT_FOUND error.
func (s *Store) GetSchedule(ctx context.Context, deviceID string) (*entities.FollowUpSchedule, error) {
	var schedule entities.FollowUpSchedule
	if err := s.get(ctx, scheduleKeyPrefix+deviceID, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// MarkScheduleSent flips the sent flag for the given schedule id. It
// re-reads the persisted schedule and refuses to mark twice or to
// mark a superseded schedule, returning a CONFLICT error either way.
// The sent flag is what makes delivery at-most-once across the timer
// and catch-up paths.
func (s *Store) MarkScheduleSent(ctx context.Context, deviceID, scheduleID string, sentAt time.Time) (*entities.FollowUpSchedule, error) {
	schedule, err := s.GetSchedule(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if schedule.ID != scheduleID {
		return nil, apperrors.NewConflictError("schedule superseded")
	}
	if schedule.Sent {
		return nil, apperrors.NewConflictError("schedule already sent")
	}

	schedule.Sent = true
	schedule.SentAt = &sentAt
	if err := s.SaveSchedule(ctx, deviceID, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// GetMetrics loads the device's health metrics, lazily initializing
// them to the defaults on first access.
func (s *Store) GetMetrics(ctx context.Context, deviceID string) (*entities.HealthMetrics, error) {
	var metrics entities.HealthMetrics
	err := s.get(ctx, metricsKeyPrefix+deviceID, &metrics)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return entities.NewHealthMetrics(), nil
		}
		return nil, err
	}
	return &metrics, nil
}

// UpdateMetrics applies fn to the current metrics under optimistic
// concurrency: the write is rejected with a CONFLICT error when
// another writer bumped the version in between, so racing tabs are
// detected instead of silently overwriting each other.
func (s *Store) UpdateMetrics(ctx context.Context, deviceID string, fn func(*entities.HealthMetrics)) (*entities.HealthMetrics, error) {
	metrics, err := s.GetMetrics(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	baseVersion := metrics.Version

	fn(metrics)

	current, err := s.GetMetrics(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if current.Version != baseVersion {
		return nil, apperrors.NewConflictError("metrics updated concurrently")
	}

	metrics.Version = baseVersion + 1
	metrics.UpdatedAt = time.Now().UTC()
	if err := s.put(ctx, metricsKeyPrefix+deviceID, metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

// MarkPrompted records that the recovery dialog was shown for a
// consultation so it is never re-prompted.
func (s *Store) MarkPrompted(ctx context.Context, deviceID, consultationID string) error {
	key := promptedKeyPrefix + deviceID + ":" + consultationID
	return s.cache.Set(ctx, key, []byte("1"), promptedTTLSeconds)
}

// WasPrompted reports whether the recovery dialog was already shown
// for a consultation.
func (s *Store) WasPrompted(ctx context.Context, deviceID, consultationID string) (bool, error) {
	key := promptedKeyPrefix + deviceID + ":" + consultationID
	return s.cache.Exists(ctx, key)
}

func (s *Store) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewInternalError("failed to encode state", err)
	}
	if err := s.cache.Set(ctx, key, data, 0); err != nil {
		return apperrors.NewInternalError("failed to persist state", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, out any) error {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		var miss *providers.ErrCacheMiss
		if errors.As(err, &miss) {
			return apperrors.NewNotFoundError("no state for key " + key)
		}
		return apperrors.NewInternalError("failed to read state", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewInternalError("failed to decode state", err)
	}
	return nil
}
