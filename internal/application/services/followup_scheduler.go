package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/careloop/symptom-intake/internal/adapters/state"
	"github.com/careloop/symptom-intake/internal/domain/entities"
	"github.com/careloop/symptom-intake/internal/domain/providers"
	"github.com/careloop/symptom-intake/internal/domain/repositories"
	"github.com/careloop/symptom-intake/internal/infrastructure/observability"
	apperrors "github.com/careloop/symptom-intake/pkg/errors"
)

const (
	dispatchPathTimer   = "timer"
	dispatchPathCatchUp = "catchup"
)

// FollowUpContact is where the check-in message goes.
type FollowUpContact struct {
	To   string
	Name string
}

// FollowUpScheduler guarantees at most one follow-up notification per
// risk record, at or after its due time. The in-process timer is a
// best-effort optimization; the persisted schedule's sent flag is the
// source of truth, and CatchUp recovers deliveries the timer missed
// because the process restarted.
type FollowUpScheduler struct {
	store           *state.Store
	notifier        providers.NotificationProvider
	notificationLog repositories.NotificationLogRepository
	eventBus        providers.EventBus
	metrics         *observability.Metrics
	baseURL         string

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewFollowUpScheduler creates a new follow-up scheduler.
func NewFollowUpScheduler(
	store *state.Store,
	notifier providers.NotificationProvider,
	notificationLog repositories.NotificationLogRepository,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
	baseURL string,
) *FollowUpScheduler {
	return &FollowUpScheduler{
		store:           store,
		notifier:        notifier,
		notificationLog: notificationLog,
		eventBus:        eventBus,
		metrics:         metrics,
		baseURL:         baseURL,
		timers:          make(map[string]*time.Timer),
	}
}

// Schedule persists a follow-up schedule for the given risk record and
// arms the in-process timer. Any pending previous schedule is resolved
// by the catch-up check first, so it is sent (or confirmed sent)
// before being superseded.
func (s *FollowUpScheduler) Schedule(ctx context.Context, deviceID string, record *entities.RiskRecord, contact FollowUpContact) (*entities.FollowUpSchedule, error) {
	if record == nil {
		return nil, apperrors.NewValidationError("risk record is required")
	}

	if err := s.CatchUp(ctx, deviceID); err != nil {
		log.Warn().Err(err).Str("device_id", deviceID).Msg("catch-up before scheduling failed")
	}

	now := time.Now().UTC()
	schedule := &entities.FollowUpSchedule{
		ID:        record.ID,
		To:        contact.To,
		Name:      contact.Name,
		YesAction: s.actionURL("yes", record.ID),
		NoAction:  s.actionURL("no", record.ID),
		DueAt:     now.Add(time.Duration(record.FollowUpHours[0]) * time.Hour),
		Sent:      false,
	}

	if err := s.store.SaveSchedule(ctx, deviceID, schedule); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, deviceID, &entities.FollowUpEvent{
		Type:      entities.FollowUpEventScheduled,
		DeviceID:  deviceID,
		RiskID:    record.ID,
		Severity:  record.Severity,
		Timestamp: now,
	})

	s.armTimer(deviceID, schedule)

	log.Info().
		Str("device_id", deviceID).
		Str("risk_id", record.ID).
		Time("due_at", schedule.DueAt).
		Msg("follow-up scheduled")

	return schedule, nil
}

// CatchUp dispatches the device's persisted schedule if it is overdue
// and still unsent. It runs on process start and on every dashboard
// load, before any new schedule is written.
func (s *FollowUpScheduler) CatchUp(ctx context.Context, deviceID string) error {
	schedule, err := s.store.GetSchedule(ctx, deviceID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil
		}
		return err
	}

	if !schedule.Due(time.Now().UTC()) {
		return nil
	}

	s.deliver(ctx, deviceID, schedule.ID, dispatchPathCatchUp)
	return nil
}

// Stop cancels any armed timers. Pending schedules stay persisted and
// are picked up by the next catch-up.
func (s *FollowUpScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for deviceID, timer := range s.timers {
		timer.Stop()
		delete(s.timers, deviceID)
	}
}

// armTimer arms the single per-device timer. A previous timer is
// stopped on supersede; even if it were to fire anyway, the delivery
// path re-validates against the persisted schedule id.
func (s *FollowUpScheduler) armTimer(deviceID string, schedule *entities.FollowUpSchedule) {
	delay := time.Until(schedule.DueAt)
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.timers[deviceID]; ok {
		prev.Stop()
	}

	scheduleID := schedule.ID
	s.timers[deviceID] = time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.deliver(ctx, deviceID, scheduleID, dispatchPathTimer)
	})
}

// deliver sends the follow-up for the given schedule id if it is still
// the active, unsent schedule. Send failures are logged and swallowed;
// the schedule stays unsent so the next catch-up retries.
func (s *FollowUpScheduler) deliver(ctx context.Context, deviceID, scheduleID, path string) {
	schedule, err := s.store.GetSchedule(ctx, deviceID)
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			log.Error().Err(err).Str("device_id", deviceID).Msg("failed to load schedule for delivery")
		}
		return
	}
	if schedule.ID != scheduleID || schedule.Sent {
		// Stale timer or already delivered by the other path.
		return
	}

	if s.notifier == nil {
		// No delivery channel configured; leave the schedule pending so
		// a later process with credentials can pick it up.
		log.Warn().Str("device_id", deviceID).Str("schedule_id", schedule.ID).Msg("no notifier configured, follow-up left pending")
		return
	}

	now := time.Now().UTC()
	audit := &entities.FollowUpNotification{
		ID:         uuid.New().String(),
		ScheduleID: schedule.ID,
		Recipient:  schedule.To,
		Status:     entities.NotificationStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if s.notificationLog != nil {
		if err := s.notificationLog.Create(ctx, audit); err != nil {
			log.Warn().Err(err).Str("schedule_id", schedule.ID).Msg("failed to record notification attempt")
		}
	}

	messageID, sendErr := s.notifier.SendFollowUp(ctx, providers.FollowUpMessage{
		To:           schedule.To,
		Name:         schedule.Name,
		YesAction:    schedule.YesAction,
		NoAction:     schedule.NoAction,
		ScheduledFor: schedule.DueAt.Format(time.RFC3339),
	})
	if sendErr != nil {
		log.Error().Err(sendErr).
			Str("device_id", deviceID).
			Str("schedule_id", schedule.ID).
			Str("path", path).
			Msg("follow-up delivery failed, will retry on next catch-up")
		observability.RecordFollowUpFailed(ctx, s.metrics, path)
		s.finishAudit(ctx, audit, "", sendErr)
		return
	}

	if _, err := s.store.MarkScheduleSent(ctx, deviceID, schedule.ID, time.Now().UTC()); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			// Lost the race to the other dispatch path; the message
			// went out twice only if both sends happened before
			// either mark, which the single-writer model precludes.
			log.Warn().Str("schedule_id", schedule.ID).Str("path", path).Msg("schedule already marked sent")
		} else {
			log.Error().Err(err).Str("schedule_id", schedule.ID).Msg("failed to mark schedule sent")
		}
	}

	observability.RecordFollowUpSent(ctx, s.metrics, path)
	s.finishAudit(ctx, audit, messageID, nil)

	risk, err := s.store.GetRisk(ctx, deviceID)
	severity := entities.SeverityLow
	if err == nil && risk != nil {
		severity = risk.Severity
	}
	s.publishEvent(ctx, deviceID, &entities.FollowUpEvent{
		Type:      entities.FollowUpEventSent,
		DeviceID:  deviceID,
		RiskID:    schedule.ID,
		Severity:  severity,
		Timestamp: time.Now().UTC(),
	})

	log.Info().
		Str("device_id", deviceID).
		Str("schedule_id", schedule.ID).
		Str("path", path).
		Str("message_id", messageID).
		Msg("follow-up delivered")
}

func (s *FollowUpScheduler) finishAudit(ctx context.Context, audit *entities.FollowUpNotification, messageID string, sendErr error) {
	if s.notificationLog == nil {
		return
	}

	now := time.Now().UTC()
	audit.UpdatedAt = now
	if sendErr != nil {
		audit.Status = entities.NotificationStatusFailed
		msg := sendErr.Error()
		audit.ErrorMessage = &msg
		audit.FailedAt = &now
	} else {
		audit.Status = entities.NotificationStatusSent
		audit.SentAt = &now
		if messageID != "" {
			audit.MessageID = &messageID
		}
	}

	if err := s.notificationLog.Update(ctx, audit); err != nil {
		log.Warn().Err(err).Str("notification_id", audit.ID).Msg("failed to update notification record")
	}
}

func (s *FollowUpScheduler) publishEvent(ctx context.Context, deviceID string, event *entities.FollowUpEvent) {
	if s.eventBus == nil {
		return
	}
	for _, channel := range []string{providers.EventChannelFollowUps, providers.GetDeviceChannel(deviceID)} {
		if err := s.eventBus.Publish(ctx, channel, event); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("failed to publish follow-up event")
		}
	}
}

func (s *FollowUpScheduler) actionURL(decision, riskID string) string {
	return fmt.Sprintf("%s/api/followup/respond?decision=%s&risk_id=%s", s.baseURL, decision, riskID)
}
