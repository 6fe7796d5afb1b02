package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/careloop/symptom-intake/internal/domain/entities"
	"github.com/careloop/symptom-intake/internal/domain/repositories"
	apperrors "github.com/careloop/symptom-intake/pkg/errors"
)

// NotificationLogAdapter records follow-up delivery attempts.
type NotificationLogAdapter struct {
	db *sqlx.DB
}

// NewNotificationLogAdapter creates a new notification log adapter.
func NewNotificationLogAdapter(db *sqlx.DB) repositories.NotificationLogRepository {
	return &NotificationLogAdapter{db: db}
}

// Create inserts a delivery-attempt record.
func (a *NotificationLogAdapter) Create(ctx context.Context, notification *entities.FollowUpNotification) error {
	query := `
		INSERT INTO followup_notifications
		(id, schedule_id, recipient, status, message_id, error_message, sent_at, failed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := a.db.ExecContext(ctx, query,
		notification.ID, notification.ScheduleID, notification.Recipient,
		notification.Status, notification.MessageID, notification.ErrorMessage,
		notification.SentAt, notification.FailedAt,
		notification.CreatedAt, notification.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to create notification record", err)
	}
	return nil
}

// Update writes the outcome of a delivery attempt.
func (a *NotificationLogAdapter) Update(ctx context.Context, notification *entities.FollowUpNotification) error {
	query := `
		UPDATE followup_notifications
		SET status = $1, message_id = $2, error_message = $3, sent_at = $4, failed_at = $5, updated_at = $6
		WHERE id = $7
	`
	_, err := a.db.ExecContext(ctx, query,
		notification.Status, notification.MessageID, notification.ErrorMessage,
		notification.SentAt, notification.FailedAt, notification.UpdatedAt,
		notification.ID,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to update notification record", err)
	}
	return nil
}
