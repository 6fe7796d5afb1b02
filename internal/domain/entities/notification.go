package entities

import "time"

// NotificationStatus represents the delivery status of a follow-up message
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// FollowUpNotification is the audit record for one delivery attempt.
// Every attempt is logged, whether it came from the armed timer or
// from the restart catch-up check.
type FollowUpNotification struct {
	ID           string             `json:"id" db:"id"`
	ScheduleID   string             `json:"schedule_id" db:"schedule_id"`
	Recipient    string             `json:"recipient" db:"recipient"`
	Status       NotificationStatus `json:"status" db:"status"`
	MessageID    *string            `json:"message_id,omitempty" db:"message_id"`
	ErrorMessage *string            `json:"error_message,omitempty" db:"error_message"`
	SentAt       *time.Time         `json:"sent_at,omitempty" db:"sent_at"`
	FailedAt     *time.Time         `json:"failed_at,omitempty" db:"failed_at"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`
}
