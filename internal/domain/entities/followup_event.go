package entities

import "time"

// FollowUpEventType identifies a follow-up lifecycle transition
type FollowUpEventType string

const (
	FollowUpEventScheduled FollowUpEventType = "scheduled"
	FollowUpEventSent      FollowUpEventType = "sent"
	FollowUpEventResponded FollowUpEventType = "responded"
)

// FollowUpEvent is published on the event bus whenever a follow-up
// schedule is created, delivered, or answered, so dashboard consumers
// can refresh without polling.
type FollowUpEvent struct {
	Type      FollowUpEventType `json:"type"`
	DeviceID  string            `json:"device_id"`
	RiskID    string            `json:"risk_id"`
	Severity  Severity          `json:"severity"`
	Outcome   Outcome           `json:"outcome,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
