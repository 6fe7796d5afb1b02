package providers

import "context"

// FollowUpMessage is the payload handed to the notification channel.
// YesAction and NoAction are the action URLs embedded in the message;
// visiting one records the patient's outcome.
type FollowUpMessage struct {
	To           string
	Name         string
	YesAction    string
	NoAction     string
	ScheduledFor string
}

// NotificationProvider delivers a follow-up check-in message and
// returns the provider message id. Failures are reported as errors;
// the caller decides retry policy.
type NotificationProvider interface {
	SendFollowUp(ctx context.Context, msg FollowUpMessage) (string, error)
}
