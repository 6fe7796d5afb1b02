package providers

import (
	"context"

	"github.com/careloop/symptom-intake/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// follow-up lifecycle events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.FollowUpEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.FollowUpEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelFollowUps is the channel carrying all follow-up events
	EventChannelFollowUps = "followup:events"

	// EventChannelDevicePrefix is the prefix for device-specific channels
	EventChannelDevicePrefix = "followup:device:"
)

// GetDeviceChannel returns the channel name for a specific device
func GetDeviceChannel(deviceID string) string {
	return EventChannelDevicePrefix + deviceID
}
