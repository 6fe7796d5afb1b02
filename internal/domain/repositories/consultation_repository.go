package repositories

import (
	"context"

	"github.com/careloop/symptom-intake/internal/domain/entities"
)

// ConsultationFilter narrows consultation listings
type ConsultationFilter struct {
	Limit  int
	Offset int
}

// ConsultationRepository is the document store holding consultation
// history, including the recovery sub-document written back by the
// recovery prompt flow.
type ConsultationRepository interface {
	Create(ctx context.Context, consultation *entities.Consultation) error
	GetByID(ctx context.Context, id string) (*entities.Consultation, error)
	ListByDevice(ctx context.Context, deviceID string, filter ConsultationFilter) ([]*entities.Consultation, error)
	UpdateRecovery(ctx context.Context, id string, recovery entities.RecoveryStatus) error
}

// NotificationLogRepository records every follow-up delivery attempt.
type NotificationLogRepository interface {
	Create(ctx context.Context, notification *entities.FollowUpNotification) error
	Update(ctx context.Context, notification *entities.FollowUpNotification) error
}
