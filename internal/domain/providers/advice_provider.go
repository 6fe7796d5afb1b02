package providers

import (
	"context"

	"github.com/careloop/symptom-intake/internal/domain/entities"
)

// AdviceProvider generates diagnosis advice for a symptom
// description: a likely illness name, home-care suggestions, red
// flags, and optionally its own confidence value. Implementations
// must return advice already normalized at the boundary.
type AdviceProvider interface {
	GenerateAdvice(ctx context.Context, symptoms string) (*entities.Advice, error)
}
