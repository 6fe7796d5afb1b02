package entities

import "time"

const (
	// DefaultHealthScore is the initial health score before any
	// follow-up outcome has been recorded.
	DefaultHealthScore = 80

	// DefaultRecoveryRate is the initial recovery rate.
	DefaultRecoveryRate = 60
)

// HealthMetrics are the two running per-device health figures adjusted
// by the outcome feedback loop. Version supports compare-and-swap
// updates so concurrent writers surface as conflicts instead of
// silently overwriting each other.
type HealthMetrics struct {
	HealthScore  int       `json:"health_score"`
	RecoveryRate int       `json:"recovery_rate"`
	Version      int64     `json:"version"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewHealthMetrics returns metrics at their default values.
func NewHealthMetrics() *HealthMetrics {
	return &HealthMetrics{
		HealthScore:  DefaultHealthScore,
		RecoveryRate: DefaultRecoveryRate,
	}
}

// Apply shifts both figures by the given deltas, clamping to [0,100].
func (m *HealthMetrics) Apply(healthDelta, recoveryDelta int) {
	m.HealthScore = clampMetric(m.HealthScore + healthDelta)
	m.RecoveryRate = clampMetric(m.RecoveryRate + recoveryDelta)
}

func clampMetric(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
