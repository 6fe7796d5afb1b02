package entities

import "time"

// RecoveryStatus is the recovery sub-document of a consultation.
// IsResolved stays nil until the patient answers the recovery prompt.
type RecoveryStatus struct {
	IsResolved       *bool      `json:"is_resolved,omitempty" db:"recovery_is_resolved"`
	RecoveryNotes    string     `json:"recovery_notes,omitempty" db:"recovery_notes"`
	FollowUpRequired *bool      `json:"follow_up_required,omitempty" db:"recovery_follow_up_required"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty" db:"recovery_resolved_at"`
}

// Consultation represents one symptom-intake episode
type Consultation struct {
	ID         string         `json:"id" db:"id"`
	DeviceID   string         `json:"device_id" db:"device_id"`
	Symptoms   string         `json:"symptoms" db:"symptoms"`
	Illness    string         `json:"illness" db:"illness"`
	Advice     *Advice        `json:"advice,omitempty" db:"-"`
	Confidence int            `json:"confidence" db:"confidence"`
	Severity   Severity       `json:"severity" db:"severity"`
	Location   string         `json:"location,omitempty" db:"location"`
	Recovery   RecoveryStatus `json:"recovery"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// IsStale reports whether the consultation is older than the given
// number of days and still has no recorded resolution.
func (c *Consultation) IsStale(days int, now time.Time) bool {
	if c.Recovery.IsResolved != nil {
		return false
	}
	return now.Sub(c.CreatedAt) > time.Duration(days)*24*time.Hour
}
