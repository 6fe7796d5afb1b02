package entities

import "time"

// FollowUpSchedule is the persisted due-time for one risk record's
// check-in. ID matches the owning RiskRecord. Sent transitions
// false to true exactly once; the flag is the single source of truth
// guarding against duplicate delivery across the in-process timer and
// the restart catch-up path.
type FollowUpSchedule struct {
	ID        string     `json:"id"`
	To        string     `json:"to"`
	Name      string     `json:"name"`
	YesAction string     `json:"yes_action"`
	NoAction  string     `json:"no_action"`
	DueAt     time.Time  `json:"due_at"`
	Sent      bool       `json:"sent"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

// Due reports whether the schedule is overdue and still unsent.
func (s *FollowUpSchedule) Due(now time.Time) bool {
	return !s.Sent && !now.Before(s.DueAt)
}
