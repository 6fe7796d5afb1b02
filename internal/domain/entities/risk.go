package entities

import "time"

// Severity represents the clinical urgency tier of a consultation
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// Outcome is the patient's answer at follow-up time
type Outcome string

const (
	OutcomeImproved Outcome = "improved"
	OutcomeWorse    Outcome = "worse"
)

// Assessment is the result of classifying one consultation
type Assessment struct {
	Severity       Severity `json:"severity"`
	Urgency        string   `json:"urgency"`
	FollowUpHours  [2]int   `json:"follow_up_hours"`
	FollowUpNeeded bool     `json:"follow_up_needed"`
}

// RiskRecord captures the triage decision for one consultation. It is
// created once, immediately after scoring, and mutated exactly once
// when the patient responds to the follow-up check-in. A new
// consultation supersedes it; records are never deleted.
type RiskRecord struct {
	ID                string    `json:"id"`
	ConsultationID    string    `json:"consultation_id"`
	Severity          Severity  `json:"severity"`
	Urgency           string    `json:"urgency"`
	FollowUpHours     [2]int    `json:"follow_up_hours"`
	FollowUpDate      time.Time `json:"follow_up_date"`
	FollowUpNeeded    bool      `json:"follow_up_needed"`
	Responded         bool      `json:"responded"`
	Outcome           Outcome   `json:"outcome,omitempty"`
	NeedsReassessment bool      `json:"needs_reassessment"`
	Confidence        int       `json:"confidence"`
	CreatedAt         time.Time `json:"created_at"`
}
