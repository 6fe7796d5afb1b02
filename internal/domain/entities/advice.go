package entities

import "strings"

// Advice is the validated payload returned by the diagnosis advice
// collaborator. The raw response is loosely shaped; it is normalized
// once at the client boundary and treated as trusted from then on.
type Advice struct {
	Illness     *string  `json:"illness,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	RedFlags    []string `json:"red_flags,omitempty"`
	Confidence  *int     `json:"confidence,omitempty"`
	HasRedFlags bool     `json:"has_red_flags"`
}

// Normalize trims the advice fields and recomputes HasRedFlags.
func (a *Advice) Normalize() {
	if a == nil {
		return
	}
	if a.Illness != nil {
		trimmed := strings.TrimSpace(*a.Illness)
		if trimmed == "" {
			a.Illness = nil
		} else {
			a.Illness = &trimmed
		}
	}
	a.Suggestions = trimNonEmpty(a.Suggestions)
	a.RedFlags = trimNonEmpty(a.RedFlags)
	if a.Confidence != nil && *a.Confidence <= 0 {
		a.Confidence = nil
	}
	a.HasRedFlags = len(a.RedFlags) > 0
}

// ExternalConfidence returns the collaborator-supplied confidence, or
// 0 when none was provided. A positive value takes precedence over a
// locally computed score.
func (a *Advice) ExternalConfidence() int {
	if a == nil || a.Confidence == nil {
		return 0
	}
	return *a.Confidence
}

func trimNonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
