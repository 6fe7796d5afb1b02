package engine

import (
	"strings"

	"github.com/careloop/symptom-intake/internal/domain/entities"
)

// redFlagPhrases force severity high regardless of any other signal.
// Numeric entries catch reported fever readings at or above the
// emergency thresholds (103F / 39.5C).
var redFlagPhrases = []string{
	"chest pain",
	"shortness of breath",
	"difficulty breathing",
	"cannot breathe",
	"can't breathe",
	"cannot stay awake",
	"can't stay awake",
	"unresponsive",
	"severe bleeding",
	"coughing blood",
	"blue lips",
	"fainted",
	"fainting",
	"confusion",
	"stiff neck",
	"103",
	"104",
	"39.5",
	"40.0",
}

// conditionSeverity is the ordered condition lookup table. The first
// entry whose key substring-matches the combined illness and symptom
// text wins.
var conditionSeverity = []struct {
	key      string
	severity entities.Severity
}{
	{"heart attack", entities.SeverityHigh},
	{"myocardial infarction", entities.SeverityHigh},
	{"stroke", entities.SeverityHigh},
	{"appendicitis", entities.SeverityHigh},
	{"sepsis", entities.SeverityHigh},
	{"meningitis", entities.SeverityHigh},
	{"pulmonary embolism", entities.SeverityHigh},
	{"anaphylaxis", entities.SeverityHigh},
	{"pneumonia", entities.SeverityModerate},
	{"asthma", entities.SeverityModerate},
	{"bronchitis", entities.SeverityModerate},
	{"uti", entities.SeverityModerate},
	{"urinary tract infection", entities.SeverityModerate},
	{"kidney infection", entities.SeverityModerate},
	{"influenza", entities.SeverityModerate},
	{"migraine", entities.SeverityModerate},
	{"common cold", entities.SeverityLow},
	{"cold", entities.SeverityLow},
	{"gerd", entities.SeverityLow},
	{"acid reflux", entities.SeverityLow},
	{"tension headache", entities.SeverityLow},
	{"gastroenteritis", entities.SeverityLow},
	{"allergic rhinitis", entities.SeverityLow},
	{"hay fever", entities.SeverityLow},
}

const (
	urgencyHigh     = "Seek emergency care immediately. These symptoms can indicate a medical emergency."
	urgencyModerate = "Monitor closely and contact a clinician if symptoms worsen or do not improve."
	urgencyLow      = "Self-care at home is appropriate. See a clinician if symptoms persist beyond a week."
)

// Classify maps illness and symptom text, plus advice red flags, to a
// severity tier, urgency message and follow-up window. Total and
// deterministic; no failure mode.
func Classify(illness, symptoms string, advice *entities.Advice) entities.Assessment {
	symptomText := strings.ToLower(symptoms)
	combined := strings.ToLower(illness) + " " + symptomText

	severity := baseSeverity(combined)

	if hasRedFlags(symptomText, advice) {
		severity = entities.SeverityHigh
	} else {
		// Conjunctive refinements: qualifier phrases escalate
		// conditions the base table left at moderate/high.
		if strings.Contains(combined, "asthma") &&
			(strings.Contains(combined, "severe") || strings.Contains(combined, "cannot speak")) {
			severity = entities.SeverityHigh
		}
		if strings.Contains(combined, "appendicitis") &&
			(strings.Contains(combined, "rigid abdomen") || strings.Contains(combined, "rebound")) {
			severity = entities.SeverityHigh
		}
	}

	assessment := entities.Assessment{
		Severity: severity,
		// Every consultation schedules a check-in; a skip path
		// for clearly self-limited cases is unresolved upstream.
		FollowUpNeeded: true,
	}

	switch severity {
	case entities.SeverityHigh:
		assessment.Urgency = urgencyHigh
		assessment.FollowUpHours = [2]int{12, 24}
	case entities.SeverityModerate:
		assessment.Urgency = urgencyModerate
		assessment.FollowUpHours = [2]int{24, 48}
	default:
		assessment.Urgency = urgencyLow
		assessment.FollowUpHours = [2]int{48, 72}
	}

	return assessment
}

func baseSeverity(combined string) entities.Severity {
	for _, entry := range conditionSeverity {
		if strings.Contains(combined, entry.key) {
			return entry.severity
		}
	}
	return entities.SeverityLow
}

func hasRedFlags(symptomText string, advice *entities.Advice) bool {
	for _, phrase := range redFlagPhrases {
		if strings.Contains(symptomText, phrase) {
			return true
		}
	}
	if advice != nil {
		for _, flag := range advice.RedFlags {
			if strings.Contains(strings.ToLower(flag), "seek") {
				return true
			}
		}
	}
	return false
}
