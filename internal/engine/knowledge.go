package engine

// PatternEntry pairs a symptom phrase with its weight in (0,1].
type PatternEntry struct {
	Phrase string
	Weight float64
}

// knowledgeBase holds the per-illness symptom patterns the scorer
// matches against. Every key maps to a non-empty ordered list.
// Weights reflect how strongly a phrase indicates the illness.
var knowledgeBase = map[string][]PatternEntry{
	"gastroenteritis": {
		{"diarrhea", 0.9},
		{"vomiting", 0.9},
		{"nausea", 0.8},
		{"stomach cramp", 0.7},
		{"fever", 0.6},
		{"dehydration", 0.5},
		{"loss of appetite", 0.4},
	},
	"migraine": {
		{"throbbing", 0.9},
		{"one side", 0.8},
		{"light sensitivity", 0.8},
		{"sensitive to light", 0.8},
		{"aura", 0.7},
		{"nausea", 0.6},
		{"headache", 0.5},
	},
	"uti": {
		{"burning urination", 0.9},
		{"burning when urinating", 0.9},
		{"frequent urination", 0.8},
		{"cloudy urine", 0.7},
		{"pelvic pain", 0.6},
		{"urgency", 0.5},
	},
	"influenza": {
		{"high fever", 0.9},
		{"body ache", 0.8},
		{"chills", 0.7},
		{"fatigue", 0.6},
		{"dry cough", 0.6},
		{"headache", 0.4},
		{"sore throat", 0.4},
	},
	"pneumonia": {
		{"productive cough", 0.9},
		{"shortness of breath", 0.8},
		{"chest pain", 0.7},
		{"high fever", 0.7},
		{"chills", 0.5},
		{"fatigue", 0.4},
	},
	"asthma": {
		{"wheezing", 0.9},
		{"shortness of breath", 0.8},
		{"chest tightness", 0.8},
		{"cough", 0.5},
		{"difficulty breathing", 0.7},
	},
	"bronchitis": {
		{"persistent cough", 0.9},
		{"mucus", 0.7},
		{"chest discomfort", 0.6},
		{"fatigue", 0.4},
		{"mild fever", 0.4},
	},
	"tension headache": {
		{"tight band", 0.9},
		{"dull ache", 0.7},
		{"neck pain", 0.6},
		{"headache", 0.5},
		{"stress", 0.4},
	},
	"gerd": {
		{"heartburn", 0.9},
		{"acid taste", 0.8},
		{"regurgitation", 0.8},
		{"chest burning", 0.6},
		{"worse lying down", 0.5},
	},
	"allergic rhinitis": {
		{"sneezing", 0.8},
		{"runny nose", 0.7},
		{"itchy eyes", 0.8},
		{"congestion", 0.5},
		{"watery eyes", 0.5},
	},
	"common cold": {
		{"runny nose", 0.8},
		{"sneezing", 0.7},
		{"sore throat", 0.7},
		{"congestion", 0.6},
		{"mild fever", 0.4},
		{"cough", 0.4},
	},
}

// Patterns returns the knowledge base entry for an illness key, or
// nil when the key is not mapped.
func Patterns(illnessKey string) []PatternEntry {
	return knowledgeBase[illnessKey]
}
