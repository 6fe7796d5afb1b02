package engine

import "strings"

// illnessSynonyms maps free-form diagnosis text onto canonical
// illness keys. Entries are tested in order; the first canonical key
// with a matching synonym substring wins, so more specific synonyms
// must come before generic ones.
var illnessSynonyms = []struct {
	key      string
	synonyms []string
}{
	{"gastroenteritis", []string{"gastroenteritis", "stomach flu", "food poisoning", "stomach bug", "gastro"}},
	{"migraine", []string{"migraine"}},
	{"uti", []string{"uti", "urinary tract infection", "bladder infection", "cystitis"}},
	{"influenza", []string{"influenza", "the flu", "flu"}},
	{"pneumonia", []string{"pneumonia", "chest infection", "lung infection"}},
	{"asthma", []string{"asthma", "asthmatic"}},
	{"bronchitis", []string{"bronchitis"}},
	{"tension headache", []string{"tension headache", "stress headache"}},
	{"gerd", []string{"gerd", "acid reflux", "heartburn", "reflux"}},
	{"allergic rhinitis", []string{"allergic rhinitis", "hay fever", "hayfever"}},
	{"common cold", []string{"common cold", "head cold", "cold"}},
}

// NormalizeIllness maps a free-form illness string to its canonical
// key. Unrecognized input is returned lowercased verbatim; lookups
// against the knowledge base will then miss and take the fallback
// scoring path. Deterministic and total.
func NormalizeIllness(illness string) string {
	normalized := strings.ToLower(strings.TrimSpace(illness))
	for _, entry := range illnessSynonyms {
		for _, synonym := range entry.synonyms {
			if strings.Contains(normalized, synonym) {
				return entry.key
			}
		}
	}
	return normalized
}
