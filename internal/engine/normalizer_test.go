package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIllness(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Gastroenteritis", "gastroenteritis"},
		{"stomach flu", "gastroenteritis"},
		{"probably food poisoning", "gastroenteritis"},
		{"Migraine with aura", "migraine"},
		{"urinary tract infection", "uti"},
		{"a bladder infection", "uti"},
		{"the flu", "influenza"},
		{"acid reflux", "gerd"},
		{"hay fever", "allergic rhinitis"},
		{"head cold", "common cold"},
		{"common cold", "common cold"},
		// Unmapped input passes through lowercased verbatim.
		{"Ehlers-Danlos Syndrome", "ehlers-danlos syndrome"},
		{"  Tension Headache  ", "tension headache"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIllness(tt.input))
		})
	}
}

func TestNormalizeIllness_PriorityOrder(t *testing.T) {
	// "stomach flu" must resolve to gastroenteritis even though
	// "flu" alone maps to influenza further down the table.
	assert.Equal(t, "gastroenteritis", NormalizeIllness("stomach flu"))
	assert.Equal(t, "influenza", NormalizeIllness("flu"))
}

func TestKnowledgeBase_NonEmptyPatterns(t *testing.T) {
	for key, patterns := range knowledgeBase {
		assert.NotEmptyf(t, patterns, "illness %q has no patterns", key)
		for _, p := range patterns {
			assert.Greaterf(t, p.Weight, 0.0, "%s/%s weight out of range", key, p.Phrase)
			assert.LessOrEqualf(t, p.Weight, 1.0, "%s/%s weight out of range", key, p.Phrase)
			assert.NotEmpty(t, p.Phrase)
		}
	}
}
