package engine

import (
	"math"
	"strings"
)

const (
	// tokenSaturation is the distinct-token count at which the
	// count factor stops growing.
	tokenSaturation = 8.0

	minScore = 5
	maxScore = 100
)

// Score computes the 0-100 diagnostic confidence for a symptom
// description against a candidate illness. Pure function; empty
// inputs degrade to the low end of the range. Callers holding an
// externally supplied confidence > 0 should prefer it over this
// result.
func Score(symptoms, illness string) int {
	tokens := Tokenize(symptoms)
	joined := strings.Join(tokens, " ")

	countFactor := math.Min(float64(len(tokens))/tokenSaturation, 1)

	key := NormalizeIllness(illness)
	patterns := Patterns(key)

	var specificity, strength float64
	if len(patterns) > 0 {
		var total, matched float64
		for _, p := range patterns {
			total += p.Weight
			if strings.Contains(joined, p.Phrase) {
				matched += p.Weight
			}
		}
		// specificity and strength are computed identically on
		// purpose: the reference behavior never diverged them,
		// and fixing the redundancy would shift every score.
		specificity = matched / total
		strength = matched / total
	}

	composite := 0.2*countFactor + 0.4*specificity + 0.4*strength

	if len(patterns) == 0 {
		// Unmapped illnesses still score proportionally to
		// symptom richness instead of collapsing to the floor.
		fallback := 0.25 + 0.5*countFactor
		composite = math.Max(composite, fallback)
	}

	score := int(math.Round(composite * 100))
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
