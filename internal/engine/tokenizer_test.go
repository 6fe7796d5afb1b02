package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "commas",
			input: "diarrhea, nausea, vomiting, fever",
			want:  []string{"diarrhea", "nausea", "vomiting", "fever"},
		},
		{
			name:  "conjunctions",
			input: "headache and nausea with blurred vision",
			want:  []string{"headache", "nausea", "blurred vision"},
		},
		{
			name:  "mixed separators",
			input: "sore throat; runny nose\ncough",
			want:  []string{"sore throat", "runny nose", "cough"},
		},
		{
			name:  "lowercases and trims",
			input: "  Fever ,  CHILLS  ",
			want:  []string{"fever", "chills"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "only separators",
			input: ", and ;",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenize_DoesNotSplitInsideWords(t *testing.T) {
	// "and" inside "glands" is not a separator.
	tokens := Tokenize("swollen glands, fever")
	assert.Equal(t, []string{"swollen glands", "fever"}, tokens)
}

func TestWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "strips stop words and short tokens",
			input: "I have had a bad headache since yesterday",
			want:  []string{"bad", "headache"},
		},
		{
			name:  "splits on punctuation",
			input: "nausea/vomiting; fever!",
			want:  []string{"nausea", "vomiting", "fever"},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.input))
		})
	}
}
