package engine

import (
	"regexp"
	"strings"
)

var (
	phraseSeparator = regexp.MustCompile(`(?i)[,;\n]|\band\b|\bwith\b`)
	wordSeparator   = regexp.MustCompile(`[^a-z0-9]+`)
)

// stopWords are pronouns, auxiliary verbs and temporal fillers that
// carry no symptom signal in the word-level variant.
var stopWords = map[string]struct{}{
	"i": {}, "me": {}, "my": {}, "mine": {}, "you": {}, "your": {},
	"he": {}, "she": {}, "it": {}, "we": {}, "they": {}, "them": {},
	"am": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"can": {}, "could": {}, "should": {}, "may": {}, "might": {},
	"must": {}, "the": {}, "a": {}, "an": {}, "of": {}, "for": {},
	"to": {}, "in": {}, "on": {}, "at": {}, "and": {}, "with": {},
	"feel": {}, "feels": {}, "feeling": {}, "felt": {},
	"today": {}, "yesterday": {}, "now": {}, "since": {}, "ago": {},
	"lately": {}, "recently": {}, "always": {}, "sometimes": {},
	"often": {}, "morning": {}, "night": {}, "week": {}, "days": {},
}

// Tokenize splits raw symptom text into normalized lowercase phrase
// tokens. Separators are commas, semicolons, newlines and the
// conjunctions "and"/"with". Empty fragments are dropped. Always
// returns a (possibly empty) slice.
func Tokenize(text string) []string {
	var tokens []string
	for _, part := range phraseSeparator.Split(strings.ToLower(text), -1) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return tokens
}

// Words is the word-level tokenizer variant used for symptom
// distribution analytics only, never for scoring. It additionally
// splits on whitespace and punctuation, strips stop words and drops
// tokens shorter than 3 characters.
func Words(text string) []string {
	var words []string
	for _, word := range wordSeparator.Split(strings.ToLower(text), -1) {
		if len(word) < 3 {
			continue
		}
		if _, skip := stopWords[word]; skip {
			continue
		}
		words = append(words, word)
	}
	return words
}
