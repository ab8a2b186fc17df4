package textutil

import (
	"math"
	"regexp"
	"strings"
)

var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Fingerprint is a term-frequency vector over the tokens of a text.
type Fingerprint struct {
	terms map[string]float64
	norm  float64
}

// NewFingerprint builds a fingerprint from text. Returns nil when the
// text produces no usable tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	terms := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		terms[token]++
	}
	var norm float64
	for _, count := range terms {
		norm += count * count
	}
	return &Fingerprint{terms: terms, norm: math.Sqrt(norm)}
}

// Tokenize lowercases text and splits it into tokens, dropping tokens
// shorter than 3 characters.
func Tokenize(text string) []string {
	raw := tokenSplitPattern.Split(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if len(token) < 3 {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// TokenCount reports the number of distinct terms.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.terms)
}
