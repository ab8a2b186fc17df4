package narration

import (
	"context"

	"descant/internal/textutil"
)

// LexicalEngine scores description similarity from token-frequency
// fingerprints. It needs no external service, which makes it the
// fallback when no embedding backend is configured.
type LexicalEngine struct{}

// Similarity implements SimilarityEngine. It never fails.
func (LexicalEngine) Similarity(_ context.Context, a, b string) (float64, error) {
	return textutil.Similarity(a, b), nil
}
