package narration

import (
	"context"
	"fmt"
)

// SimilarityEngine scores how alike two descriptions are. Implementations
// are not required to be symmetric; the embedding-backed engine happens
// to be, the lexical one is.
type SimilarityEngine interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Deduplicator suppresses a candidate description when it scores at or
// above the configured similarity threshold against the previously
// accepted one. It holds no state of its own; the caller tracks the
// last accepted description.
type Deduplicator struct {
	engine    SimilarityEngine
	threshold float64
}

// NewDeduplicator builds a Deduplicator over the given engine. A typical
// threshold for embedding cosine similarity is 0.75.
func NewDeduplicator(engine SimilarityEngine, threshold float64) *Deduplicator {
	return &Deduplicator{engine: engine, threshold: threshold}
}

// ShouldSkip reports whether candidate is close enough to previous to be
// suppressed. With no previous accepted description it never skips and
// makes no engine call.
func (d *Deduplicator) ShouldSkip(ctx context.Context, previous, candidate string) (bool, error) {
	if previous == "" {
		return false, nil
	}
	score, err := d.engine.Similarity(ctx, previous, candidate)
	if err != nil {
		return false, fmt.Errorf("description similarity: %w", err)
	}
	return score >= d.threshold, nil
}
