package ollama

import (
	"context"
	"math"

	"descant/internal/services"
)

// EmbeddingEngine scores text similarity by embedding both sides and
// taking their cosine similarity. It satisfies the narration package's
// SimilarityEngine interface.
type EmbeddingEngine struct {
	client *Client
	model  string
	retry  services.RetryPolicy
}

// NewEmbeddingEngine wraps a client and embedding model.
func NewEmbeddingEngine(client *Client, model string) *EmbeddingEngine {
	return &EmbeddingEngine{
		client: client,
		model:  model,
		retry:  services.DefaultRetryPolicy(),
	}
}

// Similarity embeds both texts and returns their cosine similarity.
func (e *EmbeddingEngine) Similarity(ctx context.Context, a, b string) (float64, error) {
	vecA, err := e.embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vecB, err := e.embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return CosineSimilarity(vecA, vecB), nil
}

func (e *EmbeddingEngine) embed(ctx context.Context, input string) ([]float64, error) {
	var vector []float64
	err := e.retry.Do(ctx, func(ctx context.Context) error {
		var embedErr error
		vector, embedErr = e.client.Embed(ctx, e.model, input)
		return embedErr
	})
	return vector, err
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Mismatched lengths and zero vectors compare as 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
