package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"descant/internal/logging"
	"descant/internal/services/ollama"
)

const summarizePrompt = "Rewrite the following scene descriptions as one short audio description narration. " +
	"Keep every distinct visual fact, remove repetition, and answer with the narration text only."

// summarizer condenses several scene descriptions for one pause into a
// single narration via the text model. When the model is unavailable it
// degrades to plain concatenation so the run can finish.
type summarizer struct {
	client *ollama.Client
	model  string
	logger *slog.Logger
}

// Combine implements narration.CombineFunc.
func (s *summarizer) Combine(ctx context.Context, descriptions []string) (string, error) {
	if len(descriptions) <= 1 {
		return strings.Join(descriptions, " "), nil
	}
	out, err := s.client.Generate(ctx, ollama.GenerateRequest{
		Model:  s.model,
		Prompt: summarizePrompt + "\n\n" + strings.Join(descriptions, "\n"),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if s.logger != nil {
			s.logger.Warn("summarize unavailable, concatenating descriptions", logging.Error(err))
		}
		return strings.Join(descriptions, " "), nil
	}
	return out, nil
}
