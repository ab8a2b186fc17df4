package whisper

import (
	"encoding/json"
	"fmt"
	"strings"

	"descant/internal/timeline"
)

type transcript struct {
	Segments []segment `json:"segments"`
}

type segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	AvgLogP float64 `json:"avg_logprob"`
	Words   []word  `json:"words"`
}

type word struct {
	Word        string   `json:"word"`
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	Probability *float64 `json:"probability"`
}

// ParseWords decodes a whisper JSON transcript into word tokens.
// Words without their own probability inherit the segment confidence
// derived from its average log probability.
func ParseWords(data []byte) ([]timeline.WordToken, error) {
	var parsed transcript
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	var tokens []timeline.WordToken
	for _, seg := range parsed.Segments {
		segmentConfidence := timeline.ConfidenceFromLogProb(seg.AvgLogP)
		for _, w := range seg.Words {
			text := strings.TrimSpace(w.Word)
			if text == "" {
				continue
			}
			confidence := segmentConfidence
			if w.Probability != nil {
				confidence = *w.Probability
			}
			tokens = append(tokens, timeline.WordToken{
				Text:       text,
				Start:      w.Start,
				End:        w.End,
				Confidence: confidence,
			})
		}
	}
	return tokens, nil
}
