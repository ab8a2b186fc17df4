package whisper

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"descant/internal/services"
)

const fixtureTranscript = `{
  "text": "Hi there. Nice day.",
  "segments": [
    {
      "start": 0.0, "end": 1.4, "avg_logprob": -0.2,
      "words": [
        {"word": " Hi", "start": 0.1, "end": 0.4, "probability": 0.98},
        {"word": " there.", "start": 0.5, "end": 1.4, "probability": 0.91}
      ]
    },
    {
      "start": 3.0, "end": 4.2, "avg_logprob": -0.1,
      "words": [
        {"word": " Nice", "start": 3.0, "end": 3.5},
        {"word": " day.", "start": 3.6, "end": 4.2, "probability": 0.88},
        {"word": "  ", "start": 4.2, "end": 4.2, "probability": 0.5}
      ]
    }
  ]
}`

func TestParseWords(t *testing.T) {
	tokens, err := ParseWords([]byte(fixtureTranscript))
	if err != nil {
		t.Fatalf("ParseWords: %v", err)
	}
	if len(tokens) != 4 {
		t.Fatalf("len(tokens) = %d, want 4 (blank word dropped)", len(tokens))
	}

	if tokens[0].Text != "Hi" || tokens[1].Text != "there." {
		t.Errorf("first segment words = %q, %q", tokens[0].Text, tokens[1].Text)
	}
	if tokens[0].Confidence != 0.98 {
		t.Errorf("word probability not used: %v", tokens[0].Confidence)
	}

	// "Nice" has no probability and inherits confidence from avg_logprob -0.1.
	wantInherited := math.Pow(10, -0.1)
	if math.Abs(tokens[2].Confidence-wantInherited) > 1e-9 {
		t.Errorf("inherited confidence = %v, want %v", tokens[2].Confidence, wantInherited)
	}
	if tokens[3].Start != 3.6 || tokens[3].End != 4.2 {
		t.Errorf("timestamps = [%v, %v]", tokens[3].Start, tokens[3].End)
	}
}

func TestParseWordsRejectsBadJSON(t *testing.T) {
	if _, err := ParseWords([]byte("nope")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestParseWordsEmptyTranscript(t *testing.T) {
	tokens, err := ParseWords([]byte(`{"segments": []}`))
	if err != nil {
		t.Fatalf("ParseWords: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("len(tokens) = %d, want 0", len(tokens))
	}
}

func TestTranscribeInvokesBinaryAndParses(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "speech.wav")

	var recorded []string
	svc := NewService(Config{Binary: "whisper", Model: "base", Language: "en"})
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		recorded = append([]string{name}, args...)
		return os.WriteFile(filepath.Join(dir, "speech.json"), []byte(fixtureTranscript), 0o644)
	})

	tokens, err := svc.Transcribe(context.Background(), audioPath, dir)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(tokens) != 4 {
		t.Errorf("len(tokens) = %d, want 4", len(tokens))
	}

	if recorded[0] != "whisper" || recorded[1] != audioPath {
		t.Errorf("command = %v", recorded[:2])
	}
	for _, want := range [][]string{
		{"--model", "base"},
		{"--word_timestamps", "True"},
		{"--output_format", "json"},
		{"--language", "en"},
	} {
		if !containsSubsequence(recorded, want) {
			t.Errorf("args %v missing %v", recorded, want)
		}
	}
}

func TestTranscribeRequiresAudioPath(t *testing.T) {
	svc := NewService(Config{})
	if _, err := svc.Transcribe(context.Background(), "  ", t.TempDir()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTranscribeWrapsToolFailure(t *testing.T) {
	svc := NewService(Config{})
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 1")
	})
	_, err := svc.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.wav"), "")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func containsSubsequence(args, want []string) bool {
	for i := 0; i+len(want) <= len(args); i++ {
		if slices.Equal(args[i:i+len(want)], want) {
			return true
		}
	}
	return false
}
