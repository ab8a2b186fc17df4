package textutil

import (
	"math"
	"testing"
)

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
	}{
		{"both nil", nil, nil},
		{"a nil", nil, NewFingerprint("man walks across street")},
		{"b nil", NewFingerprint("man walks across street"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); got != 0 {
				t.Errorf("CosineSimilarity() = %v, want 0", got)
			}
		})
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	text := "a woman opens the door and steps into the garden"
	got := CosineSimilarity(NewFingerprint(text), NewFingerprint(text))
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("CosineSimilarity(identical) = %v, want 1.0", got)
	}
}

func TestCosineSimilarityDisjoint(t *testing.T) {
	a := NewFingerprint("sunrise over mountains")
	b := NewFingerprint("crowded subway platform")
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(disjoint) = %v, want 0", got)
	}
}

func TestSimilarityPartialOverlap(t *testing.T) {
	got := Similarity(
		"the dog runs across the field",
		"the dog sleeps beside the fire",
	)
	if got <= 0 || got >= 1 {
		t.Errorf("Similarity(partial overlap) = %v, want in (0, 1)", got)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"filters short tokens", "a man at the door", []string{"man", "the", "door"}},
		{"lowercases and splits punctuation", "He waves; she SMILES!", []string{"waves", "she", "smiles"}},
		{"empty input", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNewFingerprintEmpty(t *testing.T) {
	if fp := NewFingerprint("a an it"); fp != nil {
		t.Errorf("NewFingerprint(all short tokens) = %v, want nil", fp)
	}
	if got := (*Fingerprint)(nil).TokenCount(); got != 0 {
		t.Errorf("nil TokenCount() = %d, want 0", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"clip: part 1/2", "clip- part 1-2"},
		{`what?"`, "what"},
		{"  plain.mkv  ", "plain.mkv"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeFileName(tt.input); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
