// Package frames turns sampled grayscale video frames into a similarity
// stream for shot detection.
//
// The renderer samples the source at a fixed interval, scaled down to a
// small square and stripped to one luma byte per pixel. Comparing each
// frame against its predecessor by cosine similarity gives a cheap signal
// that drops sharply on a hard cut.
package frames

import (
	"fmt"
	"math"

	"descant/internal/timeline"
)

// Size is the edge length sampled frames are scaled to before comparison.
const Size = 32

// SplitRaw slices a raw gray video stream into individual frames of
// width*height bytes. Trailing partial frames are rejected.
func SplitRaw(raw []byte, width, height int) ([][]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", width, height)
	}
	frameSize := width * height
	if len(raw)%frameSize != 0 {
		return nil, fmt.Errorf("raw stream length %d is not a multiple of frame size %d", len(raw), frameSize)
	}
	out := make([][]byte, 0, len(raw)/frameSize)
	for offset := 0; offset < len(raw); offset += frameSize {
		out = append(out, raw[offset:offset+frameSize])
	}
	return out, nil
}

// Cosine computes the cosine similarity of two equal-length luma vectors.
// Mismatched lengths and all-black frames compare as 0.
func Cosine(a, b []byte) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SimilarityStream compares consecutive frames sampled interval seconds
// apart. The first sample sits at t=interval and scores frame 1 against
// frame 0; fewer than two frames yield no samples.
func SimilarityStream(sampled [][]byte, interval float64) []timeline.FrameSample {
	if len(sampled) < 2 || interval <= 0 {
		return nil
	}
	samples := make([]timeline.FrameSample, 0, len(sampled)-1)
	for i := 1; i < len(sampled); i++ {
		samples = append(samples, timeline.FrameSample{
			Time:       float64(i) * interval,
			Similarity: Cosine(sampled[i-1], sampled[i]),
		})
	}
	return samples
}
