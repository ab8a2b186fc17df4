package timeline

import "fmt"

// FrameSample is one sampled point of the shot-boundary signal: the
// sample's timestamp and the similarity of its frame to the previously
// sampled frame. Cosine similarities land roughly in [-1,1].
type FrameSample struct {
	Time       float64
	Similarity float64
}

// BoundarySpan is a discrete shot boundary pair reported by a detector
// that already segments the video itself.
type BoundarySpan struct {
	Start float64
	End   float64
}

// SegmentShots converts a frame-similarity stream into visual scene
// intervals. A new scene opens wherever the similarity to the previous
// sample drops below threshold; the final scene always closes at
// totalDuration. The output is contiguous and gap free over
// [0, totalDuration]. With no samples, the whole video is one scene.
func SegmentShots(samples []FrameSample, threshold, totalDuration float64) []Interval {
	var out []Interval
	sceneStart := 0.0
	for _, s := range samples {
		if s.Similarity >= threshold {
			continue
		}
		if s.Time <= sceneStart || s.Time >= totalDuration {
			continue
		}
		out = append(out, Interval{Start: sceneStart, End: s.Time})
		sceneStart = s.Time
	}
	out = append(out, Interval{Start: sceneStart, End: totalDuration})
	return reindex(out)
}

// WrapBoundaries adapts discrete boundary pairs from an external shot
// detector into a validated interval sequence. The detector's spans must
// already be ordered and contiguous; the final span is extended to
// totalDuration to absorb rounding at the tail. A detector that found
// no shots yields one interval covering the whole video.
func WrapBoundaries(spans []BoundarySpan, totalDuration float64) ([]Interval, error) {
	if len(spans) == 0 {
		return []Interval{{Start: 0, End: totalDuration}}, nil
	}
	out := make([]Interval, 0, len(spans))
	for _, sp := range spans {
		out = append(out, Interval{Start: sp.Start, End: sp.End})
	}
	out[len(out)-1].End = totalDuration
	if err := CheckCoverage(out, totalDuration); err != nil {
		return nil, fmt.Errorf("shot detector output: %w", err)
	}
	return reindex(out), nil
}
