package timeline

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvariant marks a violation of the interval ordering guarantees.
// Errors carrying this sentinel indicate a segmenter bug and must abort
// the run rather than being swallowed.
var ErrInvariant = errors.New("interval invariant violation")

// Interval is a half-open [Start,End) span of media time in seconds.
// Text and Confidence are optional payloads: speech intervals carry the
// transcript of the words they cover, visual intervals leave Text empty.
type Interval struct {
	Index      int
	Start      float64
	End        float64
	Text       string
	Confidence float64
}

// Duration returns the interval length in seconds.
func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

func (iv Interval) String() string {
	return fmt.Sprintf("interval %d [%.3f, %.3f) %q", iv.Index, iv.Start, iv.End, iv.Text)
}

// WordToken is a single recognized word with its timing and the
// recognizer's confidence, as produced by the speech-to-text engine.
type WordToken struct {
	Text       string
	Start      float64
	End        float64
	Confidence float64
}

// ConfidenceFromLogProb converts a base-10 log probability reported by a
// speech recognizer into a confidence in [0,1].
func ConfidenceFromLogProb(logProb float64) float64 {
	conf := math.Pow(10, logProb)
	if conf > 1 {
		return 1
	}
	return conf
}

// CheckOrdering verifies the ordered-stream invariants: every interval
// has 0 <= Start <= End and consecutive intervals do not overlap.
// Violations are reported with the offending interval values and tagged
// with ErrInvariant.
func CheckOrdering(intervals []Interval) error {
	for i, iv := range intervals {
		if iv.Start < 0 || iv.End < iv.Start {
			return fmt.Errorf("%w: malformed span at position %d: %s", ErrInvariant, i, iv)
		}
		if i > 0 && intervals[i-1].End > iv.Start {
			return fmt.Errorf("%w: overlap between %s and %s", ErrInvariant, intervals[i-1], iv)
		}
	}
	return nil
}

// CheckCoverage verifies that the intervals tile [0, totalDuration]
// contiguously: ordered, gap free, starting at zero and ending at the
// media duration. Used by tests and by the synchronizer's input guard.
func CheckCoverage(intervals []Interval, totalDuration float64) error {
	if err := CheckOrdering(intervals); err != nil {
		return err
	}
	if len(intervals) == 0 {
		return fmt.Errorf("%w: empty sequence cannot cover %.3fs", ErrInvariant, totalDuration)
	}
	if intervals[0].Start != 0 {
		return fmt.Errorf("%w: coverage starts at %.3f, want 0", ErrInvariant, intervals[0].Start)
	}
	for i := 1; i < len(intervals); i++ {
		if intervals[i-1].End != intervals[i].Start {
			return fmt.Errorf("%w: gap between %s and %s", ErrInvariant, intervals[i-1], intervals[i])
		}
	}
	if last := intervals[len(intervals)-1]; last.End != totalDuration {
		return fmt.Errorf("%w: coverage ends at %.3f, want %.3f", ErrInvariant, last.End, totalDuration)
	}
	return nil
}

func reindex(intervals []Interval) []Interval {
	for i := range intervals {
		intervals[i].Index = i
	}
	return intervals
}
