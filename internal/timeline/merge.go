package timeline

import "strings"

// Merge fuses intervals shorter than minDuration into a neighbor so no
// undersized interval survives. Scanning left to right, an undersized
// accumulated interval absorbs its successor, and an undersized
// successor is folded back into the accumulated interval; fused
// intervals extend the end time and join their texts with a space. If
// the scan leaves the final interval undersized it is folded backward
// into its predecessor. Indexes are renumbered from zero. The pass is
// idempotent and order preserving; inputs of fewer than two intervals
// are returned unchanged.
func Merge(intervals []Interval, minDuration float64) []Interval {
	if len(intervals) <= 1 {
		return intervals
	}

	out := make([]Interval, 0, len(intervals))
	out = append(out, intervals[0])
	for _, next := range intervals[1:] {
		last := &out[len(out)-1]
		if last.Duration() < minDuration || next.Duration() < minDuration {
			fuse(last, next)
			continue
		}
		out = append(out, next)
	}

	if len(out) > 1 {
		if last := out[len(out)-1]; last.Duration() < minDuration {
			out = out[:len(out)-1]
			fuse(&out[len(out)-1], last)
		}
	}
	return reindex(out)
}

func fuse(dst *Interval, src Interval) {
	dst.End = src.End
	dst.Text = joinText(dst.Text, src.Text)
	if src.Confidence > dst.Confidence {
		dst.Confidence = src.Confidence
	}
}

func joinText(a, b string) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
