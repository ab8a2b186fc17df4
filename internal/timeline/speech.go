package timeline

import "strings"

// SegmentSpeech converts ordered word tokens into contiguous speech
// intervals covering [0, totalDuration]. Words whose confidence falls
// below minConfidence are discarded before scanning. A gap between
// consecutive words strictly greater than minPause closes the current
// block; the pause itself is absorbed into the start of the following
// block so the output tiles the timeline without gaps. When recognized
// speech ends before the media does, a final empty-text interval covers
// the trailing silence.
//
// An empty result (no words, or none surviving the confidence filter)
// means "no speech detected" and is returned as an empty slice, not as
// a single silent interval covering the whole file.
func SegmentSpeech(words []WordToken, minPause, minConfidence, totalDuration float64) []Interval {
	kept := words[:0:0]
	for _, w := range words {
		if w.Confidence < minConfidence {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return nil
	}

	var (
		out      []Interval
		buf      strings.Builder
		bufStart float64
		bufEnd   float64
	)

	for _, w := range kept {
		gap := w.Start - bufEnd
		if gap > minPause && bufEnd > bufStart {
			out = append(out, Interval{Start: bufStart, End: bufEnd, Text: buf.String()})
			bufStart = bufEnd
			buf.Reset()
		}
		if text := strings.TrimSpace(w.Text); text != "" {
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(text)
		}
		bufEnd = w.End
	}
	out = append(out, Interval{Start: bufStart, End: bufEnd, Text: buf.String()})

	if bufEnd < totalDuration {
		out = append(out, Interval{Start: bufEnd, End: totalDuration})
	}
	return reindex(out)
}
