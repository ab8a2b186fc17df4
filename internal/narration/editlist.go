package narration

import (
	"fmt"

	"descant/internal/timeline"
)

// EntryKind discriminates edit list entries.
type EntryKind int

const (
	// OriginalClip references a [Start,End) range of the source video,
	// carried into the output untouched.
	OriginalClip EntryKind = iota
	// NarrationClip is generated material: a freeze frame taken at
	// AnchorTime, shown for the duration of the synthesized narration.
	NarrationClip
)

func (k EntryKind) String() string {
	switch k {
	case OriginalClip:
		return "original"
	case NarrationClip:
		return "narration"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry is one element of the edit list. OriginalClip entries use Start
// and End; NarrationClip entries use Text and AnchorTime.
type Entry struct {
	Kind       EntryKind
	Start      float64
	End        float64
	Text       string
	AnchorTime float64
}

// EditList is the ordered clip sequence handed to the renderer.
// Narration entries are inserted before the original footage they
// describe; original entries partition the source timeline.
type EditList []Entry

// OriginalEntries returns only the source-footage entries, in order.
func (el EditList) OriginalEntries() []Entry {
	out := make([]Entry, 0, len(el))
	for _, e := range el {
		if e.Kind == OriginalClip {
			out = append(out, e)
		}
	}
	return out
}

// NarrationCount returns the number of narration entries.
func (el EditList) NarrationCount() int {
	n := 0
	for _, e := range el {
		if e.Kind == NarrationClip {
			n++
		}
	}
	return n
}

// Validate confirms the structural guarantees the renderer depends on:
// original entries tile [0, totalDuration] with no gaps or overlaps, and
// every narration entry carries text and precedes an original entry.
func (el EditList) Validate(totalDuration float64) error {
	originals := make([]timeline.Interval, 0, len(el))
	for i, e := range el {
		switch e.Kind {
		case OriginalClip:
			originals = append(originals, timeline.Interval{Start: e.Start, End: e.End})
		case NarrationClip:
			if e.Text == "" {
				return fmt.Errorf("%w: narration entry %d has empty text", timeline.ErrInvariant, i)
			}
			if i+1 >= len(el) || el[i+1].Kind != OriginalClip {
				return fmt.Errorf("%w: narration entry %d is not followed by original footage", timeline.ErrInvariant, i)
			}
		default:
			return fmt.Errorf("%w: entry %d has unknown kind %d", timeline.ErrInvariant, i, int(e.Kind))
		}
	}
	if err := timeline.CheckCoverage(originals, totalDuration); err != nil {
		return fmt.Errorf("edit list original clips: %w", err)
	}
	return nil
}
