package narration

import (
	"context"
	"log/slog"
	"strings"

	"descant/internal/logging"
	"descant/internal/timeline"
)

// Describer produces a natural-language description of a visual scene.
// speechContext, when non-empty, is the transcript of the speech window
// the scene overlaps and may be used to disambiguate what is on screen.
// A degraded engine returns an empty string rather than an error; errors
// are reserved for failures that should abort the run.
type Describer interface {
	Describe(ctx context.Context, scene timeline.Interval, speechContext string) (string, error)
}

// CombineFunc merges the accepted descriptions of one speech window into
// the single narration text that gets synthesized. See Concatenate for
// the default policy.
type CombineFunc func(ctx context.Context, descriptions []string) (string, error)

// Concatenate joins descriptions with spaces in visual order.
func Concatenate(_ context.Context, descriptions []string) (string, error) {
	return strings.Join(descriptions, " "), nil
}

// DescriptionRecord is the most recently accepted description. Only the
// latest one is retained; it exists to feed the deduplicator.
type DescriptionRecord struct {
	Text      string
	Timestamp float64
}

// Synchronizer walks the speech segmentation once, front to back, and
// builds the edit list. Its visual cursor only moves forward, so every
// visual scene is described at most once across the whole run. A
// Synchronizer serves a single run and is not safe for concurrent use.
type Synchronizer struct {
	visuals      []timeline.Interval
	describer    Describer
	dedup        *Deduplicator
	combine      CombineFunc
	contextLimit int
	logger       *slog.Logger

	visualIndex  int
	lastAccepted *DescriptionRecord
}

// SynchronizerOptions configures NewSynchronizer.
type SynchronizerOptions struct {
	Visuals   []timeline.Interval
	Describer Describer
	Dedup     *Deduplicator
	// Combine merges accepted descriptions per speech window; nil means
	// Concatenate.
	Combine CombineFunc
	// ContextCharLimit caps the speech transcript passed to the describer
	// as context; zero or negative disables context entirely.
	ContextCharLimit int
	Logger           *slog.Logger
}

// NewSynchronizer constructs a Synchronizer for one run.
func NewSynchronizer(opts SynchronizerOptions) *Synchronizer {
	combine := opts.Combine
	if combine == nil {
		combine = Concatenate
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Synchronizer{
		visuals:      opts.Visuals,
		describer:    opts.Describer,
		dedup:        opts.Dedup,
		combine:      combine,
		contextLimit: opts.ContextCharLimit,
		logger:       logger,
	}
}

// LastAccepted exposes the most recently accepted description, if any.
func (s *Synchronizer) LastAccepted() *DescriptionRecord {
	return s.lastAccepted
}

// Run processes the speech intervals in order and returns the edit list.
// For each window the original footage is always kept; when overlapping
// visual scenes yield novel descriptions, one narration entry is placed
// immediately before that window's original clip.
func (s *Synchronizer) Run(ctx context.Context, speech []timeline.Interval) (EditList, error) {
	if err := timeline.CheckOrdering(speech); err != nil {
		return nil, err
	}
	if err := timeline.CheckOrdering(s.visuals); err != nil {
		return nil, err
	}

	list := make(EditList, 0, len(speech)*2)
	for _, window := range speech {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		accepted, err := s.describeWindow(ctx, window)
		if err != nil {
			return nil, err
		}

		if len(accepted) > 0 {
			combined, err := s.combine(ctx, accepted)
			if err != nil {
				return nil, err
			}
			if combined = strings.TrimSpace(combined); combined != "" {
				list = append(list, Entry{
					Kind:       NarrationClip,
					Text:       combined,
					AnchorTime: window.Start,
				})
			}
		}
		list = append(list, Entry{Kind: OriginalClip, Start: window.Start, End: window.End})
	}
	return list, nil
}

// describeWindow advances the visual cursor through every scene starting
// inside the window and returns the descriptions that survived dedup.
func (s *Synchronizer) describeWindow(ctx context.Context, window timeline.Interval) ([]string, error) {
	var accepted []string
	for s.visualIndex < len(s.visuals) && s.visuals[s.visualIndex].Start <= window.End {
		scene := s.visuals[s.visualIndex]
		s.visualIndex++

		desc, err := s.describer.Describe(ctx, scene, s.contextText(window))
		if err != nil {
			return nil, err
		}
		desc = strings.TrimSpace(desc)
		if desc == "" {
			s.logger.Debug("scene yielded no description",
				logging.Int("scene", scene.Index),
				logging.Float64("start", scene.Start))
			continue
		}

		skip, err := s.shouldSkip(ctx, desc)
		if err != nil {
			// Transient similarity failures degrade to accepting the
			// narration rather than losing it.
			s.logger.Warn("description dedup unavailable", logging.Error(err))
			skip = false
		}
		if skip {
			s.logger.Debug("skipping near-duplicate description",
				logging.Int("scene", scene.Index))
			continue
		}

		s.lastAccepted = &DescriptionRecord{Text: desc, Timestamp: scene.Start}
		accepted = append(accepted, desc)
	}
	return accepted, nil
}

func (s *Synchronizer) shouldSkip(ctx context.Context, candidate string) (bool, error) {
	if s.dedup == nil {
		return false, nil
	}
	previous := ""
	if s.lastAccepted != nil {
		previous = s.lastAccepted.Text
	}
	return s.dedup.ShouldSkip(ctx, previous, candidate)
}

func (s *Synchronizer) contextText(window timeline.Interval) string {
	if s.contextLimit <= 0 {
		return ""
	}
	text := strings.TrimSpace(window.Text)
	if len(text) > s.contextLimit {
		return ""
	}
	return text
}
