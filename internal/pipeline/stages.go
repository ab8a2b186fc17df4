package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"descant/internal/logging"
	"descant/internal/media/ffprobe"
	"descant/internal/media/frames"
	"descant/internal/narration"
	"descant/internal/runs"
	"descant/internal/services"
	"descant/internal/services/ollama"
	"descant/internal/timeline"
	"descant/internal/workdir"
)

// execute runs every stage against ws and returns the rendered output
// path with the number of narrations placed.
func (p *Pipeline) execute(ctx context.Context, logger *slog.Logger, run *runs.Run, ws *workdir.Workspace) (string, int, error) {
	probe, err := ffprobe.Inspect(ctx, p.probe, p.cfg.FFprobeBinary(), run.SourcePath)
	if err != nil {
		return "", 0, err
	}
	if !probe.HasVideo() {
		return "", 0, services.Wrap(services.ErrValidation, "pipeline", "inspect-source",
			"source has no video stream", nil)
	}
	if !probe.HasAudio() {
		return "", 0, services.Wrap(services.ErrValidation, "pipeline", "inspect-source",
			"source has no audio stream", nil)
	}

	normalized := ws.Path("normalized.mp4")
	duration := 0.0
	if err := p.stage(ctx, logger, run.ID, runs.StatusNormalizing, func(ctx context.Context) error {
		if err := p.ffmpeg.Normalize(ctx, run.SourcePath, normalized); err != nil {
			return err
		}
		// Frame-rate and sample-rate conversion can shift the duration
		// slightly, so every later stage measures the normalized file.
		result, err := ffprobe.Inspect(ctx, p.probe, p.cfg.FFprobeBinary(), normalized)
		if err != nil {
			return err
		}
		duration = result.DurationSeconds()
		if duration <= 0 {
			return services.Wrap(services.ErrExternalTool, "pipeline", "normalize",
				"normalized video reports no duration", nil)
		}
		return nil
	}); err != nil {
		return "", 0, err
	}

	var speech []timeline.Interval
	if err := p.stage(ctx, logger, run.ID, runs.StatusTranscribing, func(ctx context.Context) error {
		audioPath := ws.Path("speech.wav")
		if err := p.ffmpeg.ExtractAudio(ctx, normalized, audioPath); err != nil {
			return err
		}
		words, err := p.whisper.Transcribe(ctx, audioPath, ws.Root())
		if err != nil {
			return err
		}
		seg := p.cfg.Segmentation
		speech = timeline.SegmentSpeech(words, seg.MinPauseSeconds, seg.MinWordConfidence, duration)
		if len(speech) == 0 {
			// No recognized speech: the whole video is one silent
			// window, so narrations can still land anywhere.
			speech = []timeline.Interval{{Start: 0, End: duration}}
		}
		logger.Info("speech segmented",
			logging.Int("words", len(words)),
			logging.Int("windows", len(speech)))
		return nil
	}); err != nil {
		return "", 0, err
	}

	var visuals []timeline.Interval
	if err := p.stage(ctx, logger, run.ID, runs.StatusDetecting, func(ctx context.Context) error {
		detected, err := p.detectScenes(ctx, normalized, duration)
		if err != nil {
			return err
		}
		visuals = timeline.Merge(detected, p.cfg.Segmentation.MinSceneSeconds)
		logger.Info("scenes detected",
			logging.Int("raw", len(detected)),
			logging.Int("merged", len(visuals)))
		return nil
	}); err != nil {
		return "", 0, err
	}

	var list narration.EditList
	if err := p.stage(ctx, logger, run.ID, runs.StatusSynchronizing, func(ctx context.Context) error {
		sync, err := p.newSynchronizer(logger, ws, normalized, visuals)
		if err != nil {
			return err
		}
		list, err = sync.Run(ctx, speech)
		if err != nil {
			return err
		}
		if err := list.Validate(duration); err != nil {
			return err
		}
		logger.Info("edit list built",
			logging.Int("entries", len(list)),
			logging.Int("narrations", list.NarrationCount()))
		return nil
	}); err != nil {
		return "", 0, err
	}

	outputPath := p.outputPathFor(run.SourcePath)
	if err := p.stage(ctx, logger, run.ID, runs.StatusRendering, func(ctx context.Context) error {
		renderer := newRenderer(p.cfg, p.ffmpeg, p.tts, ws, logger)
		return renderer.Render(ctx, normalized, list, outputPath)
	}); err != nil {
		return "", 0, err
	}

	return outputPath, list.NarrationCount(), nil
}

// detectScenes segments the video visually with the configured backend.
func (p *Pipeline) detectScenes(ctx context.Context, source string, duration float64) ([]timeline.Interval, error) {
	seg := p.cfg.Segmentation
	switch seg.Detector {
	case "similarity":
		sampled, err := p.ffmpeg.SampleGrayFrames(ctx, source, seg.SampleIntervalSeconds)
		if err != nil {
			return nil, err
		}
		stream := frames.SimilarityStream(sampled, seg.SampleIntervalSeconds)
		return timeline.SegmentShots(stream, seg.SceneThreshold, duration), nil
	case "boundary":
		// The encoder's scene filter scores frame difference, not
		// similarity, so the configured threshold flips.
		cuts, err := p.ffmpeg.DetectSceneBoundaries(ctx, source, 1-seg.SceneThreshold)
		if err != nil {
			return nil, err
		}
		return timeline.WrapBoundaries(spansFromCuts(cuts, duration), duration)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "detect-scenes",
			fmt.Sprintf("unknown scene detector %q", seg.Detector), nil)
	}
}

// spansFromCuts turns cut timestamps into contiguous scene spans over
// [0, duration]. Cuts outside the open interval are ignored.
func spansFromCuts(cuts []float64, duration float64) []timeline.BoundarySpan {
	spans := make([]timeline.BoundarySpan, 0, len(cuts)+1)
	prev := 0.0
	for _, cut := range cuts {
		if cut <= prev || cut >= duration {
			continue
		}
		spans = append(spans, timeline.BoundarySpan{Start: prev, End: cut})
		prev = cut
	}
	spans = append(spans, timeline.BoundarySpan{Start: prev, End: duration})
	return spans
}

// newSynchronizer assembles the description, deduplication, and merge
// machinery for one run.
func (p *Pipeline) newSynchronizer(logger *slog.Logger, ws *workdir.Workspace, source string, visuals []timeline.Interval) (*narration.Synchronizer, error) {
	engine, err := p.similarityEngine()
	if err != nil {
		return nil, err
	}
	combine, err := p.combineFunc(logger)
	if err != nil {
		return nil, err
	}
	describer := newSceneDescriber(describerOptions{
		client:     p.client,
		cfg:        p.cfg.Description,
		ffmpeg:     p.ffmpeg,
		source:     source,
		frameWidth: p.cfg.Encoding.StillFrameScale,
		workspace:  ws,
		logger:     logger,
	})
	return narration.NewSynchronizer(narration.SynchronizerOptions{
		Visuals:          visuals,
		Describer:        describer,
		Dedup:            narration.NewDeduplicator(engine, p.cfg.Similarity.Threshold),
		Combine:          combine,
		ContextCharLimit: p.cfg.Description.ContextCharLimit,
		Logger:           logger,
	}), nil
}

func (p *Pipeline) similarityEngine() (narration.SimilarityEngine, error) {
	switch p.cfg.Similarity.Strategy {
	case "embedding":
		return ollama.NewEmbeddingEngine(p.client, p.cfg.Similarity.EmbedModel), nil
	case "lexical":
		return narration.LexicalEngine{}, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "similarity-engine",
			fmt.Sprintf("unknown similarity strategy %q", p.cfg.Similarity.Strategy), nil)
	}
}

func (p *Pipeline) combineFunc(logger *slog.Logger) (narration.CombineFunc, error) {
	switch p.cfg.Narration.MergeStrategy {
	case "concatenate":
		return narration.Concatenate, nil
	case "summarize":
		s := &summarizer{client: p.client, model: p.cfg.Description.Model, logger: logger}
		return s.Combine, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "combine",
			fmt.Sprintf("unknown merge strategy %q", p.cfg.Narration.MergeStrategy), nil)
	}
}
