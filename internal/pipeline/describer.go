package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"descant/internal/config"
	"descant/internal/logging"
	"descant/internal/services"
	"descant/internal/services/ffmpeg"
	"descant/internal/services/ollama"
	"descant/internal/timeline"
	"descant/internal/workdir"
)

type describerOptions struct {
	client    *ollama.Client
	cfg       config.Description
	ffmpeg    *ffmpeg.Service
	source    string
	// frameWidth scales captured frames before they reach the model.
	frameWidth int
	workspace  *workdir.Workspace
	logger     *slog.Logger
	// retry overrides the policy built from cfg; nil means derive.
	retry *services.RetryPolicy
}

// sceneDescriber captures representative frames from a scene and asks
// the vision model for a description. Model failures degrade to an empty
// description after the retry budget; only local tool failures abort.
type sceneDescriber struct {
	client     *ollama.Client
	cfg        config.Description
	ffmpeg     *ffmpeg.Service
	source     string
	frameWidth int
	workspace  *workdir.Workspace
	logger     *slog.Logger
	retry      services.RetryPolicy
}

func newSceneDescriber(opts describerOptions) *sceneDescriber {
	logger := opts.logger
	if logger == nil {
		logger = logging.NewNop()
	}
	retry := services.DefaultRetryPolicy()
	if opts.cfg.RetryAttempts > 0 {
		retry.MaxAttempts = opts.cfg.RetryAttempts
	}
	if opts.retry != nil {
		retry = *opts.retry
	}
	frameWidth := opts.frameWidth
	if frameWidth <= 0 {
		frameWidth = 720
	}
	return &sceneDescriber{
		client:     opts.client,
		cfg:        opts.cfg,
		ffmpeg:     opts.ffmpeg,
		source:     opts.source,
		frameWidth: frameWidth,
		workspace:  opts.workspace,
		logger:     logger,
		retry:      retry,
	}
}

// Describe implements narration.Describer.
func (d *sceneDescriber) Describe(ctx context.Context, scene timeline.Interval, speechContext string) (string, error) {
	images, err := d.captureFrames(ctx, scene)
	if err != nil {
		return "", err
	}

	prompt := d.cfg.Prompt
	if speechContext != "" {
		prompt += "\n\nSpeech heard around this scene: " + speechContext
	}

	var text string
	genErr := d.retry.Do(ctx, func(ctx context.Context) error {
		out, err := d.client.Generate(ctx, ollama.GenerateRequest{
			Model:  d.cfg.Model,
			Prompt: prompt,
			System: d.cfg.SystemPrompt,
			Images: images,
		})
		if err != nil {
			return err
		}
		text = out
		return nil
	})
	if genErr != nil {
		if errors.Is(genErr, context.Canceled) {
			return "", genErr
		}
		// A scene the model cannot describe should not sink the whole
		// run; the synchronizer treats an empty description as a skip.
		d.logger.Warn("scene description unavailable",
			logging.Int("scene", scene.Index),
			logging.Float64("start", scene.Start),
			logging.Error(genErr))
		return "", nil
	}
	return text, nil
}

// captureFrames extracts evenly spaced frames across the scene and
// returns their encoded bytes.
func (d *sceneDescriber) captureFrames(ctx context.Context, scene timeline.Interval) ([][]byte, error) {
	count := d.cfg.FramesPerScene
	if count <= 0 {
		count = 1
	}
	images := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		at := scene.Start + scene.Duration()*(float64(i)+0.5)/float64(count)
		framePath := d.workspace.UniquePath(".jpg")
		if err := d.ffmpeg.ExtractFrame(ctx, d.source, at, d.frameWidth, framePath); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(framePath)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "describer", "read-frame",
				"read extracted frame", err)
		}
		images = append(images, data)
	}
	return images, nil
}
