package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"descant/internal/config"
	"descant/internal/logging"
	"descant/internal/media/ffprobe"
	"descant/internal/runs"
	"descant/internal/services"
	"descant/internal/services/ffmpeg"
	"descant/internal/services/ollama"
	"descant/internal/services/tts"
	"descant/internal/services/whisper"
	"descant/internal/textutil"
	"descant/internal/workdir"
)

// Pipeline drives one source video through every stage and journals the
// run. A Pipeline is safe to reuse across runs but processes them one at
// a time.
type Pipeline struct {
	cfg    *config.Config
	store  *runs.Store
	logger *slog.Logger

	ffmpeg  *ffmpeg.Service
	whisper *whisper.Service
	tts     *tts.Service
	client  *ollama.Client
	probe   ffprobe.Runner
}

// New wires a Pipeline from configuration. The store journals run state
// and must outlive the pipeline's runs.
func New(cfg *config.Config, store *runs.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:    cfg,
		store:  store,
		logger: logger,
		ffmpeg: ffmpeg.NewService(cfg.FFmpegBinary(), cfg.Encoding),
		whisper: whisper.NewService(whisper.Config{
			Binary:   cfg.Transcription.Binary,
			Model:    cfg.Transcription.Model,
			Language: cfg.Transcription.Language,
		}),
		tts: tts.NewService(tts.Config{
			Binary:  cfg.Narration.Binary,
			Model:   cfg.Narration.Model,
			Speaker: cfg.Narration.Speaker,
		}),
		client: ollama.NewClient(cfg.Description.BaseURL,
			time.Duration(cfg.Description.TimeoutSeconds)*time.Second),
	}
}

// Process runs the full pipeline for sourcePath and returns the journal
// entry in its final state. The returned run is non-nil whenever a
// journal entry was created, including on failure.
func (p *Pipeline) Process(ctx context.Context, sourcePath string) (*runs.Run, error) {
	sourcePath, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "resolve-source", "resolve source path", err)
	}
	if info, err := os.Stat(sourcePath); err != nil || info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "resolve-source",
			fmt.Sprintf("source video not found at %s", sourcePath), err)
	}

	run, err := p.store.Create(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	ctx = services.WithRunID(ctx, run.ID)
	logger := p.logger.With(logging.String("run_id", run.ID))
	logger.Info("run started", logging.String("source", sourcePath))

	ws, err := workdir.Open(p.cfg.Paths.StagingDir, workdir.Options{
		RunID:     run.ID,
		KeepFiles: p.cfg.Encoding.KeepWorkFiles,
	})
	if err != nil {
		return run, p.fail(ctx, logger, run, err)
	}
	defer func() {
		if closeErr := ws.Close(); closeErr != nil {
			logger.Warn("workspace cleanup incomplete", logging.Error(closeErr))
		}
	}()

	outputPath, narrationCount, err := p.execute(ctx, logger, run, ws)
	if err != nil {
		return run, p.fail(ctx, logger, run, err)
	}

	if err := p.store.Complete(ctx, run.ID, outputPath, narrationCount); err != nil {
		return run, err
	}
	run.Status = runs.StatusCompleted
	run.OutputPath = outputPath
	run.NarrationCount = narrationCount
	logger.Info("run completed",
		logging.String("output", outputPath),
		logging.Int("narrations", narrationCount))
	return run, nil
}

// stage transitions the run, executes fn with the stage recorded in the
// context, and logs timing either way.
func (p *Pipeline) stage(ctx context.Context, logger *slog.Logger, runID string, status runs.Status, fn func(ctx context.Context) error) error {
	name := string(status)
	if err := p.store.SetStatus(ctx, runID, status); err != nil {
		return err
	}
	stageCtx := services.WithStage(ctx, name)
	started := time.Now()
	logger.Info("stage started", logging.String("stage", name))
	if err := fn(stageCtx); err != nil {
		logger.Error("stage failed",
			logging.String("stage", name),
			logging.Duration("elapsed", time.Since(started)),
			logging.Error(err))
		return err
	}
	logger.Info("stage completed",
		logging.String("stage", name),
		logging.Duration("elapsed", time.Since(started)))
	return nil
}

// fail journals the failure. Persistence runs detached from ctx so a
// cancelled run still records why it stopped.
func (p *Pipeline) fail(ctx context.Context, logger *slog.Logger, run *runs.Run, cause error) error {
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.store.Fail(persistCtx, run.ID, cause.Error()); err != nil {
		logger.Error("failed to journal run failure", logging.Error(err))
	}
	run.Status = runs.StatusFailed
	run.ErrorMessage = cause.Error()
	return cause
}

// outputPathFor derives the final video path from the source name.
func (p *Pipeline) outputPathFor(sourcePath string) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(p.cfg.Paths.OutputDir, textutil.SanitizeFileName(base)+"_described.mp4")
}
