package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"descant/internal/services"
	"descant/internal/timeline"
)

// Config describes how to invoke the whisper binary.
type Config struct {
	Binary   string
	Model    string
	Language string
}

// Service provides word-level transcription via the whisper CLI.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a whisper service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = "whisper"
	}
	if cfg.Model == "" {
		cfg.Model = "base"
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string { return s.cfg.Model }

// Transcribe runs whisper over an audio file and returns the word tokens
// in transcript order. outputDir receives whisper's JSON transcript.
func (s *Service) Transcribe(ctx context.Context, audioPath, outputDir string) ([]timeline.WordToken, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribing", "transcribe", "audio path required", nil)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	args := []string{
		audioPath,
		"--model", s.cfg.Model,
		"--word_timestamps", "True",
		"--output_format", "json",
		"--output_dir", outputDir,
		"--verbose", "False",
	}
	if s.cfg.Language != "" {
		args = append(args, "--language", s.cfg.Language)
	}

	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribing", "transcribe", "", err)
	}

	transcriptPath := transcriptPathFor(audioPath, outputDir)
	data, err := os.ReadFile(transcriptPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribing", "read transcript", transcriptPath, err)
	}

	words, err := ParseWords(data)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribing", "parse transcript", transcriptPath, err)
	}
	return words, nil
}

func transcriptPathFor(audioPath, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	return filepath.Join(outputDir, base+".json")
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
