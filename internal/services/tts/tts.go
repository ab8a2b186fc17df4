// Package tts synthesizes narration audio through the Coqui TTS CLI.
package tts

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"descant/internal/services"
)

// Config describes how to invoke the TTS binary.
type Config struct {
	Binary  string
	Model   string
	Speaker string
}

// Service synthesizes speech from narration text.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a TTS service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = "tts"
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string { return s.cfg.Model }

// Synthesize renders text to a WAV file at dest.
func (s *Service) Synthesize(ctx context.Context, text, dest string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return services.Wrap(services.ErrValidation, "narrating", "synthesize", "empty narration text", nil)
	}
	if strings.TrimSpace(dest) == "" {
		return services.Wrap(services.ErrValidation, "narrating", "synthesize", "destination path required", nil)
	}

	args := []string{
		"--text", text,
		"--model_name", s.cfg.Model,
		"--out_path", dest,
	}
	if s.cfg.Speaker != "" {
		args = append(args, "--speaker_idx", s.cfg.Speaker)
	}

	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "narrating", "synthesize", "", err)
	}
	return nil
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
