package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"descant/internal/config"
	"descant/internal/services"
)

// CommandRunner executes a command and returns stdout and stderr
// separately. Scene detection reads filter output from stderr while frame
// sampling streams raw video over stdout, so both are surfaced.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Service provides ffmpeg operations configured for one encoding profile.
type Service struct {
	binary string
	enc    config.Encoding
	runner CommandRunner
}

// NewService creates an ffmpeg service using the given encoding profile.
func NewService(binary string, enc config.Encoding) *Service {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Service{binary: binary, enc: enc, runner: execRunner}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		s.runner = runner
	}
}

// Binary returns the configured executable name.
func (s *Service) Binary() string { return s.binary }

func (s *Service) run(ctx context.Context, op string, args ...string) error {
	_, stderr, err := s.runner(ctx, s.binary, args...)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", op, strings.TrimSpace(string(stderr)), err)
	}
	return nil
}

// encodeArgs returns the output encoding arguments shared by every clip the
// pipeline produces, so concatenation can stream-copy.
func (s *Service) encodeArgs() []string {
	return []string{
		"-c:v", s.enc.VideoCodec,
		"-preset", s.enc.Preset,
		"-crf", strconv.Itoa(s.enc.CRF),
		"-pix_fmt", s.enc.PixelFormat,
		"-r", strconv.Itoa(s.enc.FrameRate),
		"-c:a", s.enc.AudioCodec,
		"-b:a", s.enc.AudioBitrate,
		"-ar", strconv.Itoa(s.enc.SampleRate),
		"-ac", strconv.Itoa(s.enc.AudioChannels),
	}
}

func baseArgs() []string {
	return []string{"-y", "-hide_banner", "-loglevel", "error"}
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}
