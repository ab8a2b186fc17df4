package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"descant/internal/media/frames"
	"descant/internal/services"
)

// ExtractFrame grabs one frame at the given timestamp, scaled to the given
// width with the height following the aspect ratio.
func (s *Service) ExtractFrame(ctx context.Context, source string, at float64, scaleWidth int, dest string) error {
	if scaleWidth <= 0 {
		return fmt.Errorf("extract frame: invalid scale width %d", scaleWidth)
	}
	args := append(baseArgs(),
		"-ss", formatSeconds(at),
		"-i", source,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:-2", scaleWidth),
		dest,
	)
	return s.run(ctx, "extract frame", args...)
}

// SampleGrayFrames streams the source as small grayscale frames sampled
// every interval seconds, returning one luma vector per frame for shot
// detection.
func (s *Service) SampleGrayFrames(ctx context.Context, source string, interval float64) ([][]byte, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sample frames: invalid interval %.3f", interval)
	}
	args := append(baseArgs(),
		"-i", source,
		"-vf", fmt.Sprintf("fps=1/%s,scale=%d:%d,format=gray", formatSeconds(interval), frames.Size, frames.Size),
		"-f", "rawvideo",
		"-",
	)
	stdout, stderr, err := s.runner(ctx, s.binary, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "sample frames", strings.TrimSpace(string(stderr)), err)
	}
	return frames.SplitRaw(stdout, frames.Size, frames.Size)
}
