package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Normalize re-encodes a source to the service's encoding profile so every
// clip cut from it later shares identical parameters.
func (s *Service) Normalize(ctx context.Context, source, dest string) error {
	args := append(baseArgs(), "-i", source)
	args = append(args, s.encodeArgs()...)
	args = append(args, dest)
	return s.run(ctx, "normalize", args...)
}

// CutClip re-encodes the [start, end) range of a source into its own clip.
func (s *Service) CutClip(ctx context.Context, source string, start, end float64, dest string) error {
	if end <= start {
		return fmt.Errorf("cut clip: end %.3f not after start %.3f", end, start)
	}
	args := append(baseArgs(),
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-i", source,
	)
	args = append(args, s.encodeArgs()...)
	args = append(args, dest)
	return s.run(ctx, "cut clip", args...)
}

// StillClip builds a video clip from a single frame and a narration audio
// track. The clip lasts exactly as long as the audio.
func (s *Service) StillClip(ctx context.Context, framePath, audioPath, dest string) error {
	args := append(baseArgs(),
		"-loop", "1",
		"-i", framePath,
		"-i", audioPath,
	)
	args = append(args, s.encodeArgs()...)
	args = append(args, "-tune", "stillimage", "-shortest", dest)
	return s.run(ctx, "still clip", args...)
}

// Concat joins the clips listed in a concat demuxer file. Video is
// stream-copied since every clip shares the encoding profile; audio is
// re-encoded with async resampling to keep the timeline gap-free.
func (s *Service) Concat(ctx context.Context, listPath, dest string) error {
	args := append(baseArgs(),
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c:v", "copy",
		"-af", "aresample=async=1000",
		"-c:a", s.enc.AudioCodec,
		"-b:a", s.enc.AudioBitrate,
		"-ar", strconv.Itoa(s.enc.SampleRate),
		dest,
	)
	return s.run(ctx, "concat", args...)
}

// WriteConcatList writes a concat demuxer file naming the given clips in
// order. Single quotes in paths are escaped per the demuxer's rules.
func WriteConcatList(path string, clips []string) error {
	if len(clips) == 0 {
		return fmt.Errorf("write concat list: no clips")
	}
	var b strings.Builder
	for _, clip := range clips {
		escaped := strings.ReplaceAll(clip, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}
