package ffmpeg

import (
	"context"
	"fmt"
)

// ExtractAudio pulls the full audio stream as mono 16kHz PCM WAV, the
// format the transcription model expects.
func (s *Service) ExtractAudio(ctx context.Context, source, dest string) error {
	args := append(baseArgs(),
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	)
	return s.run(ctx, "extract audio", args...)
}

// AdjustTempo re-times an audio file. Narration is typically slowed below
// 1.0 so it reads calmly. The atempo filter accepts 0.5 through 2.0.
func (s *Service) AdjustTempo(ctx context.Context, source string, tempo float64, dest string) error {
	if tempo < 0.5 || tempo > 2.0 {
		return fmt.Errorf("adjust tempo: %.2f outside atempo range [0.5, 2.0]", tempo)
	}
	args := append(baseArgs(),
		"-i", source,
		"-filter:a", fmt.Sprintf("atempo=%.2f", tempo),
		dest,
	)
	return s.run(ctx, "adjust tempo", args...)
}
