package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"descant/internal/config"
	"descant/internal/logging"
	"descant/internal/narration"
	"descant/internal/services"
	"descant/internal/services/ffmpeg"
	"descant/internal/services/tts"
	"descant/internal/workdir"
)

// renderer turns an edit list into the final video: original footage is
// cut from the normalized source, narrations become still-frame clips
// with synthesized audio, and everything concatenates in list order.
type renderer struct {
	cfg    *config.Config
	ffmpeg *ffmpeg.Service
	tts    *tts.Service
	ws     *workdir.Workspace
	logger *slog.Logger
}

func newRenderer(cfg *config.Config, ffmpegSvc *ffmpeg.Service, ttsSvc *tts.Service, ws *workdir.Workspace, logger *slog.Logger) *renderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &renderer{cfg: cfg, ffmpeg: ffmpegSvc, tts: ttsSvc, ws: ws, logger: logger}
}

// Render writes the described video to outputPath.
func (r *renderer) Render(ctx context.Context, source string, list narration.EditList, outputPath string) error {
	if len(list) == 0 {
		return services.Wrap(services.ErrValidation, "render", "edit-list", "edit list is empty", nil)
	}

	clips := make([]string, 0, len(list))
	for i, entry := range list {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch entry.Kind {
		case narration.OriginalClip:
			clip := r.ws.Path(fmt.Sprintf("clip_%04d.mp4", i))
			if err := r.ffmpeg.CutClip(ctx, source, entry.Start, entry.End, clip); err != nil {
				return err
			}
			clips = append(clips, clip)
		case narration.NarrationClip:
			clip, err := r.narrationClip(ctx, source, i, entry)
			if err != nil {
				if errors.Is(err, context.Canceled) || r.cfg.Narration.OnSynthFailure != "drop" {
					return err
				}
				r.logger.Warn("dropping narration after synthesis failure",
					logging.Int("entry", i),
					logging.Float64("anchor", entry.AnchorTime),
					logging.Error(err))
				continue
			}
			clips = append(clips, clip)
		default:
			return services.Wrap(services.ErrValidation, "render", "edit-list",
				fmt.Sprintf("entry %d has unknown kind", i), nil)
		}
	}

	listPath := r.ws.Path("concat.txt")
	if err := ffmpeg.WriteConcatList(listPath, clips); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "render", "output-dir",
			"create output directory", err)
	}
	return r.ffmpeg.Concat(ctx, listPath, outputPath)
}

// narrationClip synthesizes the narration audio, grabs a still frame at
// the anchor, and assembles them into one clip.
func (r *renderer) narrationClip(ctx context.Context, source string, index int, entry narration.Entry) (string, error) {
	audio := r.ws.Path(fmt.Sprintf("narration_%04d.wav", index))
	if err := r.tts.Synthesize(ctx, entry.Text, audio); err != nil {
		return "", err
	}
	if tempo := r.cfg.Narration.Tempo; tempo > 0 && tempo != 1.0 {
		adjusted := r.ws.Path(fmt.Sprintf("narration_%04d_tempo.wav", index))
		if err := r.ffmpeg.AdjustTempo(ctx, audio, tempo, adjusted); err != nil {
			return "", err
		}
		audio = adjusted
	}

	frame := r.ws.Path(fmt.Sprintf("anchor_%04d.jpg", index))
	if err := r.ffmpeg.ExtractFrame(ctx, source, entry.AnchorTime, r.cfg.Encoding.StillFrameScale, frame); err != nil {
		return "", err
	}

	clip := r.ws.Path(fmt.Sprintf("clip_%04d.mp4", index))
	if err := r.ffmpeg.StillClip(ctx, frame, audio, clip); err != nil {
		return "", err
	}
	return clip, nil
}
