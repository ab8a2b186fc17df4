package ffmpeg

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"descant/internal/services"
)

var ptsTimePattern = regexp.MustCompile(`pts_time:([0-9.]+)`)

// DetectSceneBoundaries runs the scene filter over the source and returns
// the cut timestamps in ascending order. The filter prints matched frames
// via metadata=print, which lands on stdout when printed to file=-.
func (s *Service) DetectSceneBoundaries(ctx context.Context, source string, threshold float64) ([]float64, error) {
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("detect scenes: threshold %.3f outside (0, 1)", threshold)
	}
	args := []string{
		"-hide_banner",
		"-i", source,
		"-vf", fmt.Sprintf("select=gt(scene\\,%s),metadata=print:file=-", formatSeconds(threshold)),
		"-f", "null",
		"-",
	}
	stdout, stderr, err := s.runner(ctx, s.binary, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "detect scenes", strings.TrimSpace(string(stderr)), err)
	}

	combined := append(append([]byte(nil), stdout...), stderr...)
	matches := ptsTimePattern.FindAllSubmatch(combined, -1)
	cuts := make([]float64, 0, len(matches))
	seen := make(map[float64]struct{}, len(matches))
	for _, match := range matches {
		value, parseErr := strconv.ParseFloat(string(match[1]), 64)
		if parseErr != nil {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		cuts = append(cuts, value)
	}
	sort.Float64s(cuts)
	return cuts, nil
}
