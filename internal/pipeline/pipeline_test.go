package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"descant/internal/logging"
	"descant/internal/media/frames"
	"descant/internal/narration"
	"descant/internal/runs"
	"descant/internal/services"
	"descant/internal/testsupport"
	"descant/internal/timeline"
	"descant/internal/workdir"
)

const probeJSON = `{
  "streams": [
    {"codec_type": "video", "width": 1280, "height": 720},
    {"codec_type": "audio"}
  ],
  "format": {"duration": "10.000000"}
}`

const transcriptJSON = `{
  "segments": [
    {
      "avg_logprob": -0.05,
      "words": [
        {"word": " hello", "start": 0.5, "end": 1.0, "probability": 0.9},
        {"word": " there", "start": 1.1, "end": 1.6, "probability": 0.9},
        {"word": " again", "start": 4.0, "end": 4.5, "probability": 0.9}
      ]
    }
  ]
}`

func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func flatFrame(value byte) []byte {
	frame := make([]byte, frames.Size*frames.Size)
	for i := range frame {
		frame[i] = value
	}
	return frame
}

func altFrame() []byte {
	frame := make([]byte, frames.Size*frames.Size)
	for i := range frame {
		if i%2 == 0 {
			frame[i] = 255
		}
	}
	return frame
}

// testGrayFrames yields one visual cut at t=5s when sampled every second
// over a ten second video.
func testGrayFrames() [][]byte {
	sampled := make([][]byte, 0, 10)
	for i := 0; i < 10; i++ {
		if i < 5 {
			sampled = append(sampled, flatFrame(100))
		} else {
			sampled = append(sampled, altFrame())
		}
	}
	return sampled
}

// fakeFFmpegRunner streams gray frames for rawvideo sampling and creates
// the destination file for every other invocation.
func fakeFFmpegRunner(t *testing.T, sampled [][]byte) func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	t.Helper()
	return func(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
		for i, a := range args {
			if a == "-f" && i+1 < len(args) && args[i+1] == "rawvideo" {
				return bytes.Join(sampled, nil), nil, nil
			}
		}
		dest := args[len(args)-1]
		if dest != "-" {
			if err := os.WriteFile(dest, []byte("media"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	}
}

func fakeWhisperRunner(t *testing.T) func(ctx context.Context, name string, args ...string) error {
	t.Helper()
	return func(_ context.Context, _ string, args ...string) error {
		dir := argValue(args, "--output_dir")
		if dir == "" {
			t.Fatal("whisper invoked without --output_dir")
		}
		return os.WriteFile(filepath.Join(dir, "speech.json"), []byte(transcriptJSON), 0o644)
	}
}

func fakeTTSRunner(t *testing.T) func(ctx context.Context, name string, args ...string) error {
	t.Helper()
	return func(_ context.Context, _ string, args ...string) error {
		dest := argValue(args, "--out_path")
		if dest == "" {
			t.Fatal("tts invoked without --out_path")
		}
		return os.WriteFile(dest, []byte("wav"), 0o644)
	}
}

func newModelServer(t *testing.T, response string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"response": response})
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestPipeline(t *testing.T, baseURL string) (*Pipeline, *runs.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithSimilarityStrategy("lexical"))
	cfg.Description.BaseURL = baseURL
	cfg.Description.TimeoutSeconds = 5

	store, err := runs.Open(filepath.Join(testsupport.BaseDir(cfg), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	p := New(cfg, store, logging.NewNop())
	p.probe = func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return []byte(probeJSON), nil
	}
	p.ffmpeg.WithCommandRunner(fakeFFmpegRunner(t, testGrayFrames()))
	p.whisper.WithCommandRunner(fakeWhisperRunner(t))
	p.tts.WithCommandRunner(fakeTTSRunner(t))
	return p, store
}

func writeSource(t *testing.T, dir string) string {
	t.Helper()
	source := filepath.Join(dir, "movie.mp4")
	testsupport.WriteFile(t, source, 64)
	return source
}

func TestProcess(t *testing.T) {
	server := newModelServer(t, "A person walks through a field.")
	p, store := newTestPipeline(t, server.URL)
	source := writeSource(t, t.TempDir())

	run, err := p.Process(context.Background(), source)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if run.Status != runs.StatusCompleted {
		t.Errorf("run status = %s, want %s", run.Status, runs.StatusCompleted)
	}
	// Both scenes describe identically, so the second narration dedups.
	if run.NarrationCount != 1 {
		t.Errorf("narration count = %d, want 1", run.NarrationCount)
	}
	wantOutput := filepath.Join(p.cfg.Paths.OutputDir, "movie_described.mp4")
	if run.OutputPath != wantOutput {
		t.Errorf("output path = %s, want %s", run.OutputPath, wantOutput)
	}
	if _, err := os.Stat(run.OutputPath); err != nil {
		t.Errorf("output file missing: %v", err)
	}

	persisted, err := store.GetByID(context.Background(), run.ID)
	if err != nil || persisted == nil {
		t.Fatalf("GetByID() = %v, %v", persisted, err)
	}
	if persisted.Status != runs.StatusCompleted {
		t.Errorf("persisted status = %s, want %s", persisted.Status, runs.StatusCompleted)
	}
}

func TestProcessMissingSource(t *testing.T) {
	server := newModelServer(t, "unused")
	p, _ := newTestPipeline(t, server.URL)

	_, err := p.Process(context.Background(), filepath.Join(t.TempDir(), "absent.mp4"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("Process() error = %v, want validation error", err)
	}
}

func TestProcessTranscriptionFailureMarksRunFailed(t *testing.T) {
	server := newModelServer(t, "unused")
	p, store := newTestPipeline(t, server.URL)
	p.whisper.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("model file missing")
	})
	source := writeSource(t, t.TempDir())

	run, err := p.Process(context.Background(), source)
	if err == nil {
		t.Fatal("Process() expected error")
	}
	if run == nil {
		t.Fatal("Process() returned nil run on stage failure")
	}
	persisted, getErr := store.GetByID(context.Background(), run.ID)
	if getErr != nil || persisted == nil {
		t.Fatalf("GetByID() = %v, %v", persisted, getErr)
	}
	if persisted.Status != runs.StatusFailed {
		t.Errorf("persisted status = %s, want %s", persisted.Status, runs.StatusFailed)
	}
	if persisted.ErrorMessage == "" {
		t.Error("expected persisted error message")
	}
}

func TestDetectScenesBoundary(t *testing.T) {
	server := newModelServer(t, "unused")
	p, _ := newTestPipeline(t, server.URL)
	p.cfg.Segmentation.Detector = "boundary"
	p.ffmpeg.WithCommandRunner(func(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
		return nil, []byte("frame:1 pts_time:3.2\nframe:2 pts_time:7.5\n"), nil
	})

	scenes, err := p.detectScenes(context.Background(), "input.mp4", 10)
	if err != nil {
		t.Fatalf("detectScenes() error = %v", err)
	}
	if len(scenes) != 3 {
		t.Fatalf("len(scenes) = %d, want 3", len(scenes))
	}
	if scenes[1].Start != 3.2 || scenes[1].End != 7.5 {
		t.Errorf("middle scene = %v, want [3.2,7.5)", scenes[1])
	}
	if scenes[2].End != 10 {
		t.Errorf("final scene end = %v, want 10", scenes[2].End)
	}
}

func TestSpansFromCuts(t *testing.T) {
	spans := spansFromCuts([]float64{0, 2.5, 2.5, 6, 12}, 10)
	if len(spans) != 3 {
		t.Fatalf("len(spans) = %d, want 3", len(spans))
	}
	if spans[0].Start != 0 || spans[0].End != 2.5 {
		t.Errorf("spans[0] = %+v", spans[0])
	}
	if spans[2].Start != 6 || spans[2].End != 10 {
		t.Errorf("spans[2] = %+v", spans[2])
	}

	whole := spansFromCuts(nil, 10)
	if len(whole) != 1 || whole[0].Start != 0 || whole[0].End != 10 {
		t.Errorf("spansFromCuts(nil) = %+v, want single full span", whole)
	}
}

func TestRendererSynthFailurePolicy(t *testing.T) {
	server := newModelServer(t, "unused")
	list := narration.EditList{
		{Kind: narration.NarrationClip, Text: "A door opens.", AnchorTime: 0},
		{Kind: narration.OriginalClip, Start: 0, End: 10},
	}

	for _, policy := range []string{"drop", "fail"} {
		t.Run(policy, func(t *testing.T) {
			p, _ := newTestPipeline(t, server.URL)
			p.cfg.Narration.OnSynthFailure = policy
			p.tts.WithCommandRunner(func(context.Context, string, ...string) error {
				return errors.New("voice model unavailable")
			})
			ws, err := workdir.Open(p.cfg.Paths.StagingDir, workdir.Options{})
			if err != nil {
				t.Fatalf("open workspace: %v", err)
			}
			defer ws.Close()

			r := newRenderer(p.cfg, p.ffmpeg, p.tts, ws, logging.NewNop())
			output := filepath.Join(p.cfg.Paths.OutputDir, "out.mp4")
			renderErr := r.Render(context.Background(), "normalized.mp4", list, output)

			if policy == "fail" {
				if renderErr == nil {
					t.Fatal("Render() expected error under fail policy")
				}
				return
			}
			if renderErr != nil {
				t.Fatalf("Render() error = %v", renderErr)
			}
			data, err := os.ReadFile(ws.Path("concat.txt"))
			if err != nil {
				t.Fatalf("read concat list: %v", err)
			}
			if got := strings.Count(string(data), "file "); got != 1 {
				t.Errorf("concat list entries = %d, want 1 after dropped narration", got)
			}
		})
	}
}

func TestRendererRejectsEmptyEditList(t *testing.T) {
	server := newModelServer(t, "unused")
	p, _ := newTestPipeline(t, server.URL)
	ws, err := workdir.Open(p.cfg.Paths.StagingDir, workdir.Options{})
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	defer ws.Close()

	r := newRenderer(p.cfg, p.ffmpeg, p.tts, ws, logging.NewNop())
	if err := r.Render(context.Background(), "in.mp4", nil, "out.mp4"); !errors.Is(err, services.ErrValidation) {
		t.Errorf("Render(empty) error = %v, want validation error", err)
	}
}

func TestSummarizerDegradesToConcatenation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p, _ := newTestPipeline(t, server.URL)
	s := &summarizer{client: p.client, model: "gemma3:12b", logger: logging.NewNop()}

	got, err := s.Combine(context.Background(), []string{"A door opens.", "A cat leaves."})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if got != "A door opens. A cat leaves." {
		t.Errorf("Combine() = %q, want concatenation fallback", got)
	}

	single, err := s.Combine(context.Background(), []string{"Only one."})
	if err != nil || single != "Only one." {
		t.Errorf("Combine(single) = %q, %v", single, err)
	}
}

func TestSceneDescriberDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p, _ := newTestPipeline(t, server.URL)
	ws, err := workdir.Open(p.cfg.Paths.StagingDir, workdir.Options{})
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	defer ws.Close()

	retry := services.RetryPolicy{MaxAttempts: 2, Sleep: func(context.Context, time.Duration) error { return nil }}
	d := newSceneDescriber(describerOptions{
		client:    p.client,
		cfg:       p.cfg.Description,
		ffmpeg:    p.ffmpeg,
		source:    "normalized.mp4",
		workspace: ws,
		logger:    logging.NewNop(),
		retry:     &retry,
	})

	got, err := d.Describe(context.Background(), timeline.Interval{Start: 2, End: 4}, "")
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if got != "" {
		t.Errorf("Describe() = %q, want empty after exhausted retries", got)
	}
}
