package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
}

// Segmentation contains thresholds for speech and scene segmentation.
type Segmentation struct {
	// MinPauseSeconds is the silence gap that splits two speech blocks.
	// Gaps of exactly this length do not split.
	MinPauseSeconds float64 `toml:"min_pause_seconds"`
	// MinWordConfidence drops words transcribed below this confidence.
	MinWordConfidence float64 `toml:"min_word_confidence"`
	// MinSceneSeconds is the minimum duration a scene may have after merging.
	MinSceneSeconds float64 `toml:"min_scene_seconds"`
	// Detector selects the scene detection backend: "similarity" samples
	// frames and compares them, "boundary" uses the encoder's scene filter.
	Detector string `toml:"detector"`
	// SampleIntervalSeconds spaces the frames sampled by the similarity detector.
	SampleIntervalSeconds float64 `toml:"sample_interval_seconds"`
	// SceneThreshold is the frame similarity below which a cut is declared.
	SceneThreshold float64 `toml:"scene_threshold"`
}

// Transcription contains configuration for word-level transcription.
type Transcription struct {
	Binary   string `toml:"binary"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
}

// Description contains configuration for the vision model that describes scenes.
type Description struct {
	BaseURL          string `toml:"base_url"`
	Model            string `toml:"model"`
	Prompt           string `toml:"prompt"`
	SystemPrompt     string `toml:"system_prompt"`
	FramesPerScene   int    `toml:"frames_per_scene"`
	ContextCharLimit int    `toml:"context_char_limit"`
	RetryAttempts    int    `toml:"retry_attempts"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
}

// Similarity contains configuration for description deduplication.
type Similarity struct {
	// Strategy selects the engine: "embedding" queries the description
	// backend for vectors, "lexical" compares token fingerprints locally.
	Strategy   string  `toml:"strategy"`
	EmbedModel string  `toml:"embed_model"`
	Threshold  float64 `toml:"threshold"`
}

// Narration contains configuration for narration synthesis.
type Narration struct {
	Binary  string `toml:"binary"`
	Model   string `toml:"model"`
	Speaker string `toml:"speaker"`
	// Tempo slows synthesized speech; 1.0 leaves it unchanged.
	Tempo float64 `toml:"tempo"`
	// MergeStrategy combines several descriptions for one pause:
	// "concatenate" or "summarize".
	MergeStrategy string `toml:"merge_strategy"`
	// OnSynthFailure decides what happens when synthesis fails after
	// retries: "fail" aborts the run, "drop" skips the narration clip.
	OnSynthFailure string `toml:"on_synth_failure"`
}

// Encoding contains output encoding parameters.
type Encoding struct {
	VideoCodec      string `toml:"video_codec"`
	Preset          string `toml:"preset"`
	CRF             int    `toml:"crf"`
	PixelFormat     string `toml:"pixel_format"`
	FrameRate       int    `toml:"frame_rate"`
	AudioCodec      string `toml:"audio_codec"`
	AudioBitrate    string `toml:"audio_bitrate"`
	SampleRate      int    `toml:"sample_rate"`
	AudioChannels   int    `toml:"audio_channels"`
	StillFrameScale int    `toml:"still_frame_scale"`
	KeepWorkFiles   bool   `toml:"keep_work_files"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for descant.
//
// Configuration sections by subsystem:
//   - Paths: staging, output, and log directories
//   - Segmentation: pause, confidence, and scene thresholds
//   - Transcription: whisper binary, model, and language
//   - Description: vision model connection and prompting
//   - Similarity: deduplication strategy and threshold
//   - Narration: TTS binary, voice, tempo, and failure policy
//   - Encoding: output video/audio parameters
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Segmentation  Segmentation  `toml:"segmentation"`
	Transcription Transcription `toml:"transcription"`
	Description   Description   `toml:"description"`
	Similarity    Similarity    `toml:"similarity"`
	Narration     Narration     `toml:"narration"`
	Encoding      Encoding      `toml:"encoding"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/descant/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("descant.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs.
// OutputDir is created on a best-effort basis so configuration loading
// does not fail while external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		_ = os.MkdirAll(c.Paths.OutputDir, 0o755)
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
