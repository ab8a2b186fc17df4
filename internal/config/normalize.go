package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSegmentation()
	c.normalizeTranscription()
	c.normalizeDescription()
	c.normalizeSimilarity()
	c.normalizeNarration()
	c.normalizeEncoding()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSegmentation() {
	c.Segmentation.Detector = strings.ToLower(strings.TrimSpace(c.Segmentation.Detector))
	if c.Segmentation.Detector == "" {
		c.Segmentation.Detector = defaultSceneDetector
	}
	if c.Segmentation.MinPauseSeconds <= 0 {
		c.Segmentation.MinPauseSeconds = defaultMinPauseSeconds
	}
	if c.Segmentation.MinSceneSeconds <= 0 {
		c.Segmentation.MinSceneSeconds = defaultMinSceneSeconds
	}
	if c.Segmentation.SampleIntervalSeconds <= 0 {
		c.Segmentation.SampleIntervalSeconds = defaultSampleIntervalSeconds
	}
	if c.Segmentation.SceneThreshold <= 0 {
		c.Segmentation.SceneThreshold = defaultSceneThreshold
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Binary = strings.TrimSpace(c.Transcription.Binary)
	if c.Transcription.Binary == "" {
		c.Transcription.Binary = defaultTranscriptionBinary
	}
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultTranscriptionModel
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	if c.Transcription.Language == "" {
		c.Transcription.Language = defaultTranscriptionLanguage
	}
}

func (c *Config) normalizeDescription() {
	c.Description.BaseURL = strings.TrimSpace(c.Description.BaseURL)
	if c.Description.BaseURL == "" {
		if value, ok := os.LookupEnv("OLLAMA_BASE_URL"); ok {
			c.Description.BaseURL = strings.TrimSpace(value)
		}
	}
	if c.Description.BaseURL == "" {
		c.Description.BaseURL = defaultDescriptionBaseURL
	}
	c.Description.BaseURL = strings.TrimRight(c.Description.BaseURL, "/")
	c.Description.Model = strings.TrimSpace(c.Description.Model)
	if c.Description.Model == "" {
		c.Description.Model = defaultDescriptionModel
	}
	if strings.TrimSpace(c.Description.Prompt) == "" {
		c.Description.Prompt = defaultDescriptionPrompt
	}
	if strings.TrimSpace(c.Description.SystemPrompt) == "" {
		c.Description.SystemPrompt = defaultDescriptionSystem
	}
	if c.Description.FramesPerScene <= 0 {
		c.Description.FramesPerScene = defaultFramesPerScene
	}
	if c.Description.ContextCharLimit <= 0 {
		c.Description.ContextCharLimit = defaultContextCharLimit
	}
	if c.Description.RetryAttempts <= 0 {
		c.Description.RetryAttempts = defaultRetryAttempts
	}
	if c.Description.TimeoutSeconds <= 0 {
		c.Description.TimeoutSeconds = defaultDescriptionTimeout
	}
}

func (c *Config) normalizeSimilarity() {
	c.Similarity.Strategy = strings.ToLower(strings.TrimSpace(c.Similarity.Strategy))
	if c.Similarity.Strategy == "" {
		c.Similarity.Strategy = defaultSimilarityStrategy
	}
	c.Similarity.EmbedModel = strings.TrimSpace(c.Similarity.EmbedModel)
	if c.Similarity.EmbedModel == "" {
		c.Similarity.EmbedModel = defaultSimilarityModel
	}
	if c.Similarity.Threshold <= 0 {
		c.Similarity.Threshold = defaultSimilarityThreshold
	}
}

func (c *Config) normalizeNarration() {
	c.Narration.Binary = strings.TrimSpace(c.Narration.Binary)
	if c.Narration.Binary == "" {
		c.Narration.Binary = defaultNarrationBinary
	}
	c.Narration.Model = strings.TrimSpace(c.Narration.Model)
	if c.Narration.Model == "" {
		c.Narration.Model = defaultNarrationModel
	}
	c.Narration.Speaker = strings.TrimSpace(c.Narration.Speaker)
	if c.Narration.Tempo <= 0 {
		c.Narration.Tempo = defaultNarrationTempo
	}
	c.Narration.MergeStrategy = strings.ToLower(strings.TrimSpace(c.Narration.MergeStrategy))
	if c.Narration.MergeStrategy == "" {
		c.Narration.MergeStrategy = defaultMergeStrategy
	}
	c.Narration.OnSynthFailure = strings.ToLower(strings.TrimSpace(c.Narration.OnSynthFailure))
	if c.Narration.OnSynthFailure == "" {
		c.Narration.OnSynthFailure = defaultOnSynthFailure
	}
}

func (c *Config) normalizeEncoding() {
	c.Encoding.VideoCodec = strings.TrimSpace(c.Encoding.VideoCodec)
	if c.Encoding.VideoCodec == "" {
		c.Encoding.VideoCodec = defaultVideoCodec
	}
	c.Encoding.Preset = strings.TrimSpace(c.Encoding.Preset)
	if c.Encoding.Preset == "" {
		c.Encoding.Preset = defaultEncodePreset
	}
	if c.Encoding.CRF <= 0 {
		c.Encoding.CRF = defaultCRF
	}
	c.Encoding.PixelFormat = strings.TrimSpace(c.Encoding.PixelFormat)
	if c.Encoding.PixelFormat == "" {
		c.Encoding.PixelFormat = defaultPixelFormat
	}
	if c.Encoding.FrameRate <= 0 {
		c.Encoding.FrameRate = defaultFrameRate
	}
	c.Encoding.AudioCodec = strings.TrimSpace(c.Encoding.AudioCodec)
	if c.Encoding.AudioCodec == "" {
		c.Encoding.AudioCodec = defaultAudioCodec
	}
	c.Encoding.AudioBitrate = strings.TrimSpace(c.Encoding.AudioBitrate)
	if c.Encoding.AudioBitrate == "" {
		c.Encoding.AudioBitrate = defaultAudioBitrate
	}
	if c.Encoding.SampleRate <= 0 {
		c.Encoding.SampleRate = defaultSampleRate
	}
	if c.Encoding.AudioChannels <= 0 {
		c.Encoding.AudioChannels = defaultAudioChannels
	}
	if c.Encoding.StillFrameScale <= 0 {
		c.Encoding.StillFrameScale = defaultStillFrameScale
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
