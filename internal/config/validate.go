package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSegmentation(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateDescription(); err != nil {
		return err
	}
	if err := c.validateSimilarity(); err != nil {
		return err
	}
	if err := c.validateNarration(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSegmentation() error {
	s := c.Segmentation
	if s.MinPauseSeconds <= 0 {
		return errors.New("segmentation.min_pause_seconds must be positive")
	}
	if s.MinWordConfidence < 0 || s.MinWordConfidence > 1 {
		return errors.New("segmentation.min_word_confidence must be between 0 and 1")
	}
	if s.MinSceneSeconds <= 0 {
		return errors.New("segmentation.min_scene_seconds must be positive")
	}
	switch s.Detector {
	case "similarity", "boundary":
	default:
		return fmt.Errorf("segmentation.detector must be \"similarity\" or \"boundary\", got %q", s.Detector)
	}
	if s.SampleIntervalSeconds <= 0 {
		return errors.New("segmentation.sample_interval_seconds must be positive")
	}
	if s.SceneThreshold <= 0 || s.SceneThreshold > 1 {
		return errors.New("segmentation.scene_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if c.Transcription.Binary == "" {
		return errors.New("transcription.binary must be set")
	}
	if c.Transcription.Model == "" {
		return errors.New("transcription.model must be set")
	}
	if _, err := language.Parse(c.Transcription.Language); err != nil {
		return fmt.Errorf("transcription.language %q is not a valid language tag: %w", c.Transcription.Language, err)
	}
	return nil
}

func (c *Config) validateDescription() error {
	if c.Description.BaseURL == "" {
		return errors.New("description.base_url must be set")
	}
	if c.Description.Model == "" {
		return errors.New("description.model must be set")
	}
	if c.Description.FramesPerScene <= 0 {
		return errors.New("description.frames_per_scene must be positive")
	}
	if c.Description.RetryAttempts <= 0 {
		return errors.New("description.retry_attempts must be positive")
	}
	if c.Description.TimeoutSeconds <= 0 {
		return errors.New("description.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateSimilarity() error {
	switch c.Similarity.Strategy {
	case "embedding", "lexical":
	default:
		return fmt.Errorf("similarity.strategy must be \"embedding\" or \"lexical\", got %q", c.Similarity.Strategy)
	}
	if c.Similarity.Strategy == "embedding" && c.Similarity.EmbedModel == "" {
		return errors.New("similarity.embed_model must be set when similarity.strategy is \"embedding\"")
	}
	if c.Similarity.Threshold <= 0 || c.Similarity.Threshold > 1 {
		return errors.New("similarity.threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateNarration() error {
	if c.Narration.Binary == "" {
		return errors.New("narration.binary must be set")
	}
	if c.Narration.Model == "" {
		return errors.New("narration.model must be set")
	}
	if c.Narration.Tempo <= 0 || c.Narration.Tempo > 2 {
		return errors.New("narration.tempo must be between 0 and 2")
	}
	switch c.Narration.MergeStrategy {
	case "concatenate", "summarize":
	default:
		return fmt.Errorf("narration.merge_strategy must be \"concatenate\" or \"summarize\", got %q", c.Narration.MergeStrategy)
	}
	switch c.Narration.OnSynthFailure {
	case "fail", "drop":
	default:
		return fmt.Errorf("narration.on_synth_failure must be \"fail\" or \"drop\", got %q", c.Narration.OnSynthFailure)
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if err := ensurePositiveMap(map[string]int{
		"encoding.crf":               c.Encoding.CRF,
		"encoding.frame_rate":        c.Encoding.FrameRate,
		"encoding.sample_rate":       c.Encoding.SampleRate,
		"encoding.audio_channels":    c.Encoding.AudioChannels,
		"encoding.still_frame_scale": c.Encoding.StillFrameScale,
	}); err != nil {
		return err
	}
	if c.Encoding.VideoCodec == "" {
		return errors.New("encoding.video_codec must be set")
	}
	if c.Encoding.AudioCodec == "" {
		return errors.New("encoding.audio_codec must be set")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
