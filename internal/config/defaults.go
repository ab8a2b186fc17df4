package config

const (
	defaultStagingDir = "~/.local/share/descant/staging"
	defaultOutputDir  = "~/videos/described"
	defaultLogDir     = "~/.local/share/descant/logs"

	defaultMinPauseSeconds       = 0.6
	defaultMinWordConfidence     = 0.0
	defaultMinSceneSeconds       = 2.0
	defaultSceneDetector         = "similarity"
	defaultSampleIntervalSeconds = 1.0
	defaultSceneThreshold        = 0.85

	defaultTranscriptionBinary   = "whisper"
	defaultTranscriptionModel    = "base"
	defaultTranscriptionLanguage = "en"

	defaultDescriptionBaseURL  = "http://localhost:11434"
	defaultDescriptionModel    = "gemma3:12b"
	defaultFramesPerScene      = 5
	defaultContextCharLimit    = 250
	defaultRetryAttempts       = 3
	defaultDescriptionTimeout  = 120
	defaultDescriptionPrompt   = "Describe what happens in these video frames in one or two short sentences, as narration for a blind viewer. Mention only what is visible."
	defaultDescriptionSystem   = "You are an audio description narrator. Be concise, concrete, and present tense. Never speculate about things outside the frames."

	defaultSimilarityStrategy  = "embedding"
	defaultSimilarityModel     = "nomic-embed-text"
	defaultSimilarityThreshold = 0.75

	defaultNarrationBinary  = "tts"
	defaultNarrationModel   = "tts_models/en/vctk/vits"
	defaultNarrationSpeaker = "p244"
	defaultNarrationTempo   = 0.8
	defaultMergeStrategy    = "concatenate"
	defaultOnSynthFailure   = "fail"

	defaultVideoCodec      = "libx264"
	defaultEncodePreset    = "fast"
	defaultCRF             = 23
	defaultPixelFormat     = "yuv420p"
	defaultFrameRate       = 30
	defaultAudioCodec      = "aac"
	defaultAudioBitrate    = "192k"
	defaultSampleRate      = 48000
	defaultAudioChannels   = 2
	defaultStillFrameScale = 720

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
		},
		Segmentation: Segmentation{
			MinPauseSeconds:       defaultMinPauseSeconds,
			MinWordConfidence:     defaultMinWordConfidence,
			MinSceneSeconds:       defaultMinSceneSeconds,
			Detector:              defaultSceneDetector,
			SampleIntervalSeconds: defaultSampleIntervalSeconds,
			SceneThreshold:        defaultSceneThreshold,
		},
		Transcription: Transcription{
			Binary:   defaultTranscriptionBinary,
			Model:    defaultTranscriptionModel,
			Language: defaultTranscriptionLanguage,
		},
		Description: Description{
			BaseURL:          defaultDescriptionBaseURL,
			Model:            defaultDescriptionModel,
			Prompt:           defaultDescriptionPrompt,
			SystemPrompt:     defaultDescriptionSystem,
			FramesPerScene:   defaultFramesPerScene,
			ContextCharLimit: defaultContextCharLimit,
			RetryAttempts:    defaultRetryAttempts,
			TimeoutSeconds:   defaultDescriptionTimeout,
		},
		Similarity: Similarity{
			Strategy:   defaultSimilarityStrategy,
			EmbedModel: defaultSimilarityModel,
			Threshold:  defaultSimilarityThreshold,
		},
		Narration: Narration{
			Binary:         defaultNarrationBinary,
			Model:          defaultNarrationModel,
			Speaker:        defaultNarrationSpeaker,
			Tempo:          defaultNarrationTempo,
			MergeStrategy:  defaultMergeStrategy,
			OnSynthFailure: defaultOnSynthFailure,
		},
		Encoding: Encoding{
			VideoCodec:      defaultVideoCodec,
			Preset:          defaultEncodePreset,
			CRF:             defaultCRF,
			PixelFormat:     defaultPixelFormat,
			FrameRate:       defaultFrameRate,
			AudioCodec:      defaultAudioCodec,
			AudioBitrate:    defaultAudioBitrate,
			SampleRate:      defaultSampleRate,
			AudioChannels:   defaultAudioChannels,
			StillFrameScale: defaultStillFrameScale,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
