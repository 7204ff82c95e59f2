package config

const (
	defaultMediaDir         = "~/.local/share/phrasecut/media"
	defaultAudioDir         = "~/.local/share/phrasecut/audio"
	defaultTranscriptsDir   = "~/.local/share/phrasecut/transcripts"
	defaultConceptsDir      = "~/.local/share/phrasecut/concepts"
	defaultClipsDir         = "~/.local/share/phrasecut/clips"
	defaultLogDir           = "~/.local/share/phrasecut/logs"
	defaultTranscriberModel = "base"
	defaultLanguage         = "zh"
	defaultExtractorBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultExtractorModel   = "qwen/qwen-2.5-7b-instruct"
	defaultExtractorBatch   = 15
	defaultExtractorTimeout = 60
	defaultPaddingSeconds   = 0.5
	defaultVideoCodec       = "libx264"
	defaultAudioCodec       = "aac"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MediaDir:       defaultMediaDir,
			AudioDir:       defaultAudioDir,
			TranscriptsDir: defaultTranscriptsDir,
			ConceptsDir:    defaultConceptsDir,
			ClipsDir:       defaultClipsDir,
			LogDir:         defaultLogDir,
		},
		Transcriber: Transcriber{
			Model:    defaultTranscriberModel,
			Language: defaultLanguage,
		},
		Extractor: Extractor{
			BaseURL:        defaultExtractorBaseURL,
			Model:          defaultExtractorModel,
			BatchSize:      defaultExtractorBatch,
			TimeoutSeconds: defaultExtractorTimeout,
		},
		Render: Render{
			PaddingStart: defaultPaddingSeconds,
			PaddingEnd:   defaultPaddingSeconds,
			VideoCodec:   defaultVideoCodec,
			AudioCodec:   defaultAudioCodec,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
