package config

import "strings"

// normalize expands and absolutizes all path fields and fills zero values
// that TOML decoding may have cleared.
func (c *Config) normalize() error {
	paths := []*string{
		&c.Paths.MediaDir,
		&c.Paths.AudioDir,
		&c.Paths.TranscriptsDir,
		&c.Paths.ConceptsDir,
		&c.Paths.ClipsDir,
		&c.Paths.LogDir,
	}
	for _, field := range paths {
		expanded, err := expandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
		*field = expanded
	}

	if strings.TrimSpace(c.Transcriber.Model) == "" {
		c.Transcriber.Model = defaultTranscriberModel
	}
	if strings.TrimSpace(c.Transcriber.Language) == "" {
		c.Transcriber.Language = defaultLanguage
	}
	if strings.TrimSpace(c.Extractor.BaseURL) == "" {
		c.Extractor.BaseURL = defaultExtractorBaseURL
	}
	if c.Extractor.BatchSize <= 0 {
		c.Extractor.BatchSize = defaultExtractorBatch
	}
	if c.Extractor.TimeoutSeconds <= 0 {
		c.Extractor.TimeoutSeconds = defaultExtractorTimeout
	}
	if strings.TrimSpace(c.Render.VideoCodec) == "" {
		c.Render.VideoCodec = defaultVideoCodec
	}
	if strings.TrimSpace(c.Render.AudioCodec) == "" {
		c.Render.AudioCodec = defaultAudioCodec
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
