package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExtractor(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.MediaDir) == "" {
		return errors.New("paths.media_dir must be set")
	}
	for name, dir := range map[string]string{
		"paths.audio_dir":       c.Paths.AudioDir,
		"paths.transcripts_dir": c.Paths.TranscriptsDir,
		"paths.concepts_dir":    c.Paths.ConceptsDir,
		"paths.clips_dir":       c.Paths.ClipsDir,
		"paths.log_dir":         c.Paths.LogDir,
	} {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("%s must be set", name)
		}
	}
	return nil
}

func (c *Config) validateExtractor() error {
	if strings.TrimSpace(c.Extractor.Model) == "" {
		return errors.New("extractor.model must be set")
	}
	if c.Extractor.BatchSize <= 0 {
		return errors.New("extractor.batch_size must be positive")
	}
	if c.Extractor.TimeoutSeconds <= 0 {
		return errors.New("extractor.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.PaddingStart < 0 || c.Render.PaddingEnd < 0 {
		return errors.New("render.padding_start and render.padding_end must not be negative")
	}
	if strings.TrimSpace(c.Render.VideoCodec) == "" {
		return errors.New("render.video_codec must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
