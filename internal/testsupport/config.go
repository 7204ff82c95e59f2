package testsupport

import (
	"path/filepath"
	"testing"

	"phrasecut/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.MediaDir = filepath.Join(base, "media")
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.TranscriptsDir = filepath.Join(base, "transcripts")
	cfg.Paths.ConceptsDir = filepath.Join(base, "concepts")
	cfg.Paths.ClipsDir = filepath.Join(base, "clips")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Extractor.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithExtractorBatchSize overrides the extraction batch size on the test config.
func WithExtractorBatchSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Extractor.BatchSize = size
	}
}
