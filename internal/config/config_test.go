package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"phrasecut/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Transcriber.Language != "zh" {
		t.Fatalf("expected default language zh, got %q", cfg.Transcriber.Language)
	}
	if cfg.Extractor.BatchSize != 15 {
		t.Fatalf("expected default batch size 15, got %d", cfg.Extractor.BatchSize)
	}
	if cfg.Render.PaddingStart != 0.5 || cfg.Render.PaddingEnd != 0.5 {
		t.Fatalf("expected default clip padding 0.5s, got %v/%v", cfg.Render.PaddingStart, cfg.Render.PaddingEnd)
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %s, got %s", path, resolved)
	}
	if cfg.Transcriber.Model != "base" {
		t.Fatalf("expected defaults to apply, got model %q", cfg.Transcriber.Model)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
media_dir = "` + filepath.Join(dir, "media") + `"
audio_dir = "` + filepath.Join(dir, "audio") + `"
transcripts_dir = "` + filepath.Join(dir, "transcripts") + `"
concepts_dir = "` + filepath.Join(dir, "concepts") + `"
clips_dir = "` + filepath.Join(dir, "clips") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[transcriber]
model = "large-v3"

[extractor]
api_key = "secret"
batch_size = 0

[render]
padding_start = 1.25
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Transcriber.Model != "large-v3" {
		t.Fatalf("expected model from file, got %q", cfg.Transcriber.Model)
	}
	if cfg.Extractor.BatchSize != 15 {
		t.Fatalf("expected zero batch size normalized to default, got %d", cfg.Extractor.BatchSize)
	}
	if cfg.Render.PaddingStart != 1.25 {
		t.Fatalf("expected padding from file, got %v", cfg.Render.PaddingStart)
	}
	if !filepath.IsAbs(cfg.Paths.MediaDir) {
		t.Fatalf("expected absolute media dir, got %q", cfg.Paths.MediaDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[render]
padding_start = -1.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for negative padding")
	} else if !strings.Contains(err.Error(), "padding") {
		t.Fatalf("expected padding error, got %v", err)
	}
}

func TestEnsureDirectoriesSkipsMediaDir(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.MediaDir = filepath.Join(dir, "media")
	cfg.Paths.AudioDir = filepath.Join(dir, "audio")
	cfg.Paths.TranscriptsDir = filepath.Join(dir, "transcripts")
	cfg.Paths.ConceptsDir = filepath.Join(dir, "concepts")
	cfg.Paths.ClipsDir = filepath.Join(dir, "clips")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, created := range []string{cfg.Paths.AudioDir, cfg.Paths.TranscriptsDir, cfg.Paths.ConceptsDir, cfg.Paths.ClipsDir, cfg.Paths.LogDir} {
		if _, err := os.Stat(created); err != nil {
			t.Fatalf("expected %s to exist: %v", created, err)
		}
	}
	if _, err := os.Stat(cfg.Paths.MediaDir); !os.IsNotExist(err) {
		t.Fatal("media dir is operator-provided and must not be created")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}

	// The sample must itself load cleanly.
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config must load: %v", err)
	}
}
