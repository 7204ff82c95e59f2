package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"phrasecut/internal/config"
	"phrasecut/internal/logging"
)

// Command is the ffmpeg binary name.
const Command = "ffmpeg"

// Extractor pulls the audio track out of a media file as a mono 16kHz WAV,
// the format WhisperX expects.
type Extractor struct {
	audioDir      string
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewExtractor creates an audio extractor writing into the configured
// audio directory.
func NewExtractor(cfg *config.Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{
		audioDir: cfg.Paths.AudioDir,
		logger:   logging.NewComponentLogger(logger, "ffmpeg"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	e.commandRunner = runner
}

// Extract writes the audio track of itemPath into the audio directory and
// returns the WAV path. An existing WAV for the same item is reused.
func (e *Extractor) Extract(ctx context.Context, itemPath string) (string, error) {
	if _, err := os.Stat(itemPath); err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}

	base := filepath.Base(itemPath)
	dest := filepath.Join(e.audioDir, strings.TrimSuffix(base, filepath.Ext(base))+".wav")
	if _, err := os.Stat(dest); err == nil {
		e.logger.Debug("audio already extracted, skipping", logging.String("audio_path", dest))
		return dest, nil
	}

	if err := runCommand(ctx, e.commandRunner, Command, buildExtractArgs(itemPath, dest)...); err != nil {
		return "", fmt.Errorf("ffmpeg extract: %w", err)
	}
	return dest, nil
}

// buildExtractArgs constructs ffmpeg arguments for a mono 16kHz pcm_s16le WAV.
func buildExtractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

// runCommand invokes name with args, preferring the supplied runner seam.
func runCommand(ctx context.Context, runner func(ctx context.Context, name string, args ...string) error, name string, args ...string) error {
	if runner != nil {
		return runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
