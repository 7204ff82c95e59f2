package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"

	"phrasecut/internal/config"
	"phrasecut/internal/logging"
	"phrasecut/internal/pipeline"
)

// Renderer cuts padded clips out of a source video, one per cue.
type Renderer struct {
	clipsDir      string
	paddingStart  float64
	paddingEnd    float64
	videoCodec    string
	audioCodec    string
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewRenderer creates a clip renderer writing into the configured clips
// directory.
func NewRenderer(cfg *config.Config, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{
		clipsDir:     cfg.Paths.ClipsDir,
		paddingStart: cfg.Render.PaddingStart,
		paddingEnd:   cfg.Render.PaddingEnd,
		videoCodec:   cfg.Render.VideoCodec,
		audioCodec:   cfg.Render.AudioCodec,
		logger:       logging.NewComponentLogger(logger, "ffmpeg"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Renderer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	r.commandRunner = runner
}

// Render cuts one clip per cue from itemPath. A cue whose render fails is
// logged and omitted from the result; the returned error is reserved for
// conditions that make the whole item unprocessable.
func (r *Renderer) Render(ctx context.Context, itemPath string, cues []pipeline.Cue) ([]pipeline.RenderedCue, error) {
	base := filepath.Base(itemPath)
	episode := strings.TrimSuffix(base, filepath.Ext(base))

	rendered := make([]pipeline.RenderedCue, 0, len(cues))
	for _, cue := range cues {
		if ctx.Err() != nil {
			return rendered, ctx.Err()
		}
		start := cue.Start - r.paddingStart
		if start < 0 {
			start = 0
		}
		end := cue.End + r.paddingEnd

		clipPath := filepath.Join(r.clipsDir, clipFileName(cue.Label, episode, start))
		if err := runCommand(ctx, r.commandRunner, Command, buildClipArgs(itemPath, start, end, r.videoCodec, r.audioCodec, clipPath)...); err != nil {
			r.logger.Warn("clip render failed",
				logging.String("label", cue.Label),
				logging.Float64("start", cue.Start),
				logging.Error(err),
			)
			continue
		}
		rendered = append(rendered, pipeline.RenderedCue{Cue: cue, ClipPath: clipPath})
	}
	return rendered, nil
}

// buildClipArgs constructs ffmpeg arguments for one padded clip.
func buildClipArgs(source string, start, end float64, videoCodec, audioCodec, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%.3f", start),
		"-to", fmt.Sprintf("%.3f", end),
		"-i", source,
		"-c:v", videoCodec,
		"-c:a", audioCodec,
		dest,
	}
}

// clipFileName builds "<label>_<episode>_<start>s.mp4" with any character
// that is not a letter, digit, underscore, dot, or hyphen stripped.
func clipFileName(label, episode string, start float64) string {
	name := fmt.Sprintf("%s_%s_%ds.mp4", label, episode, int(start))
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
