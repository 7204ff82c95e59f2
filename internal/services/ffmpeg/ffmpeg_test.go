package ffmpeg_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"phrasecut/internal/logging"
	"phrasecut/internal/pipeline"
	"phrasecut/internal/services/ffmpeg"
	"phrasecut/internal/testsupport"
)

type commandLog struct {
	invocations [][]string
	fail        map[int]error
}

func (c *commandLog) run(ctx context.Context, name string, args ...string) error {
	call := len(c.invocations)
	c.invocations = append(c.invocations, append([]string{name}, args...))
	if c.fail != nil {
		return c.fail[call]
	}
	return nil
}

func argsContain(args []string, sequence ...string) bool {
	joined := " " + strings.Join(args, " ") + " "
	return strings.Contains(joined, " "+strings.Join(sequence, " ")+" ")
}

func TestExtractBuildsMonoWAVCommand(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	source := filepath.Join(cfg.Paths.MediaDir, "ep01.mp4")
	testsupport.WriteFile(t, source, []byte("video"))

	log := &commandLog{}
	extractor := ffmpeg.NewExtractor(cfg, logging.NewNop())
	extractor.WithCommandRunner(log.run)

	dest, err := extractor.Extract(context.Background(), source)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if dest != filepath.Join(cfg.Paths.AudioDir, "ep01.wav") {
		t.Fatalf("unexpected destination %q", dest)
	}
	if len(log.invocations) != 1 {
		t.Fatalf("expected one ffmpeg invocation, got %d", len(log.invocations))
	}

	args := log.invocations[0]
	if args[0] != "ffmpeg" {
		t.Fatalf("expected ffmpeg, got %q", args[0])
	}
	for _, want := range [][]string{
		{"-i", source},
		{"-ac", "1"},
		{"-ar", "16000"},
		{"-c:a", "pcm_s16le"},
	} {
		if !argsContain(args, want...) {
			t.Fatalf("expected args to contain %v, got %v", want, args)
		}
	}
}

func TestExtractSkipsExistingAudio(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := filepath.Join(cfg.Paths.MediaDir, "ep01.mp4")
	testsupport.WriteFile(t, source, []byte("video"))
	existing := filepath.Join(cfg.Paths.AudioDir, "ep01.wav")
	testsupport.WriteFile(t, existing, []byte("wav"))

	log := &commandLog{}
	extractor := ffmpeg.NewExtractor(cfg, logging.NewNop())
	extractor.WithCommandRunner(log.run)

	dest, err := extractor.Extract(context.Background(), source)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if dest != existing {
		t.Fatalf("expected existing wav to be reused, got %q", dest)
	}
	if len(log.invocations) != 0 {
		t.Fatalf("expected ffmpeg not to run, got %d invocations", len(log.invocations))
	}
}

func TestExtractMissingSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	extractor := ffmpeg.NewExtractor(cfg, logging.NewNop())
	extractor.WithCommandRunner((&commandLog{}).run)

	if _, err := extractor.Extract(context.Background(), filepath.Join(cfg.Paths.MediaDir, "absent.mp4")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestRenderCutsPaddedClips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := filepath.Join(cfg.Paths.MediaDir, "西游记 第01集.mp4")
	testsupport.WriteFile(t, source, []byte("video"))

	log := &commandLog{}
	renderer := ffmpeg.NewRenderer(cfg, logging.NewNop())
	renderer.WithCommandRunner(log.run)

	cues := []pipeline.Cue{
		{Label: "落荒而逃", Start: 12.5, End: 16.0},
		{Label: "一帆风顺", Start: 0.2, End: 3.0},
	}
	rendered, err := renderer.Render(context.Background(), source, cues)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(rendered) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(rendered))
	}

	// Default padding is 0.5s on each side.
	first := log.invocations[0]
	if !argsContain(first, "-ss", "12.000") || !argsContain(first, "-to", "16.500") {
		t.Fatalf("expected padded window 12.000..16.500, got %v", first)
	}
	if !argsContain(first, "-c:v", "libx264") || !argsContain(first, "-c:a", "aac") {
		t.Fatalf("expected configured codecs, got %v", first)
	}

	// Padding never pushes the start below zero.
	second := log.invocations[1]
	if !argsContain(second, "-ss", "0.000") {
		t.Fatalf("expected clamped start, got %v", second)
	}

	name := filepath.Base(rendered[0].ClipPath)
	if name != "落荒而逃_西游记第01集_12s.mp4" {
		t.Fatalf("unexpected clip name %q", name)
	}
}

func TestRenderOmitsFailedCue(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := filepath.Join(cfg.Paths.MediaDir, "ep01.mp4")
	testsupport.WriteFile(t, source, []byte("video"))

	log := &commandLog{fail: map[int]error{0: errors.New("encoder crashed")}}
	renderer := ffmpeg.NewRenderer(cfg, logging.NewNop())
	renderer.WithCommandRunner(log.run)

	cues := []pipeline.Cue{
		{Label: "落荒而逃", Start: 12.5, End: 16.0},
		{Label: "一帆风顺", Start: 70.0, End: 73.0},
	}
	rendered, err := renderer.Render(context.Background(), source, cues)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(rendered) != 1 {
		t.Fatalf("expected the surviving cue only, got %d", len(rendered))
	}
	if rendered[0].Label != "一帆风顺" {
		t.Fatalf("unexpected surviving cue %q", rendered[0].Label)
	}
}
