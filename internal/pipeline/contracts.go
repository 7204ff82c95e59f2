package pipeline

import "context"

// Segment is one timed span of transcript text, ordered by start time.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Concept is one recognized concept referencing the transcript segment it
// was found in. Time offsets are attached by the orchestrator from the
// referenced segment.
type Concept struct {
	Label        string `json:"label"`
	Original     string `json:"original"`
	SegmentIndex int    `json:"segment_index"`
}

// Cue is one clip window handed to the renderer.
type Cue struct {
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// RenderedCue is a cue enriched with the rendered clip location.
type RenderedCue struct {
	Cue
	ClipPath string `json:"clip_path"`
}

// AudioExtractor produces the audio artifact for a source item. Re-extracting
// an already-extracted item must be tolerated; skipping existing output is an
// optimization left to the implementation.
type AudioExtractor interface {
	Extract(ctx context.Context, itemPath string) (audioPath string, err error)
}

// Transcriber converts an audio artifact into ordered timed text segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]Segment, error)
}

// ConceptExtractor recognizes concept instances across a batch of segments.
// An empty result means nothing was found; an error fails the whole batch.
type ConceptExtractor interface {
	Extract(ctx context.Context, segments []Segment) ([]Concept, error)
}

// ClipRenderer cuts one clip per cue from the source item. Cues that fail to
// render are omitted from the result rather than failing the batch; an error
// is reserved for setup failures that doom every cue.
type ClipRenderer interface {
	Render(ctx context.Context, itemPath string, cues []Cue) ([]RenderedCue, error)
}

// Processors bundles the four external stage processors the runner drives.
type Processors struct {
	Audio    AudioExtractor
	Speech   Transcriber
	Concepts ConceptExtractor
	Renderer ClipRenderer
}
