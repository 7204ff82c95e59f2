package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"phrasecut/internal/catalog"
	"phrasecut/internal/logging"
)

func (r *Runner) runAudio(ctx context.Context, logger *slog.Logger, item *catalog.Item) (stageResult, error) {
	audioPath, err := r.procs.Audio.Extract(ctx, item.Path)
	if err != nil {
		return stageResult{}, fmt.Errorf("extract audio: %w", err)
	}
	logger.Debug("audio extracted", logging.String("audio_path", audioPath))
	return stageResult{artifacts: []catalog.ArtifactUpdate{catalog.Artifact(catalog.FieldAudioPath, audioPath)}}, nil
}

func (r *Runner) runTranscribe(ctx context.Context, logger *slog.Logger, item *catalog.Item) (stageResult, error) {
	if item.AudioPath == "" {
		return stageResult{}, fmt.Errorf("item %s has no audio artifact", item.Path)
	}

	segments, err := r.procs.Speech.Transcribe(ctx, item.AudioPath)
	if err != nil {
		return stageResult{}, fmt.Errorf("transcribe: %w", err)
	}

	transcriptPath := filepath.Join(r.cfg.Paths.TranscriptsDir, artifactName(item.Path, ".json"))
	if err := WriteTranscript(transcriptPath, segments); err != nil {
		return stageResult{}, fmt.Errorf("write transcript: %w", err)
	}
	logger.Debug("transcript written",
		logging.String("transcript_path", transcriptPath),
		logging.Int("segments", len(segments)),
	)
	return stageResult{artifacts: []catalog.ArtifactUpdate{catalog.Artifact(catalog.FieldTranscriptPath, transcriptPath)}}, nil
}

func (r *Runner) runConcepts(ctx context.Context, logger *slog.Logger, item *catalog.Item) (stageResult, error) {
	if item.TranscriptPath == "" {
		return stageResult{}, fmt.Errorf("item %s has no transcript artifact", item.Path)
	}

	segments, err := ReadTranscript(item.TranscriptPath)
	if err != nil {
		return stageResult{}, fmt.Errorf("read transcript: %w", err)
	}

	var timed []TimedConcept
	if len(segments) > 0 {
		concepts, err := r.procs.Concepts.Extract(ctx, segments)
		if err != nil {
			return stageResult{}, fmt.Errorf("extract concepts: %w", err)
		}
		timed, err = resolveConcepts(concepts, segments)
		if err != nil {
			return stageResult{}, err
		}
	}

	conceptsPath := filepath.Join(r.cfg.Paths.ConceptsDir, artifactName(item.Path, ".json"))
	if err := WriteConcepts(conceptsPath, timed); err != nil {
		return stageResult{}, fmt.Errorf("write concepts: %w", err)
	}
	logger.Debug("concepts written",
		logging.String("concepts_path", conceptsPath),
		logging.Int("concepts", len(timed)),
	)
	return stageResult{artifacts: []catalog.ArtifactUpdate{catalog.Artifact(catalog.FieldConceptsPath, conceptsPath)}}, nil
}

func (r *Runner) runRender(ctx context.Context, logger *slog.Logger, item *catalog.Item) (stageResult, error) {
	if item.ConceptsPath == "" {
		return stageResult{}, fmt.Errorf("item %s has no concepts artifact", item.Path)
	}

	timed, err := ReadConcepts(item.ConceptsPath)
	if err != nil {
		return stageResult{}, fmt.Errorf("read concepts: %w", err)
	}
	if len(timed) == 0 {
		logger.Debug("no concepts to render")
		return stageResult{}, nil
	}

	cues := make([]Cue, 0, len(timed))
	for _, concept := range timed {
		cues = append(cues, Cue{Label: concept.Label, Start: concept.Start, End: concept.End})
	}

	rendered, err := r.procs.Renderer.Render(ctx, item.Path, cues)
	if err != nil {
		return stageResult{}, fmt.Errorf("render clips: %w", err)
	}

	for _, clip := range rendered {
		occ := catalog.Occurrence{
			Label:      clip.Label,
			SourcePath: item.Path,
			Start:      clip.Start,
			End:        clip.End,
			ClipPath:   clip.ClipPath,
		}
		if err := r.store.UpsertOccurrence(ctx, occ); err != nil {
			return stageResult{}, fmt.Errorf("%w: record occurrence %q for %s: %v", errPersistence, clip.Label, item.Path, err)
		}
	}

	if len(rendered) < len(cues) {
		logger.Warn("some clips failed to render, item held for retry",
			logging.Int("rendered", len(rendered)),
			logging.Int("expected", len(cues)),
		)
		return stageResult{hold: true}, nil
	}
	logger.Debug("clips rendered", logging.Int("clips", len(rendered)))
	return stageResult{}, nil
}

// resolveConcepts maps each concept's segment index back to the segment's
// timing. An index outside the transcript indicates a malformed extractor
// response and fails the item.
func resolveConcepts(concepts []Concept, segments []Segment) ([]TimedConcept, error) {
	timed := make([]TimedConcept, 0, len(concepts))
	for _, concept := range concepts {
		if concept.SegmentIndex < 0 || concept.SegmentIndex >= len(segments) {
			return nil, fmt.Errorf("concept %q references segment %d of %d", concept.Label, concept.SegmentIndex, len(segments))
		}
		segment := segments[concept.SegmentIndex]
		timed = append(timed, TimedConcept{
			Label:    concept.Label,
			Original: concept.Original,
			Start:    segment.Start,
			End:      segment.End,
		})
	}
	return timed, nil
}

// artifactName derives a per-item artifact file name from the source path.
func artifactName(itemPath, ext string) string {
	base := filepath.Base(itemPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}
