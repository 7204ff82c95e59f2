package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TimedConcept is one concept instance with its time window resolved from
// the transcript. The concepts artifact is a JSON array of these.
type TimedConcept struct {
	Label    string  `json:"label"`
	Original string  `json:"original"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
}

type transcriptArtifact struct {
	Segments []Segment `json:"segments"`
}

func writeArtifact(path string, payload any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure artifact dir: %w", err)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}

func readArtifact(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse artifact %s: %w", path, err)
	}
	return nil
}

// WriteTranscript persists segments as a transcript artifact.
func WriteTranscript(path string, segments []Segment) error {
	return writeArtifact(path, transcriptArtifact{Segments: segments})
}

// ReadTranscript loads a transcript artifact.
func ReadTranscript(path string) ([]Segment, error) {
	var artifact transcriptArtifact
	if err := readArtifact(path, &artifact); err != nil {
		return nil, err
	}
	return artifact.Segments, nil
}

// WriteConcepts persists timed concepts as a concepts artifact.
func WriteConcepts(path string, concepts []TimedConcept) error {
	if concepts == nil {
		concepts = []TimedConcept{}
	}
	return writeArtifact(path, concepts)
}

// ReadConcepts loads a concepts artifact.
func ReadConcepts(path string) ([]TimedConcept, error) {
	var concepts []TimedConcept
	if err := readArtifact(path, &concepts); err != nil {
		return nil, err
	}
	return concepts, nil
}
