package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle of a tracked item. Items advance through
// the statuses in declaration order; only a content change moves one back.
type Status string

const (
	StatusPending        Status = "pending"
	StatusAudioExtracted Status = "audio_extracted"
	StatusTranscriptDone Status = "transcript_done"
	StatusConceptsDone   Status = "concepts_done"
	StatusCompleted      Status = "completed"
)

var statusOrder = []Status{
	StatusPending,
	StatusAudioExtracted,
	StatusTranscriptDone,
	StatusConceptsDone,
	StatusCompleted,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(statusOrder))
	for _, status := range statusOrder {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(statusOrder))
	copy(cp, statusOrder)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Next returns the status following s in the stage order. The second return
// value is false for the terminal status and for unknown values.
func (s Status) Next() (Status, bool) {
	for i, status := range statusOrder {
		if status == s && i+1 < len(statusOrder) {
			return statusOrder[i+1], true
		}
	}
	return "", false
}

// Item represents one tracked source media file.
type Item struct {
	Path           string
	Fingerprint    string
	Status         Status
	LastUpdated    time.Time
	AudioPath      string
	TranscriptPath string
	ConceptsPath   string
}

// Occurrence is one recognized concept instance extracted from an item.
// (Label, SourcePath, Start) is the natural key; re-recording the same
// occurrence only updates ClipPath.
type Occurrence struct {
	Label      string
	SourcePath string
	Start      float64
	End        float64
	ClipPath   string
	CreatedAt  time.Time
}

// LabelCount is one row of the occurrence frequency aggregate.
type LabelCount struct {
	Label string
	Count int
}

// ArtifactField names an item column a stage may set when advancing status.
// The set is closed; updates naming any other column are rejected.
type ArtifactField string

const (
	FieldAudioPath      ArtifactField = "audio_path"
	FieldTranscriptPath ArtifactField = "transcript_path"
	FieldConceptsPath   ArtifactField = "concepts_path"
)

var artifactFields = map[ArtifactField]struct{}{
	FieldAudioPath:      {},
	FieldTranscriptPath: {},
	FieldConceptsPath:   {},
}

// ArtifactUpdate pairs an artifact field with its new value.
type ArtifactUpdate struct {
	Field ArtifactField
	Value string
}

// Artifact constructs an ArtifactUpdate for UpdateStatus.
func Artifact(field ArtifactField, value string) ArtifactUpdate {
	return ArtifactUpdate{Field: field, Value: value}
}

func (a ArtifactUpdate) validate() error {
	if _, ok := artifactFields[a.Field]; !ok {
		return fmt.Errorf("unknown artifact field %q", a.Field)
	}
	return nil
}
