package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UpsertOccurrence records one recognized concept instance. If a row with the
// same (label, source_path, start) already exists, only clip_path is updated;
// the row is never duplicated.
func (s *Store) UpsertOccurrence(ctx context.Context, occ Occurrence) error {
	if strings.TrimSpace(occ.Label) == "" {
		return errors.New("occurrence label required")
	}
	if strings.TrimSpace(occ.SourcePath) == "" {
		return errors.New("occurrence source path required")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO occurrences (label, source_path, start_seconds, end_seconds, clip_path, created_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT (label, source_path, start_seconds) DO UPDATE SET
             clip_path = excluded.clip_path`,
		occ.Label,
		occ.SourcePath,
		occ.Start,
		occ.End,
		nullableString(occ.ClipPath),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert occurrence: %w", err)
	}
	return nil
}

// OccurrenceFrequency returns labels with their occurrence counts, most
// frequent first. Ties break by label so the ordering is deterministic.
func (s *Store) OccurrenceFrequency(ctx context.Context) ([]LabelCount, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT label, COUNT(1) AS freq FROM occurrences GROUP BY label ORDER BY freq DESC, label`,
	)
	if err != nil {
		return nil, fmt.Errorf("occurrence frequency: %w", err)
	}
	defer rows.Close()

	var counts []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, lc)
	}
	return counts, rows.Err()
}

// OccurrencesForLabel returns all occurrences of one label ordered by source
// and start time.
func (s *Store) OccurrencesForLabel(ctx context.Context, label string) ([]Occurrence, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+occurrenceColumns+` FROM occurrences WHERE label = ? ORDER BY source_path, start_seconds`,
		label,
	)
	if err != nil {
		return nil, fmt.Errorf("occurrences for label: %w", err)
	}
	defer rows.Close()
	return collectOccurrences(rows)
}

// OccurrencesForItem returns all occurrences extracted from one source item.
func (s *Store) OccurrencesForItem(ctx context.Context, sourcePath string) ([]Occurrence, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+occurrenceColumns+` FROM occurrences WHERE source_path = ? ORDER BY start_seconds`,
		sourcePath,
	)
	if err != nil {
		return nil, fmt.Errorf("occurrences for item: %w", err)
	}
	defer rows.Close()
	return collectOccurrences(rows)
}

const occurrenceColumns = "label, source_path, start_seconds, end_seconds, clip_path, created_at"

func collectOccurrences(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Occurrence, error) {
	var occs []Occurrence
	for rows.Next() {
		var (
			occ        Occurrence
			clipPath   *string
			createdRaw string
		)
		if err := rows.Scan(&occ.Label, &occ.SourcePath, &occ.Start, &occ.End, &clipPath, &createdRaw); err != nil {
			return nil, err
		}
		if clipPath != nil {
			occ.ClipPath = *clipPath
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			occ.CreatedAt = created
		}
		occs = append(occs, occ)
	}
	return occs, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
