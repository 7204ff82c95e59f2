// Package registry discovers source media under the watched directory and
// reconciles what it finds against the persisted catalog.
//
// Each Sync walks the media directory, fingerprints every eligible file, and
// applies exactly one of three outcomes per file: a new path is registered
// at pending, an unchanged fingerprint is left untouched (not even the
// timestamp moves), and a changed fingerprint resets the item to pending so
// the pipeline redoes every stage. Unreadable files are logged and skipped;
// they are retried on the next scan.
package registry

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"phrasecut/internal/catalog"
	"phrasecut/internal/fingerprint"
	"phrasecut/internal/logging"
)

var mediaExtensions = map[string]struct{}{
	".mp4": {},
	".mkv": {},
	".avi": {},
	".mov": {},
}

// Summary counts the outcomes of one Sync.
type Summary struct {
	Scanned   int
	New       int
	Changed   int
	Unchanged int
	Skipped   int
}

// Registry reconciles discovered media files with the catalog.
type Registry struct {
	store  *catalog.Store
	logger *slog.Logger
}

// New constructs a Registry.
func New(store *catalog.Store, logger *slog.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: logging.NewComponentLogger(logger, "registry"),
	}
}

// Sync scans root for media files and reconciles each against the catalog.
// A failure to read an individual file skips that file; a failure to walk
// root itself, or any store failure, aborts the scan.
func (r *Registry) Sync(ctx context.Context, root string) (Summary, error) {
	var summary Summary

	root, err := filepath.Abs(root)
	if err != nil {
		return summary, fmt.Errorf("resolve scan root: %w", err)
	}

	r.logger.Info("scanning media directory", logging.String("dir", root))

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("walk %s: %w", root, err)
			}
			r.logger.Warn("skipping unreadable entry", logging.String("path", path), logging.Error(err))
			summary.Skipped++
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if _, ok := mediaExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		summary.Scanned++
		outcome, err := r.register(ctx, path)
		if err != nil {
			return err
		}
		switch outcome {
		case outcomeNew:
			summary.New++
		case outcomeChanged:
			summary.Changed++
		case outcomeUnchanged:
			summary.Unchanged++
		case outcomeSkipped:
			summary.Skipped++
		}
		return nil
	})
	if walkErr != nil {
		return summary, walkErr
	}

	r.logger.Info("scan complete",
		logging.Int("scanned", summary.Scanned),
		logging.Int("new", summary.New),
		logging.Int("changed", summary.Changed),
		logging.Int("unchanged", summary.Unchanged),
		logging.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

type outcome int

const (
	outcomeNew outcome = iota
	outcomeChanged
	outcomeUnchanged
	outcomeSkipped
)

func (r *Registry) register(ctx context.Context, path string) (outcome, error) {
	fp, err := fingerprint.Compute(ctx, path)
	if err != nil {
		r.logger.Warn("fingerprint failed, skipping file", logging.String(logging.FieldItem, path), logging.Error(err))
		return outcomeSkipped, nil
	}

	existing, err := r.store.GetByPath(ctx, path)
	if err != nil {
		return outcomeSkipped, err
	}

	if existing == nil {
		if err := r.store.UpsertItem(ctx, path, fp, catalog.StatusPending); err != nil {
			return outcomeSkipped, err
		}
		r.logger.Info("registered new item", logging.String(logging.FieldItem, path))
		return outcomeNew, nil
	}

	if existing.Fingerprint == fp {
		return outcomeUnchanged, nil
	}

	// Prior stage artifacts and recorded occurrences are intentionally left
	// in place on reset; re-processing overwrites them under the same keys.
	if existing.AudioPath != "" || existing.TranscriptPath != "" || existing.ConceptsPath != "" {
		r.logger.Warn("content changed for item with existing artifacts; prior outputs remain until re-processing overwrites them",
			logging.String(logging.FieldItem, path),
		)
	}
	if err := r.store.UpsertItem(ctx, path, fp, catalog.StatusPending); err != nil {
		return outcomeSkipped, err
	}
	r.logger.Info("content changed, reset item to pending",
		logging.String(logging.FieldItem, path),
		logging.String("previous_status", string(existing.Status)),
	)
	return outcomeChanged, nil
}
