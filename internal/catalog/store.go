package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"phrasecut/internal/config"
)

// Store manages pipeline state persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the state database and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "phrasecut.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// UpsertItem inserts or replaces the record keyed by path, stamping
// last_updated. Artifact columns are preserved on conflict; a fingerprint
// reset deliberately leaves prior stage outputs in place.
func (s *Store) UpsertItem(ctx context.Context, path, fp string, status Status) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("item path required")
	}
	if strings.TrimSpace(fp) == "" {
		return errors.New("item fingerprint required")
	}
	if _, ok := statusSet[status]; !ok {
		return fmt.Errorf("unknown status %q", status)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO items (path, fingerprint, status, last_updated)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (path) DO UPDATE SET
             fingerprint = excluded.fingerprint,
             status = excluded.status,
             last_updated = excluded.last_updated`,
		path,
		fp,
		status,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

// GetByPath fetches an item by its path. Returns nil when absent.
func (s *Store) GetByPath(ctx context.Context, path string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE path = ?`, path)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ItemsByStatus returns items matching a status ordered by path. Every call
// reads committed state; there is no caching layer above SQLite.
func (s *Store) ItemsByStatus(ctx context.Context, status Status) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items WHERE status = ? ORDER BY path`, status)
	if err != nil {
		return nil, fmt.Errorf("query by status: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// List returns all tracked items ordered by path.
func (s *Store) List(ctx context.Context) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// UpdateStatus advances an item to status and sets the provided artifact
// fields, stamping last_updated in the same statement. Fields outside the
// closed artifact set are rejected before anything is written.
func (s *Store) UpdateStatus(ctx context.Context, path string, status Status, artifacts ...ArtifactUpdate) error {
	if _, ok := statusSet[status]; !ok {
		return fmt.Errorf("unknown status %q", status)
	}
	for _, artifact := range artifacts {
		if err := artifact.validate(); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
	}

	setClauses := []string{"status = ?", "last_updated = ?"}
	args := []any{status, time.Now().UTC().Format(time.RFC3339Nano)}
	for _, artifact := range artifacts {
		setClauses = append(setClauses, string(artifact.Field)+" = ?")
		args = append(args, artifact.Value)
	}
	args = append(args, path)

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE items SET `+strings.Join(setClauses, ", ")+` WHERE path = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update status: no item with path %s", path)
	}
	return nil
}

// Stats returns a count of items grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("item stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

const itemColumns = "path, fingerprint, status, last_updated, audio_path, transcript_path, concepts_path"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		path           string
		fp             string
		statusStr      string
		updatedRaw     string
		audioPath      sql.NullString
		transcriptPath sql.NullString
		conceptsPath   sql.NullString
	)

	if err := scanner.Scan(
		&path,
		&fp,
		&statusStr,
		&updatedRaw,
		&audioPath,
		&transcriptPath,
		&conceptsPath,
	); err != nil {
		return nil, err
	}

	item := &Item{
		Path:           path,
		Fingerprint:    fp,
		Status:         Status(statusStr),
		AudioPath:      audioPath.String,
		TranscriptPath: transcriptPath.String,
		ConceptsPath:   conceptsPath.String,
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		item.LastUpdated = updated
	}
	return item, nil
}

func collectItems(rows *sql.Rows) ([]*Item, error) {
	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
