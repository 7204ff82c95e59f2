package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"phrasecut/internal/catalog"
	"phrasecut/internal/logging"
	"phrasecut/internal/registry"
	"phrasecut/internal/testsupport"
)

func TestSyncRegistersNewMediaFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reg := registry.New(store, logging.NewNop())

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.MediaDir, "ep01.mp4"), []byte("video one"))
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.MediaDir, "nested", "ep02.MKV"), []byte("video two"))
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.MediaDir, "notes.txt"), []byte("not media"))
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.MediaDir, "cover.jpg"), []byte("not media"))

	summary, err := reg.Sync(context.Background(), cfg.Paths.MediaDir)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if summary.Scanned != 2 || summary.New != 2 {
		t.Fatalf("expected 2 new media files, got %+v", summary)
	}

	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 tracked items, got %d", len(items))
	}
	for _, item := range items {
		if item.Status != catalog.StatusPending {
			t.Fatalf("expected %s pending, got %q", item.Path, item.Status)
		}
		if item.Fingerprint == "" {
			t.Fatalf("expected fingerprint recorded for %s", item.Path)
		}
	}
}

func TestSyncLeavesUnchangedItemsAlone(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reg := registry.New(store, logging.NewNop())
	ctx := context.Background()

	path := filepath.Join(cfg.Paths.MediaDir, "ep01.mp4")
	testsupport.WriteFile(t, path, []byte("stable content"))

	if _, err := reg.Sync(ctx, cfg.Paths.MediaDir); err != nil {
		t.Fatalf("first Sync failed: %v", err)
	}
	// Simulate completed processing.
	if err := store.UpdateStatus(ctx, path, catalog.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	before, err := store.GetByPath(ctx, path)
	if err != nil {
		t.Fatalf("GetByPath failed: %v", err)
	}

	summary, err := reg.Sync(ctx, cfg.Paths.MediaDir)
	if err != nil {
		t.Fatalf("second Sync failed: %v", err)
	}
	if summary.Unchanged != 1 || summary.New != 0 || summary.Changed != 0 {
		t.Fatalf("expected 1 unchanged, got %+v", summary)
	}

	after, err := store.GetByPath(ctx, path)
	if err != nil {
		t.Fatalf("GetByPath failed: %v", err)
	}
	if after.Status != catalog.StatusCompleted {
		t.Fatalf("unchanged item must keep its status, got %q", after.Status)
	}
	if !after.LastUpdated.Equal(before.LastUpdated) {
		t.Fatal("unchanged item must not be rewritten")
	}
}

func TestSyncResetsChangedItemsToPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reg := registry.New(store, logging.NewNop())
	ctx := context.Background()

	path := filepath.Join(cfg.Paths.MediaDir, "ep01.mp4")
	testsupport.WriteFile(t, path, []byte("first cut"))

	if _, err := reg.Sync(ctx, cfg.Paths.MediaDir); err != nil {
		t.Fatalf("first Sync failed: %v", err)
	}
	if err := store.UpdateStatus(ctx, path, catalog.StatusTranscriptDone,
		catalog.Artifact(catalog.FieldAudioPath, "/audio/ep01.wav"),
		catalog.Artifact(catalog.FieldTranscriptPath, "/transcripts/ep01.json")); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	testsupport.WriteFile(t, path, []byte("director's cut"))

	summary, err := reg.Sync(ctx, cfg.Paths.MediaDir)
	if err != nil {
		t.Fatalf("second Sync failed: %v", err)
	}
	if summary.Changed != 1 {
		t.Fatalf("expected 1 changed, got %+v", summary)
	}

	item, err := store.GetByPath(ctx, path)
	if err != nil {
		t.Fatalf("GetByPath failed: %v", err)
	}
	if item.Status != catalog.StatusPending {
		t.Fatalf("changed item must reset to pending, got %q", item.Status)
	}
	// Prior artifacts stay until re-processing overwrites them.
	if item.AudioPath != "/audio/ep01.wav" || item.TranscriptPath != "/transcripts/ep01.json" {
		t.Fatalf("expected artifacts preserved across reset, got %#v", item)
	}
}

func TestSyncSkipsUnreadableEntries(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reg := registry.New(store, logging.NewNop())

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.MediaDir, "ok.mp4"), []byte("fine"))
	locked := filepath.Join(cfg.Paths.MediaDir, "locked.mp4")
	testsupport.WriteFile(t, locked, []byte("no access"))
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	summary, err := reg.Sync(context.Background(), cfg.Paths.MediaDir)
	if err != nil {
		t.Fatalf("Sync must not fail on one unreadable file: %v", err)
	}
	if summary.New != 1 || summary.Skipped != 1 {
		t.Fatalf("expected 1 new and 1 skipped, got %+v", summary)
	}
}

func TestSyncFailsWhenRootMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reg := registry.New(store, logging.NewNop())

	if _, err := reg.Sync(context.Background(), filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error when scan root does not exist")
	}
}
