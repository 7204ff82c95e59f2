package fingerprint_test

import (
	"context"
	"path/filepath"
	"testing"

	"phrasecut/internal/fingerprint"
	"phrasecut/internal/testsupport"
)

func TestComputeIsStableForIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "episode_01.mp4")
	second := filepath.Join(dir, "renamed_copy.mp4")
	testsupport.WriteFile(t, first, []byte("identical video bytes"))
	testsupport.WriteFile(t, second, []byte("identical video bytes"))

	ctx := context.Background()
	fpFirst, err := fingerprint.Compute(ctx, first)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	fpAgain, err := fingerprint.Compute(ctx, first)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	fpSecond, err := fingerprint.Compute(ctx, second)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if fpFirst != fpAgain {
		t.Fatalf("fingerprint changed between calls: %s vs %s", fpFirst, fpAgain)
	}
	if fpFirst != fpSecond {
		t.Fatalf("identical content under different names produced different fingerprints: %s vs %s", fpFirst, fpSecond)
	}
	if len(fpFirst) != 64 {
		t.Fatalf("expected 64 hex characters, got %d (%q)", len(fpFirst), fpFirst)
	}
}

func TestComputeDetectsContentChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "episode_01.mp4")
	testsupport.WriteFile(t, path, []byte("original bytes"))

	ctx := context.Background()
	before, err := fingerprint.Compute(ctx, path)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	testsupport.WriteFile(t, path, []byte("re-encoded bytes"))
	after, err := fingerprint.Compute(ctx, path)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if before == after {
		t.Fatal("expected fingerprint to change when content changes")
	}
}

func TestComputeMissingFile(t *testing.T) {
	if _, err := fingerprint.Compute(context.Background(), filepath.Join(t.TempDir(), "absent.mp4")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
