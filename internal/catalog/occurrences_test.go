package catalog_test

import (
	"context"
	"testing"

	"phrasecut/internal/catalog"
	"phrasecut/internal/testsupport"
)

func TestUpsertOccurrenceMergesClipPathOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	occ := catalog.Occurrence{
		Label:      "落荒而逃",
		SourcePath: "/media/ep01.mp4",
		Start:      12.5,
		End:        16.0,
		ClipPath:   "/clips/落荒而逃_ep01_12s.mp4",
	}
	if err := store.UpsertOccurrence(ctx, occ); err != nil {
		t.Fatalf("UpsertOccurrence failed: %v", err)
	}

	// Same natural key again, re-rendered clip: the row must merge, not duplicate.
	occ.End = 99.0
	occ.ClipPath = "/clips/rerendered.mp4"
	if err := store.UpsertOccurrence(ctx, occ); err != nil {
		t.Fatalf("UpsertOccurrence (merge) failed: %v", err)
	}

	recorded, err := store.OccurrencesForLabel(ctx, "落荒而逃")
	if err != nil {
		t.Fatalf("OccurrencesForLabel failed: %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("expected 1 merged occurrence, got %d", len(recorded))
	}
	if recorded[0].ClipPath != "/clips/rerendered.mp4" {
		t.Fatalf("expected clip path updated, got %q", recorded[0].ClipPath)
	}
	if recorded[0].End != 16.0 {
		t.Fatalf("merge must only touch clip_path, end changed to %v", recorded[0].End)
	}
}

func TestUpsertOccurrenceRequiresKeyFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.UpsertOccurrence(ctx, catalog.Occurrence{SourcePath: "/media/ep01.mp4"}); err == nil {
		t.Fatal("expected error for missing label")
	}
	if err := store.UpsertOccurrence(ctx, catalog.Occurrence{Label: "一帆风顺"}); err == nil {
		t.Fatal("expected error for missing source path")
	}
}

func TestOccurrenceFrequencyOrdersByCountThenLabel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seed := []catalog.Occurrence{
		{Label: "一日千里", SourcePath: "/media/ep01.mp4", Start: 10, End: 13},
		{Label: "一日千里", SourcePath: "/media/ep02.mp4", Start: 55, End: 58},
		{Label: "一帆风顺", SourcePath: "/media/ep01.mp4", Start: 70, End: 73},
	}
	for _, occ := range seed {
		if err := store.UpsertOccurrence(ctx, occ); err != nil {
			t.Fatalf("UpsertOccurrence failed: %v", err)
		}
	}

	counts, err := store.OccurrenceFrequency(ctx)
	if err != nil {
		t.Fatalf("OccurrenceFrequency failed: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(counts))
	}
	if counts[0].Label != "一日千里" || counts[0].Count != 2 {
		t.Fatalf("expected 一日千里 x2 first, got %+v", counts[0])
	}
	if counts[1].Label != "一帆风顺" || counts[1].Count != 1 {
		t.Fatalf("expected 一帆风顺 x1 second, got %+v", counts[1])
	}
}

func TestOccurrencesForItem(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seed := []catalog.Occurrence{
		{Label: "画蛇添足", SourcePath: "/media/ep01.mp4", Start: 40, End: 43},
		{Label: "守株待兔", SourcePath: "/media/ep01.mp4", Start: 12, End: 15},
		{Label: "守株待兔", SourcePath: "/media/ep02.mp4", Start: 8, End: 11},
	}
	for _, occ := range seed {
		if err := store.UpsertOccurrence(ctx, occ); err != nil {
			t.Fatalf("UpsertOccurrence failed: %v", err)
		}
	}

	occs, err := store.OccurrencesForItem(ctx, "/media/ep01.mp4")
	if err != nil {
		t.Fatalf("OccurrencesForItem failed: %v", err)
	}
	if len(occs) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occs))
	}
	if occs[0].Label != "守株待兔" || occs[1].Label != "画蛇添足" {
		t.Fatalf("expected occurrences ordered by start, got %q then %q", occs[0].Label, occs[1].Label)
	}
}
