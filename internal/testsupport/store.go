package testsupport

import (
	"context"
	"testing"

	"phrasecut/internal/catalog"
	"phrasecut/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedItem registers an item at the given status for tests.
func SeedItem(t testing.TB, store *catalog.Store, path, fingerprint string, status catalog.Status) {
	t.Helper()

	if err := store.UpsertItem(context.Background(), path, fingerprint, status); err != nil {
		t.Fatalf("store.UpsertItem: %v", err)
	}
}
