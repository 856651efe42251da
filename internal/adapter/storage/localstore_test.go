package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ega-bank/ega-bank-client/internal/adapter/storage"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newStore(t *testing.T) *storage.LocalStore {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %s", err)
	}
	return store
}

func TestLocalStoreRequiresDir(t *testing.T) {
	if _, err := storage.NewLocalStore("  "); err == nil {
		t.Fatal("expected an error for a blank storage dir")
	}
}

func TestLocalStorePutGetRoundTrip(t *testing.T) {
	store := newStore(t)

	if err := store.Put("demo", payload{Name: "jean", Count: 3}); err != nil {
		t.Fatalf("Put: %s", err)
	}

	var got payload
	found, err := store.Get("demo", &got)
	if err != nil {
		t.Fatalf("Get: %s", err)
	}
	if !found {
		t.Fatal("expected the key to exist")
	}
	if got.Name != "jean" || got.Count != 3 {
		t.Fatalf("unexpected value: %+v", got)
	}
}

func TestLocalStoreGetMissingKey(t *testing.T) {
	store := newStore(t)

	var got payload
	found, err := store.Get("absent", &got)
	if err != nil {
		t.Fatalf("Get: %s", err)
	}
	if found {
		t.Fatal("missing key must report found=false")
	}
}

func TestLocalStoreDelete(t *testing.T) {
	store := newStore(t)

	if err := store.Put("k", payload{}); err != nil {
		t.Fatalf("Put: %s", err)
	}
	if err := store.Delete("k"); err != nil {
		t.Fatalf("Delete: %s", err)
	}
	var got payload
	if found, _ := store.Get("k", &got); found {
		t.Fatal("deleted key must not be found")
	}

	// Deleting again is not an error.
	if err := store.Delete("k"); err != nil {
		t.Fatalf("Delete of missing key: %s", err)
	}
}

func TestLocalStoreKeys(t *testing.T) {
	store := newStore(t)

	for _, key := range []string{"token", "current_user", "ega_bank_stable_data"} {
		if err := store.Put(key, payload{}); err != nil {
			t.Fatalf("Put %s: %s", key, err)
		}
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys: %s", err)
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %v", keys)
	}
	seen := map[string]bool{}
	for _, key := range keys {
		seen[key] = true
	}
	for _, key := range []string{"token", "current_user", "ega_bank_stable_data"} {
		if !seen[key] {
			t.Fatalf("missing key %q in %v", key, keys)
		}
	}
}

func TestLocalStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore: %s", err)
	}
	if err := store.Put("sticky", payload{Name: "persisted"}); err != nil {
		t.Fatalf("Put: %s", err)
	}

	reopened, err := storage.NewLocalStore(dir)
	if err != nil {
		t.Fatalf("reopen: %s", err)
	}
	var got payload
	found, err := reopened.Get("sticky", &got)
	if err != nil || !found {
		t.Fatalf("expected the value to survive reopen (found=%v, err=%v)", found, err)
	}
	if got.Name != "persisted" {
		t.Fatalf("unexpected value after reopen: %+v", got)
	}
}

func TestLocalStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore: %s", err)
	}
	if err := store.Put("k", payload{}); err != nil {
		t.Fatalf("Put: %s", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatalf("glob: %s", err)
	}
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
	if _, err := os.Stat(filepath.Join(dir, "k.json")); err != nil {
		t.Fatalf("expected k.json on disk: %s", err)
	}
}
