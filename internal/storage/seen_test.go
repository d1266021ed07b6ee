package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func seenPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), ".curator-seen")
}

func TestSeenStore_MissingFileIsEmpty(t *testing.T) {
	store, err := NewSeenStore(seenPath(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("expected empty store, got %d keys", store.Count())
	}
	if store.IsSeen("anything") {
		t.Error("empty store must not report keys as seen")
	}
}

func TestSeenStore_RoundTrip(t *testing.T) {
	path := seenPath(t)

	store, err := NewSeenStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.MarkSeen("key-b")
	store.MarkSeen("key-a")
	if err := store.Persist(); err != nil {
		t.Fatalf("persist failed: %v", err)
	}

	reloaded, err := NewSeenStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reloaded.IsSeen("key-a") || !reloaded.IsSeen("key-b") {
		t.Error("persisted keys must survive reload")
	}
	if reloaded.Count() != 2 {
		t.Errorf("expected 2 keys, got %d", reloaded.Count())
	}
}

func TestSeenStore_SessionKeysNotDurableWithoutPersist(t *testing.T) {
	path := seenPath(t)

	store, err := NewSeenStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.MarkSeen("ephemeral")
	if !store.IsSeen("ephemeral") {
		t.Error("session key must be visible within the session")
	}

	fresh, err := NewSeenStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.IsSeen("ephemeral") {
		t.Error("unpersisted key must not survive a new session")
	}
}

func TestSeenStore_PersistMergesConcurrentWrites(t *testing.T) {
	path := seenPath(t)

	a, err := NewSeenStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewSeenStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a.MarkSeen("from-a")
	b.MarkSeen("from-b")

	if err := a.Persist(); err != nil {
		t.Fatalf("persist a failed: %v", err)
	}
	if err := b.Persist(); err != nil {
		t.Fatalf("persist b failed: %v", err)
	}

	final, err := NewSeenStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !final.IsSeen("from-a") || !final.IsSeen("from-b") {
		t.Error("persist must merge with keys written by another session")
	}
}

func TestSeenStore_SortedOutput(t *testing.T) {
	path := seenPath(t)

	store, err := NewSeenStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.MarkSeen("zzz")
	store.MarkSeen("aaa")
	store.MarkSeen("mmm")
	if err := store.Persist(); err != nil {
		t.Fatalf("persist failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading store file: %v", err)
	}
	if string(data) != "aaa\nmmm\nzzz\n" {
		t.Errorf("expected sorted newline-delimited keys, got %q", string(data))
	}
}

func TestSeenStore_CorruptFileIsFatal(t *testing.T) {
	path := seenPath(t)
	if err := os.WriteFile(path, []byte{0x00, 0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	if _, err := NewSeenStore(path); err == nil {
		t.Fatal("expected error loading corrupt seen store")
	}
}
