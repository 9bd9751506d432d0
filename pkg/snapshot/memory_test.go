package snapshot

import (
	"context"
	"testing"
)

func TestMemoryLoadAbsentKey(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	value, err := store.Load(context.Background(), "gn:cart:missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != nil {
		t.Fatalf("expected nil for absent key, got %q", value)
	}
}

func TestMemorySaveThenLoad(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	payload := []byte(`[{"id":"p1","quantity":2}]`)
	if err := store.Save(context.Background(), "gn:cart:s1", payload); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, err := store.Load(context.Background(), "gn:cart:s1")
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if string(loaded) != string(payload) {
		t.Fatalf("round trip mismatch: %q", loaded)
	}

	// Mutating the returned slice must not corrupt the stored copy.
	loaded[0] = 'X'
	again, err := store.Load(context.Background(), "gn:cart:s1")
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if string(again) != string(payload) {
		t.Fatalf("stored value was aliased: %q", again)
	}
}

func TestMemoryOverwriteWins(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()
	if err := store.Save(ctx, "k", []byte("one")); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if err := store.Save(ctx, "k", []byte("two")); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	value, err := store.Load(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if string(value) != "two" {
		t.Fatalf("expected last write to win, got %q", value)
	}
}
