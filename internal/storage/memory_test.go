package storage

import (
	"context"
	"testing"

	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/logger"
)

func TestMemoryStoreSetGetRemove(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	// Absent.
	if _, err := store.Get(ctx, "session.recipe_id"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Set + overwrite.
	if err := store.Set(ctx, "session.recipe_id", "pizza"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "session.recipe_id", "spaghetti"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := store.Get(ctx, "session.recipe_id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "spaghetti" {
		t.Fatalf("expected spaghetti, got %q", v)
	}

	// Remove twice.
	if err := store.Remove(ctx, "session.recipe_id"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(ctx, "session.recipe_id"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d keys", store.Len())
	}
}
