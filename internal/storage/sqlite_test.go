package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/logger"
)

func openTestDB(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(path, logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite("  ", logger.New(logger.LevelOff, nil)); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSQLiteKeyValueSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selfmenu.db")
	ctx := context.Background()

	store := openTestDB(t, path)
	if err := store.Set(ctx, "session.started_at", "2026-10-14T10:00:00Z"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := openTestDB(t, path)
	v, err := reopened.Get(ctx, "session.started_at")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if v != "2026-10-14T10:00:00Z" {
		t.Fatalf("unexpected value %q", v)
	}

	if err := reopened.Remove(ctx, "session.started_at"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := reopened.Get(ctx, "session.started_at"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
	if err := reopened.Remove(ctx, "never-set"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestSQLiteRecipesCRUD(t *testing.T) {
	store := openTestDB(t, filepath.Join(t.TempDir(), "selfmenu.db"))
	recipes := store.Recipes()
	ctx := context.Background()

	pasta := &domain.Recipe{
		ID:    "r-pasta",
		Index: 1,
		Name:  "Spaghetti",
		Ingredients: []domain.Ingredient{
			{Name: "Spaghetti", Count: "200 g"},
			{Name: "Sauce", Count: "1 jar", Comment: "tomato"},
		},
		Steps: []domain.Step{
			{Instruction: "Boil", Alarm: 9 * time.Minute},
			{Instruction: "Stir"},
		},
	}
	pizza := &domain.Recipe{ID: "r-pizza", Index: 0, Name: "Pizza"}

	for _, r := range []*domain.Recipe{pasta, pizza} {
		if err := recipes.Save(ctx, r); err != nil {
			t.Fatalf("save %s: %v", r.ID, err)
		}
	}

	got, err := recipes.Get(ctx, "r-pasta")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Ingredients) != 2 || got.Ingredients[1].Comment != "tomato" {
		t.Fatalf("ingredients did not round-trip: %+v", got.Ingredients)
	}
	if len(got.Steps) != 2 || got.Steps[0].Alarm != 9*time.Minute || got.Steps[1].HasAlarm() {
		t.Fatalf("steps did not round-trip: %+v", got.Steps)
	}

	// Upsert statistics.
	got.TimesCooked, got.MeanDurationSeconds = 3, 80
	if err := recipes.Save(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, err := recipes.Get(ctx, "r-pasta")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if again.TimesCooked != 3 || again.MeanDurationSeconds != 80 {
		t.Fatalf("stats not updated: %d/%d", again.TimesCooked, again.MeanDurationSeconds)
	}

	// Ordered by deck index.
	list, err := recipes.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "r-pizza" {
		t.Fatalf("expected pizza first, got %+v", list)
	}

	if err := recipes.Delete(ctx, "r-pizza"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := recipes.Delete(ctx, "r-pizza"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
	if _, err := recipes.Get(ctx, "r-pizza"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteSaveRequiresID(t *testing.T) {
	store := openTestDB(t, filepath.Join(t.TempDir(), "selfmenu.db"))
	if err := store.Save(context.Background(), &domain.Recipe{Name: "nameless"}); err == nil {
		t.Fatal("expected error for recipe without id")
	}
}
