package timer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/logger"
	"github.com/hammamikhairi/selfmenu/internal/recipe"
)

func snapshotAt(id, name string, elapsed time.Duration) Snapshot {
	return Snapshot{
		Session: domain.CookingSession{RecipeID: id, RecipeName: name, Status: domain.SessionRunning},
		Elapsed: elapsed,
	}
}

func TestWatcherNudgesOncePerThreshold(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	ctx := context.Background()
	recipes := recipe.NewMemorySource(log)
	if err := recipes.Save(ctx, &domain.Recipe{ID: "stew", Name: "Stew", TimesCooked: 2, MeanDurationSeconds: 600}); err != nil {
		t.Fatalf("save: %v", err)
	}
	n := &mockNotifier{}
	w := NewWatcher(recipes, n, log)

	for _, elapsed := range []time.Duration{5 * time.Minute, 10 * time.Minute, 11 * time.Minute, 19 * time.Minute} {
		w.Inspect(ctx, snapshotAt("stew", "Stew", elapsed))
	}
	if normal, _ := n.counts(); normal != 1 {
		t.Fatalf("expected one nudge before 2x, got %v", n.messages)
	}
	if !strings.Contains(n.messages[0], "usually takes 10m0s") {
		t.Fatalf("unexpected nudge %q", n.messages[0])
	}

	w.Inspect(ctx, snapshotAt("stew", "Stew", 20*time.Minute))
	w.Inspect(ctx, snapshotAt("stew", "Stew", 45*time.Minute))
	if normal, _ := n.counts(); normal != 2 {
		t.Fatalf("expected two nudges total, got %v", n.messages)
	}
	if !strings.Contains(n.messages[1], "2x") {
		t.Fatalf("unexpected second nudge %q", n.messages[1])
	}
}

func TestWatcherQuietForNewRecipe(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	ctx := context.Background()
	recipes := recipe.NewMemorySource(log)
	_ = recipes.Save(ctx, &domain.Recipe{ID: "new", Name: "New dish"})
	n := &mockNotifier{}
	w := NewWatcher(recipes, n, log)

	w.Inspect(ctx, snapshotAt("new", "New dish", 3*time.Hour))
	if normal, _ := n.counts(); normal != 0 {
		t.Fatalf("expected silence without history, got %v", n.messages)
	}
}

func TestWatcherResetsOnRecipeChange(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	ctx := context.Background()
	recipes := recipe.NewMemorySource(log)
	_ = recipes.Save(ctx, &domain.Recipe{ID: "a", Name: "A", TimesCooked: 1, MeanDurationSeconds: 60})
	_ = recipes.Save(ctx, &domain.Recipe{ID: "b", Name: "B", TimesCooked: 1, MeanDurationSeconds: 60})
	n := &mockNotifier{}
	w := NewWatcher(recipes, n, log, WithOverrunFactors(1))

	w.Inspect(ctx, snapshotAt("a", "A", 2*time.Minute))
	w.Inspect(ctx, snapshotAt("b", "B", 2*time.Minute))
	if normal, _ := n.counts(); normal != 2 {
		t.Fatalf("expected one nudge per recipe, got %v", n.messages)
	}
}

func TestWatcherUnknownRecipe(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	n := &mockNotifier{}
	w := NewWatcher(recipe.NewMemorySource(log), n, log)

	w.Inspect(context.Background(), snapshotAt("ghost", "Ghost", time.Hour))
	if normal, _ := n.counts(); normal != 0 {
		t.Fatalf("expected silence for a missing recipe, got %v", n.messages)
	}
}
