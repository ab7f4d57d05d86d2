package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/logger"
)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithOverrunFactors sets the multiples of the recipe's mean duration at
// which the watcher speaks up. The default is 1 and 2.
func WithOverrunFactors(factors ...int) WatcherOption {
	return func(w *Watcher) {
		w.factors = factors
	}
}

// Watcher compares a running session against how long the recipe usually
// takes and nudges once per threshold crossed.
type Watcher struct {
	recipes  domain.RecipeStore
	notifier domain.Notifier
	log      *logger.Logger
	factors  []int

	recipeID string
	mean     time.Duration
	said     int
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(recipes domain.RecipeStore, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		recipes:  recipes,
		notifier: notifier,
		log:      log,
		factors:  []int{1, 2},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Inspect looks at one snapshot and decides whether to say something.
// Not safe for concurrent use; the supervisor calls it from its loop.
func (w *Watcher) Inspect(ctx context.Context, snap Snapshot) {
	if !snap.Session.Running() {
		return
	}
	if snap.Session.RecipeID != w.recipeID {
		w.reset(ctx, snap.Session.RecipeID)
	}
	if w.mean <= 0 || w.said >= len(w.factors) {
		return
	}

	next := w.factors[w.said]
	if snap.Elapsed < w.mean*time.Duration(next) {
		w.log.Debug("watcher: %q at %s, usual %s", snap.Session.RecipeName, snap.Elapsed.Round(time.Second), w.mean)
		return
	}
	w.said++

	msg := w.buildMessage(snap, next)
	if err := w.notifier.Notify(ctx, msg); err != nil {
		w.log.Error("watcher: notify: %v", err)
	}
}

func (w *Watcher) reset(ctx context.Context, recipeID string) {
	w.recipeID = recipeID
	w.mean = 0
	w.said = 0

	recipe, err := w.recipes.Get(ctx, recipeID)
	if err != nil {
		w.log.Warn("watcher: loading recipe %s: %v", recipeID, err)
		return
	}
	if recipe.TimesCooked > 0 {
		w.mean = recipe.MeanDuration()
	}
}

func (w *Watcher) buildMessage(snap Snapshot, factor int) string {
	elapsed := snap.Elapsed.Round(time.Second)
	if factor <= 1 {
		return fmt.Sprintf("[Watcher] %s usually takes %s, you're at %s.", snap.Session.RecipeName, w.mean, elapsed)
	}
	return fmt.Sprintf("[Watcher] %s has been going %s, %dx the usual %s. Still cooking?",
		snap.Session.RecipeName, elapsed, factor, w.mean)
}
