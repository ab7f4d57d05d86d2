// Package engine implements the core cooking session state machine.
//
// A Controller tracks at most one running session for the recipe the
// caller is looking at. The in-memory state is authoritative; the durable
// store is a write-through mirror used to rebuild it after the process
// dies, and the live-status publisher is told what to show. Failures of
// either collaborator never roll back a transition.
//
// The Controller is meant to be driven from a single goroutine and holds
// no locks.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/logger"
)

// Durable store keys.
const (
	KeyRecipeID  = "session.recipe_id"
	KeyStartedAt = "session.started_at"
)

// Option configures the controller.
type Option func(*Controller)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithFeedback sets the capability used for start/stop cues.
func WithFeedback(f domain.Feedback) Option {
	return func(c *Controller) {
		c.feedback = f
	}
}

// WithFinalText sets how the live status reads once the session ends.
func WithFinalText(fn func(name string, d time.Duration) string) Option {
	return func(c *Controller) {
		c.finalText = fn
	}
}

// Controller owns the start/stop/restore logic for one cooking timer.
type Controller struct {
	recipes   domain.RecipeStore
	store     domain.SessionStore
	publisher domain.LiveStatusPublisher
	feedback  domain.Feedback
	log       *logger.Logger
	now       func() time.Time
	finalText func(name string, d time.Duration) string

	session domain.CookingSession
}

// StartResult reports the non-fatal side effects of Start.
type StartResult struct {
	Session domain.CookingSession

	// PublisherUnavailable is set when no live status could be shown.
	// The session runs regardless; the UI may tell the user.
	PublisherUnavailable bool
	// PersistenceFailed is set when the durable mirror could not be
	// written, so the session will not survive a crash.
	PersistenceFailed bool
}

// StopResult reports the outcome of Stop.
type StopResult struct {
	RecipeID        string
	RecipeName      string
	DurationSeconds int
	// Recipe holds the updated statistics, nil if the recipe vanished
	// while the session ran.
	Recipe *domain.Recipe

	PersistenceFailed    bool
	PublisherUnavailable bool
}

// Duration returns the session length as a time.Duration.
func (r StopResult) Duration() time.Duration {
	return time.Duration(r.DurationSeconds) * time.Second
}

// New creates a controller in the Idle state.
func New(recipes domain.RecipeStore, store domain.SessionStore, publisher domain.LiveStatusPublisher, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		recipes:   recipes,
		store:     store,
		publisher: publisher,
		feedback:  noFeedback{},
		log:       log,
		now:       time.Now,
		finalText: DefaultFinalText,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a snapshot of the current session.
func (c *Controller) Session() domain.CookingSession {
	return c.session
}

// Status returns Idle or Running.
func (c *Controller) Status() domain.SessionStatus {
	return c.session.Status
}

// Start begins a session for recipeID. It fails with domain.ErrInvalidState
// if a session is already running and leaves that session untouched.
func (c *Controller) Start(ctx context.Context, recipeID string) (StartResult, error) {
	if c.session.Running() {
		c.feedback.Pulse(ctx, domain.FeedbackWarning)
		return StartResult{Session: c.session}, fmt.Errorf("start %s while %s is running: %w",
			recipeID, c.session.RecipeID, domain.ErrInvalidState)
	}

	recipe, err := c.recipes.Get(ctx, recipeID)
	if err != nil {
		return StartResult{}, fmt.Errorf("getting recipe: %w", err)
	}

	c.session = domain.CookingSession{
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
		StartedAt:  c.now(),
		Status:     domain.SessionRunning,
	}
	res := StartResult{Session: c.session}

	if err := c.persist(ctx); err != nil {
		c.log.Error("persisting session for %s: %v", recipe.ID, err)
		res.PersistenceFailed = true
	}

	if _, err := c.publisher.Begin(ctx, recipe.Name, c.session.StartedAt); err != nil {
		if errors.Is(err, domain.ErrPublisherUnavailable) {
			c.log.Info("live status unavailable, cooking %q without it", recipe.Name)
		} else {
			c.log.Warn("beginning live status for %q: %v", recipe.Name, err)
		}
		res.PublisherUnavailable = true
	}

	c.feedback.Pulse(ctx, domain.FeedbackSuccess)
	c.log.Info("started cooking %q at %s", recipe.Name, c.session.StartedAt.Format(time.RFC3339))
	return res, nil
}

// Stop ends the running session, folds its duration into the recipe's
// statistics and tears down every live status. It fails with
// domain.ErrInvalidState when idle and changes nothing then.
func (c *Controller) Stop(ctx context.Context) (StopResult, error) {
	if !c.session.Running() {
		c.feedback.Pulse(ctx, domain.FeedbackWarning)
		return StopResult{}, fmt.Errorf("stop while idle: %w", domain.ErrInvalidState)
	}

	session := c.session
	elapsed := clampElapsed(c.now().Sub(session.StartedAt))
	res := StopResult{
		RecipeID:        session.RecipeID,
		RecipeName:      session.RecipeName,
		DurationSeconds: int(elapsed / time.Second),
	}

	c.session = domain.CookingSession{Status: domain.SessionIdle}

	recipe, err := c.recipes.Get(ctx, session.RecipeID)
	if err != nil {
		c.log.Warn("recipe %s gone, dropping %ds of statistics: %v", session.RecipeID, res.DurationSeconds, err)
	} else {
		domain.UpdateCookingStats(recipe, res.DurationSeconds)
		if err := c.recipes.Save(ctx, recipe); err != nil {
			c.log.Error("saving statistics for %s: %v", recipe.ID, err)
			res.PersistenceFailed = true
		}
		res.Recipe = recipe
	}

	if err := c.clear(ctx); err != nil {
		c.log.Error("clearing session keys: %v", err)
		res.PersistenceFailed = true
	}

	if err := c.endAll(ctx, c.finalText(session.RecipeName, res.Duration())); err != nil {
		if !errors.Is(err, domain.ErrPublisherUnavailable) {
			c.log.Warn("ending live status: %v", err)
		}
		res.PublisherUnavailable = true
	}

	c.feedback.Pulse(ctx, domain.FeedbackSuccess)
	c.log.Info("stopped cooking %q after %ds", session.RecipeName, res.DurationSeconds)
	return res, nil
}

// Restore reconciles the controller with the outside world and reports
// whether a session is running for displayedRecipeID. It is idempotent
// and safe to call on every launch or foreground.
//
// A live status is the signal that something is running at all; the
// durable store says which recipe and since when. With no live status,
// stale keys are cleared and the controller goes Idle. When the publisher
// itself is unavailable the durable store is trusted on its own.
func (c *Controller) Restore(ctx context.Context, displayedRecipeID string) (domain.SessionStatus, error) {
	active, err := c.publisher.ListActive(ctx)
	switch {
	case errors.Is(err, domain.ErrPublisherUnavailable):
		c.log.Debug("live status unavailable, restoring from store only")
	case err != nil:
		return c.session.Status, fmt.Errorf("listing live status: %w", err)
	case len(active) == 0:
		if err := c.clear(ctx); err != nil {
			c.log.Error("clearing stale session keys: %v", err)
		}
		if c.session.Running() {
			c.log.Info("live status for %q was dismissed, going idle", c.session.RecipeName)
		}
		c.session = domain.CookingSession{Status: domain.SessionIdle}
		return c.session.Status, nil
	}

	recipeID, startedAt, ok := c.load(ctx)
	if !ok || recipeID != displayedRecipeID {
		if ok {
			c.log.Debug("session for %s running elsewhere, %s is idle", recipeID, displayedRecipeID)
		}
		c.session = domain.CookingSession{Status: domain.SessionIdle}
		return c.session.Status, nil
	}

	name := recipeID
	if r, err := c.recipes.Get(ctx, recipeID); err == nil {
		name = r.Name
	}
	c.session = domain.CookingSession{
		RecipeID:   recipeID,
		RecipeName: name,
		StartedAt:  startedAt,
		Status:     domain.SessionRunning,
	}
	c.log.Debug("restored session for %q started at %s", name, startedAt.Format(time.RFC3339))
	return c.session.Status, nil
}

// Elapsed returns how long the running session has been going. It fails
// with domain.ErrInvalidState when idle.
func (c *Controller) Elapsed() (time.Duration, error) {
	if !c.session.Running() {
		return 0, domain.ErrInvalidState
	}
	return clampElapsed(c.now().Sub(c.session.StartedAt)), nil
}

// CurrentElapsedSeconds is Elapsed in whole seconds.
func (c *Controller) CurrentElapsedSeconds() (int64, error) {
	d, err := c.Elapsed()
	if err != nil {
		return 0, err
	}
	return int64(d / time.Second), nil
}

// DefaultFinalText is the live-status text shown once a session ends.
func DefaultFinalText(name string, d time.Duration) string {
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%s · done in %d:%02d:%02d", name, h, m, s)
	}
	return fmt.Sprintf("%s · done in %d:%02d", name, m, s)
}

func (c *Controller) persist(ctx context.Context) error {
	if err := c.store.Set(ctx, KeyRecipeID, c.session.RecipeID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceWriteFailed, err)
	}
	if err := c.store.Set(ctx, KeyStartedAt, c.session.StartedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceWriteFailed, err)
	}
	return nil
}

func (c *Controller) clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{KeyRecipeID, KeyStartedAt} {
		if err := c.store.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceWriteFailed, errors.Join(errs...))
	}
	return nil
}

// load reads the mirrored session. ok is false when either key is absent
// or unreadable.
func (c *Controller) load(ctx context.Context) (recipeID string, startedAt time.Time, ok bool) {
	recipeID, err := c.store.Get(ctx, KeyRecipeID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.log.Warn("reading %s: %v", KeyRecipeID, err)
		}
		return "", time.Time{}, false
	}
	raw, err := c.store.Get(ctx, KeyStartedAt)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.log.Warn("reading %s: %v", KeyStartedAt, err)
		}
		return "", time.Time{}, false
	}
	startedAt, err = time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		c.log.Warn("malformed %s %q: %v", KeyStartedAt, raw, err)
		return "", time.Time{}, false
	}
	return recipeID, startedAt, true
}

// endAll ends every active live status, not just one this process began:
// handles do not survive a restart.
func (c *Controller) endAll(ctx context.Context, finalText string) error {
	active, err := c.publisher.ListActive(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, h := range active {
		if err := c.publisher.End(ctx, h, finalText); err != nil {
			errs = append(errs, fmt.Errorf("end %s: %w", h.ID, err))
		}
	}
	return errors.Join(errs...)
}

// clampElapsed keeps a clock that moved backwards from producing a
// negative duration.
func clampElapsed(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

type noFeedback struct{}

func (noFeedback) Pulse(context.Context, domain.FeedbackKind) {}
