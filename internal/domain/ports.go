package domain

import (
	"context"
	"time"
)

// RecipeStore holds the deck. Implementations can be in-memory or SQLite.
type RecipeStore interface {
	List(ctx context.Context) ([]Recipe, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Save(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, id string) error
}

// SessionStore is durable key-value storage that survives process restarts.
// Get returns ErrNotFound for absent keys. Removing an absent key is not
// an error.
type SessionStore interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}

// LiveStatusPublisher shows an elapsed-time display outside the app. The
// user or the OS may dismiss it at any time, and ListActive must find
// instances begun by an earlier process.
type LiveStatusPublisher interface {
	Begin(ctx context.Context, displayName string, startedAt time.Time) (ActivityHandle, error)
	ListActive(ctx context.Context) ([]ActivityHandle, error)
	End(ctx context.Context, handle ActivityHandle, finalText string) error
}

// Notifier delivers messages to the user. Implementations can write to
// stdout or push notifications.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// Feedback plays a short physical cue (haptic, chime). Implementations
// must not fail the caller; they log and move on.
type Feedback interface {
	Pulse(ctx context.Context, kind FeedbackKind)
}
