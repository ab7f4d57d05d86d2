package domain

import "time"

// CookingSession is the in-memory view of one timed cooking attempt.
// Only RecipeID and StartedAt are ever mirrored to durable storage.
type CookingSession struct {
	RecipeID   string
	RecipeName string
	StartedAt  time.Time
	Status     SessionStatus
}

// Running reports whether the session is active.
func (s CookingSession) Running() bool {
	return s.Status == SessionRunning
}

// SessionStatus is the controller's state.
type SessionStatus int

const (
	SessionIdle SessionStatus = iota
	SessionRunning
)

// String returns a human-readable session status.
func (s SessionStatus) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionRunning:
		return "running"
	default:
		return "unknown"
	}
}

// ActivityHandle identifies one live-status instance. It carries no
// session data; a handle found after a restart only says something is shown.
type ActivityHandle struct {
	ID string
}

// FeedbackKind selects the pulse played by a Feedback implementation.
type FeedbackKind int

const (
	FeedbackSuccess FeedbackKind = iota
	FeedbackWarning
)

// String returns a human-readable feedback kind.
func (k FeedbackKind) String() string {
	switch k {
	case FeedbackSuccess:
		return "success"
	case FeedbackWarning:
		return "warning"
	default:
		return "unknown"
	}
}
