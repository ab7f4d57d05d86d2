package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when a transition is attempted from the
	// wrong state, e.g. stopping an idle controller.
	ErrInvalidState = errors.New("invalid state for transition")

	// ErrPersistenceWriteFailed marks a durable-store write that did not
	// land. The in-memory transition still happened.
	ErrPersistenceWriteFailed = errors.New("persistence write failed")

	// ErrPublisherUnavailable is returned by live-status publishers that
	// cannot show anything, typically because the capability is disabled.
	ErrPublisherUnavailable = errors.New("live status publisher unavailable")
)
