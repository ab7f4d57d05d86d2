// Package livestatus provides live-status publishers: the out-of-app
// elapsed-time display that mirrors a running cooking session.
package livestatus

import (
	"context"
	"time"

	"github.com/hammamikhairi/selfmenu/internal/domain"
)

// StopURL is the link an activity offers for stopping the session from
// the status display. The CLI's open command handles it.
const StopURL = "selfmenu://stopCooking"

// Activity is what a publisher shows for one handle.
type Activity struct {
	ID         string     `toml:"id"`
	RecipeName string     `toml:"recipe_name"`
	StartedAt  time.Time  `toml:"started_at"`
	State      State      `toml:"state"`
	StopURL    string     `toml:"stop_url,omitempty"`
	FinalText  string     `toml:"final_text,omitempty"`
	EndedAt    *time.Time `toml:"ended_at,omitempty"`
}

// Active reports whether the activity is still displayed.
func (a Activity) Active() bool {
	return a.State == StateActive
}

// Handle returns the opaque handle for the activity.
func (a Activity) Handle() domain.ActivityHandle {
	return domain.ActivityHandle{ID: a.ID}
}

// State of a published activity.
type State string

const (
	StateActive State = "active"
	StateEnded  State = "ended"
)

// Compile-time interface check.
var _ domain.LiveStatusPublisher = Disabled{}

// Disabled is the publisher used when live status is switched off. Every
// call reports domain.ErrPublisherUnavailable.
type Disabled struct{}

func (Disabled) Begin(context.Context, string, time.Time) (domain.ActivityHandle, error) {
	return domain.ActivityHandle{}, domain.ErrPublisherUnavailable
}

func (Disabled) ListActive(context.Context) ([]domain.ActivityHandle, error) {
	return nil, domain.ErrPublisherUnavailable
}

func (Disabled) End(context.Context, domain.ActivityHandle, string) error {
	return domain.ErrPublisherUnavailable
}
