// Package timer implements the background supervisor that keeps a
// running cooking session's status fresh and fires step alarms.
package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/logger"
)

// Snapshot is what the supervisor sees of the session on each tick.
type Snapshot struct {
	Session domain.CookingSession
	Elapsed time.Duration
}

// Source reports the current session. It is only ever called from the
// supervisor goroutine.
type Source func(ctx context.Context) (Snapshot, error)

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor refreshes.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.tickInterval = d
	}
}

// WithNotifyCooldown sets the minimum time between repeated notifications.
func WithNotifyCooldown(d time.Duration) Option {
	return func(s *Supervisor) {
		s.notifyCooldown = d
	}
}

// WithMaxEscalation sets the escalation level after which the supervisor stops nagging.
func WithMaxEscalation(level int) Option {
	return func(s *Supervisor) {
		s.maxEscalation = level
	}
}

// WithReminderInterval sets how often armed alarms send "X remaining" reminders.
func WithReminderInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.reminderInterval = d
	}
}

// WithClock overrides time.Now for alarm deadlines.
func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

// WithOnTick registers a callback that receives every running snapshot,
// typically to redraw the status line.
func WithOnTick(fn func(Snapshot)) Option {
	return func(s *Supervisor) {
		s.onTick = fn
	}
}

// WithWatcher runs the overrun watcher on every running snapshot.
func WithWatcher(w *Watcher) Option {
	return func(s *Supervisor) {
		s.watcher = w
	}
}

// Alarm is a one-shot countdown armed for a recipe step.
type Alarm struct {
	Label    string
	Duration time.Duration
	ArmedAt  time.Time
	Deadline time.Time

	Fired           bool
	EscalationLevel int
	LastNotified    time.Time
	LastRemindedAt  time.Time
}

// Supervisor polls a Source on a ticker, fires alarms through the
// notifier and finishes once the session is no longer running.
type Supervisor struct {
	source           Source
	notifier         domain.Notifier
	log              *logger.Logger
	now              func() time.Time
	onTick           func(Snapshot)
	watcher          *Watcher
	tickInterval     time.Duration
	notifyCooldown   time.Duration
	maxEscalation    int
	reminderInterval time.Duration

	mu      sync.Mutex
	alarms  []*Alarm
	running bool
	ended   bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a supervisor with the given dependencies and options.
func New(source Source, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		source:           source,
		notifier:         notifier,
		log:              log,
		now:              time.Now,
		tickInterval:     1 * time.Second,
		notifyCooldown:   15 * time.Second,
		maxEscalation:    3,
		reminderInterval: 2 * time.Minute,
		done:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Arm schedules an alarm that fires d from now.
func (s *Supervisor) Arm(label string, d time.Duration) error {
	if d <= 0 {
		return errors.New("alarm duration must be positive")
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.alarms = append(s.alarms, &Alarm{
		Label:    label,
		Duration: d,
		ArmedAt:  now,
		Deadline: now.Add(d),
	})
	s.log.Debug("armed alarm %q for %s", label, d)
	return nil
}

// Alarms returns a snapshot of the armed alarms.
func (s *Supervisor) Alarms() []Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alarm, 0, len(s.alarms))
	for _, a := range s.alarms {
		out = append(out, *a)
	}
	return out
}

// Start begins the background loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("timer supervisor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	go s.loop(childCtx)

	s.log.Debug("timer supervisor started (tick=%s, cooldown=%s)", s.tickInterval, s.notifyCooldown)
}

// Stop shuts down the supervisor.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.log.Debug("timer supervisor stopped")
}

// Done is closed when the loop exits, either because the session ended
// or because the supervisor was stopped.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

// Ended reports whether the loop saw the session stop.
func (s *Supervisor) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *Supervisor) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.tick(ctx) {
				return
			}
		}
	}
}

// tick runs one cycle and reports whether the session is still running.
func (s *Supervisor) tick(ctx context.Context) bool {
	snap, err := s.source(ctx)
	if err != nil {
		s.log.Error("supervisor: refreshing session: %v", err)
		return true
	}
	if !snap.Session.Running() {
		s.mu.Lock()
		s.ended = true
		s.mu.Unlock()
		s.log.Info("session ended, supervisor finishing")
		return false
	}

	if s.onTick != nil {
		s.onTick(snap)
	}
	if s.watcher != nil {
		s.watcher.Inspect(ctx, snap)
	}

	for _, n := range s.dueNotifications(s.now()) {
		var err error
		if n.urgent {
			err = s.notifier.NotifyUrgent(ctx, n.msg)
		} else {
			err = s.notifier.Notify(ctx, n.msg)
		}
		if err != nil {
			s.log.Error("supervisor: notifying: %v", err)
		}
	}
	return true
}

type notification struct {
	msg    string
	urgent bool
}

// dueNotifications advances every alarm to now and returns what should be
// said. Notifications are sent by the caller without the lock held.
func (s *Supervisor) dueNotifications(now time.Time) []notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []notification
	for _, a := range s.alarms {
		if a.Fired {
			if a.EscalationLevel > s.maxEscalation {
				continue // Stop nagging.
			}
			if !a.LastNotified.IsZero() && now.Sub(a.LastNotified) < s.notifyCooldown {
				continue
			}
			out = append(out, notification{msg: escalationMessage(a)})
			a.LastNotified = now
			a.EscalationLevel++
			continue
		}

		remaining := a.Deadline.Sub(now)
		if remaining <= 0 {
			a.Fired = true
			out = append(out, notification{msg: escalationMessage(a), urgent: true})
			a.LastNotified = now
			a.EscalationLevel = 1
			s.log.Debug("alarm %q fired", a.Label)
			continue
		}

		if s.reminderInterval <= 0 || a.Duration <= s.reminderInterval {
			continue
		}
		last := a.LastRemindedAt
		if last.IsZero() {
			last = a.ArmedAt
		}
		if now.Sub(last) >= s.reminderInterval {
			a.LastRemindedAt = now
			out = append(out, notification{msg: fmt.Sprintf("[Timer] %s, %s remaining.", a.Label, formatRemaining(remaining))})
		}
	}
	return out
}

// escalationMessage returns a message based on the escalation level.
func escalationMessage(a *Alarm) string {
	switch a.EscalationLevel {
	case 0:
		return fmt.Sprintf("[Timer] %s is up.", a.Label)
	case 1:
		return fmt.Sprintf("[Timer] %s -- check it now.", a.Label)
	case 2:
		return fmt.Sprintf("[Timer] %s. Now.", a.Label)
	default:
		return fmt.Sprintf("[Timer] %s.", a.Label)
	}
}

// formatRemaining returns a human-friendly duration for reminders.
// Rounds to the nearest minute once there's at least 1 minute left.
func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	totalSec := int(d.Seconds())
	if totalSec < 60 {
		if totalSec == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", totalSec)
	}
	m := (totalSec + 30) / 60
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
