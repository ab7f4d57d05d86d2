package livestatus

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/selfmenu/internal/domain"
)

// Compile-time interface check.
var _ domain.LiveStatusPublisher = (*MemoryPublisher)(nil)

// MemoryPublisher keeps activities in process memory. Safe for concurrent
// access. Share one instance between controllers to simulate a restart.
type MemoryPublisher struct {
	mu         sync.Mutex
	activities map[string]*Activity
	refuse     bool
}

// NewMemoryPublisher creates an empty publisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{activities: make(map[string]*Activity)}
}

// SetRefuse makes Begin fail with domain.ErrPublisherUnavailable.
func (p *MemoryPublisher) SetRefuse(refuse bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refuse = refuse
}

func (p *MemoryPublisher) Begin(ctx context.Context, displayName string, startedAt time.Time) (domain.ActivityHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.refuse {
		return domain.ActivityHandle{}, domain.ErrPublisherUnavailable
	}
	a := &Activity{
		ID:         uuid.NewString(),
		RecipeName: displayName,
		StartedAt:  startedAt,
		State:      StateActive,
		StopURL:    StopURL,
	}
	p.activities[a.ID] = a
	return a.Handle(), nil
}

func (p *MemoryPublisher) ListActive(ctx context.Context) ([]domain.ActivityHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var active []*Activity
	for _, a := range p.activities {
		if a.Active() {
			active = append(active, a)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].StartedAt.Before(active[j].StartedAt) })
	out := make([]domain.ActivityHandle, 0, len(active))
	for _, a := range active {
		out = append(out, a.Handle())
	}
	return out, nil
}

func (p *MemoryPublisher) End(ctx context.Context, handle domain.ActivityHandle, finalText string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, ok := p.activities[handle.ID]
	if !ok {
		return fmt.Errorf("activity %s: %w", handle.ID, domain.ErrNotFound)
	}
	a.State = StateEnded
	a.FinalText = finalText
	return nil
}

// Dismiss drops every activity, as if the user swiped them away.
func (p *MemoryPublisher) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, a := range p.activities {
		if a.Active() {
			delete(p.activities, id)
		}
	}
}

// Activities returns a snapshot of everything published, ended included.
func (p *MemoryPublisher) Activities() []Activity {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Activity, 0, len(p.activities))
	for _, a := range p.activities {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}
