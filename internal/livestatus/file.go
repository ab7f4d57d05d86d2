package livestatus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/logger"
)

// Compile-time interface check.
var _ domain.LiveStatusPublisher = (*FilePublisher)(nil)

const activityExt = ".toml"

// FileOption configures a FilePublisher.
type FileOption func(*FilePublisher)

// WithRetention sets how long ended activities are kept on disk so their
// final text can still be shown.
func WithRetention(d time.Duration) FileOption {
	return func(p *FilePublisher) {
		p.retention = d
	}
}

// WithFileClock overrides the clock used for end and prune timestamps.
func WithFileClock(now func() time.Time) FileOption {
	return func(p *FilePublisher) {
		p.now = now
	}
}

// FilePublisher keeps one TOML file per activity in a directory. Any
// process pointed at the same directory sees the same activities.
type FilePublisher struct {
	dir       string
	log       *logger.Logger
	retention time.Duration
	now       func() time.Time

	mu sync.Mutex
}

// NewFilePublisher creates the directory if needed.
func NewFilePublisher(dir string, log *logger.Logger, opts ...FileOption) (*FilePublisher, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("activity directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create activity dir: %w", err)
	}
	p := &FilePublisher{
		dir:       dir,
		log:       log,
		retention: time.Hour,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Begin publishes a new activity.
func (p *FilePublisher) Begin(ctx context.Context, displayName string, startedAt time.Time) (domain.ActivityHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a := Activity{
		ID:         uuid.NewString(),
		RecipeName: displayName,
		StartedAt:  startedAt.UTC(),
		State:      StateActive,
		StopURL:    StopURL,
	}
	if err := p.write(a); err != nil {
		return domain.ActivityHandle{}, err
	}
	p.log.Debug("began activity %s (%s)", a.ID, displayName)
	return a.Handle(), nil
}

// ListActive returns handles of activities still displayed, oldest first.
// Ended activities past the retention window are pruned on the way.
func (p *FilePublisher) ListActive(ctx context.Context) ([]domain.ActivityHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	all, err := p.readAll()
	if err != nil {
		return nil, err
	}

	var out []domain.ActivityHandle
	for _, a := range all {
		if a.Active() {
			out = append(out, a.Handle())
			continue
		}
		if a.EndedAt != nil && p.now().Sub(*a.EndedAt) > p.retention {
			if err := os.Remove(p.path(a.ID)); err != nil && !errors.Is(err, os.ErrNotExist) {
				p.log.Warn("pruning activity %s: %v", a.ID, err)
			}
		}
	}
	p.log.Debug("listing active activities, count=%d", len(out))
	return out, nil
}

// End marks an activity as ended with a final line of text.
func (p *FilePublisher) End(ctx context.Context, handle domain.ActivityHandle, finalText string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, err := p.read(handle.ID)
	if err != nil {
		return err
	}
	ended := p.now().UTC()
	a.State = StateEnded
	a.FinalText = finalText
	a.EndedAt = &ended
	if err := p.write(a); err != nil {
		return err
	}
	p.log.Debug("ended activity %s: %s", a.ID, finalText)
	return nil
}

// Lookup returns the content of an activity.
func (p *FilePublisher) Lookup(ctx context.Context, handle domain.ActivityHandle) (Activity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.read(handle.ID)
}

// Latest returns the most recently started activity, active or ended.
func (p *FilePublisher) Latest(ctx context.Context) (Activity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	all, err := p.readAll()
	if err != nil {
		return Activity{}, err
	}
	if len(all) == 0 {
		return Activity{}, domain.ErrNotFound
	}
	return all[len(all)-1], nil
}

// Dismiss removes every active activity without ending it, the way a user
// swiping the display away would. The app gets no say in this; Restore
// notices afterwards. Returns the number removed.
func (p *FilePublisher) Dismiss(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	all, err := p.readAll()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range all {
		if !a.Active() {
			continue
		}
		if err := os.Remove(p.path(a.ID)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return n, fmt.Errorf("dismiss activity %s: %w", a.ID, err)
		}
		n++
	}
	p.log.Info("dismissed %d activities", n)
	return n, nil
}

func (p *FilePublisher) path(id string) string {
	return filepath.Join(p.dir, id+activityExt)
}

func (p *FilePublisher) read(id string) (Activity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Activity{}, fmt.Errorf("activity %q: %w", id, domain.ErrNotFound)
	}
	var a Activity
	if _, err := toml.DecodeFile(p.path(id), &a); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Activity{}, fmt.Errorf("activity %s: %w", id, domain.ErrNotFound)
		}
		return Activity{}, fmt.Errorf("read activity %s: %w", id, err)
	}
	return a, nil
}

// readAll returns every decodable activity ordered by start time.
func (p *FilePublisher) readAll() ([]Activity, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("read activity dir: %w", err)
	}
	var out []Activity
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, activityExt) {
			continue
		}
		a, err := p.read(strings.TrimSuffix(name, activityExt))
		if err != nil {
			p.log.Warn("skipping activity file %s: %v", name, err)
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

// write replaces the activity file atomically.
func (p *FilePublisher) write(a Activity) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(a); err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	tmp, err := os.CreateTemp(p.dir, ".activity-*")
	if err != nil {
		return fmt.Errorf("write activity: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write activity: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write activity: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path(a.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write activity: %w", err)
	}
	return nil
}
