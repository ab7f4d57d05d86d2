package feedback

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Feedback = (*Chime)(nil)
	_ domain.Feedback = NoOp{}
)

// Chime plays feedback through oto. Pulses are played synchronously and
// are short enough that a command can wait for them before exiting.
type Chime struct {
	ctx    *oto.Context
	log    *logger.Logger
	volume float64

	mu     sync.Mutex
	active *oto.Player // currently playing, nil when idle
}

// NewChime initializes the system audio context. Returns an error if the
// audio device is unavailable; callers fall back to NoOp.
func NewChime(log *logger.Logger, volume float64) (*Chime, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug("chime initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &Chime{ctx: ctx, log: log, volume: volume}, nil
}

// Pulse plays the pattern for kind and waits for it to finish, or for ctx
// to be cancelled.
func (c *Chime) Pulse(ctx context.Context, kind domain.FeedbackKind) {
	pcm := Synthesize(Pattern(kind), c.volume)
	player := c.ctx.NewPlayer(bytes.NewReader(pcm))

	c.mu.Lock()
	c.active = player
	c.mu.Unlock()

	player.Play()
	c.log.Debug("chime: playing %s (%d bytes)", kind, len(pcm))

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
		case <-time.After(10 * time.Millisecond):
		}
	}

	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()

	if err := player.Close(); err != nil {
		c.log.Warn("chime: closing player: %v", err)
	}
}

// Stop interrupts the currently playing chime, if any. Safe to call
// concurrently and when nothing is playing.
func (c *Chime) Stop() {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()

	if active != nil {
		active.Pause()
		c.log.Debug("chime: interrupted")
	}
}

// NoOp is the feedback used when chimes are disabled.
type NoOp struct{}

// Pulse does nothing.
func (NoOp) Pulse(context.Context, domain.FeedbackKind) {}
