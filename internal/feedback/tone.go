// Package feedback provides the start/stop cue played by the controller:
// a short synthesised chime through the system audio device, or nothing.
package feedback

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/hammamikhairi/selfmenu/internal/domain"
)

// Audio parameters for the synthesised chime.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Note is one tone of a chime.
type Note struct {
	Freq     float64 // Hz, 0 for a rest
	Duration time.Duration
}

// Pattern returns the notes played for a feedback kind: a rising pair for
// success, one low note for a warning.
func Pattern(kind domain.FeedbackKind) []Note {
	switch kind {
	case domain.FeedbackWarning:
		return []Note{{Freq: 330, Duration: 220 * time.Millisecond}}
	default:
		return []Note{
			{Freq: 660, Duration: 90 * time.Millisecond},
			{Freq: 0, Duration: 30 * time.Millisecond},
			{Freq: 880, Duration: 120 * time.Millisecond},
		}
	}
}

// Synthesize renders notes to signed 16-bit little-endian mono PCM. Each
// note gets a short linear fade at both ends so it does not click.
func Synthesize(notes []Note, volume float64) []byte {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	var total int
	for _, n := range notes {
		total += samplesFor(n.Duration)
	}
	pcm := make([]byte, 0, total*BitDepth/8)

	fade := samplesFor(5 * time.Millisecond)
	for _, n := range notes {
		count := samplesFor(n.Duration)
		for i := 0; i < count; i++ {
			var v float64
			if n.Freq > 0 {
				env := 1.0
				if i < fade {
					env = float64(i) / float64(fade)
				} else if count-i < fade {
					env = float64(count-i) / float64(fade)
				}
				v = math.Sin(2*math.Pi*n.Freq*float64(i)/SampleRate) * env * volume
			}
			pcm = binary.LittleEndian.AppendUint16(pcm, uint16(int16(v*math.MaxInt16)))
		}
	}
	return pcm
}

func samplesFor(d time.Duration) int {
	return int(int64(d) * SampleRate / int64(time.Second))
}
