package feedback

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/hammamikhairi/selfmenu/internal/domain"
)

func TestSynthesizeLength(t *testing.T) {
	notes := []Note{{Freq: 440, Duration: 100 * time.Millisecond}, {Freq: 0, Duration: 50 * time.Millisecond}}
	pcm := Synthesize(notes, 0.5)
	want := (SampleRate/10 + SampleRate/20) * BitDepth / 8
	if len(pcm) != want {
		t.Fatalf("expected %d bytes, got %d", want, len(pcm))
	}
}

func TestSynthesizeRestIsSilent(t *testing.T) {
	pcm := Synthesize([]Note{{Freq: 0, Duration: 20 * time.Millisecond}}, 1)
	for i := 0; i < len(pcm); i += 2 {
		if binary.LittleEndian.Uint16(pcm[i:]) != 0 {
			t.Fatalf("expected silence at sample %d", i/2)
		}
	}
}

func TestSynthesizeRespectsVolume(t *testing.T) {
	peak := func(pcm []byte) int16 {
		var max int16
		for i := 0; i < len(pcm); i += 2 {
			v := int16(binary.LittleEndian.Uint16(pcm[i:]))
			if v < 0 {
				v = -v
			}
			if v > max {
				max = v
			}
		}
		return max
	}
	note := []Note{{Freq: 440, Duration: 50 * time.Millisecond}}
	loud, quiet := peak(Synthesize(note, 1)), peak(Synthesize(note, 0.25))
	if quiet == 0 || quiet >= loud {
		t.Fatalf("expected quiet peak below loud peak, got %d vs %d", quiet, loud)
	}
	if silent := peak(Synthesize(note, -3)); silent != 0 {
		t.Fatalf("expected negative volume to clamp to silence, got peak %d", silent)
	}
}

func TestPatternsDiffer(t *testing.T) {
	if len(Pattern(domain.FeedbackSuccess)) == len(Pattern(domain.FeedbackWarning)) {
		t.Fatal("success and warning patterns should be distinguishable")
	}
}
