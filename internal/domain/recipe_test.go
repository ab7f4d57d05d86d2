package domain

import (
	"testing"
	"time"
)

func TestUpdateCookingStatsScenarios(t *testing.T) {
	tests := []struct {
		name      string
		times     int
		mean      int
		duration  int
		wantTimes int
		wantMean  int
	}{
		{"fresh recipe", 0, 0, 125, 1, 125},
		{"third cook", 2, 100, 40, 3, 80},
		{"zero duration", 1, 60, 0, 2, 30},
		{"negative clamps", 1, 60, -30, 2, 30},
		{"truncates", 2, 10, 11, 3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Recipe{TimesCooked: tt.times, MeanDurationSeconds: tt.mean}
			UpdateCookingStats(r, tt.duration)
			if r.TimesCooked != tt.wantTimes {
				t.Fatalf("expected timesCooked %d, got %d", tt.wantTimes, r.TimesCooked)
			}
			if r.MeanDurationSeconds != tt.wantMean {
				t.Fatalf("expected mean %d, got %d", tt.wantMean, r.MeanDurationSeconds)
			}
		})
	}
}

func TestUpdateCookingStatsMeanOfEqualDurations(t *testing.T) {
	r := &Recipe{}
	for n := 1; n <= 50; n++ {
		UpdateCookingStats(r, 90)
		if r.TimesCooked != n {
			t.Fatalf("expected timesCooked %d, got %d", n, r.TimesCooked)
		}
		if r.MeanDurationSeconds != 90 {
			t.Fatalf("after %d updates expected mean 90, got %d", n, r.MeanDurationSeconds)
		}
	}
}

func TestUpdateCookingStatsMatchesFloorMean(t *testing.T) {
	// Each prefix sum here is divisible by its count, so the running mean
	// never truncates and must equal floor(sum/n).
	durations := []int{120, 60, 90, 330, 150}
	r := &Recipe{}
	sum := 0
	for i, d := range durations {
		UpdateCookingStats(r, d)
		sum += d
		n := i + 1
		if r.TimesCooked != n {
			t.Fatalf("expected timesCooked %d, got %d", n, r.TimesCooked)
		}
		if want := sum / n; r.MeanDurationSeconds != want {
			t.Fatalf("after %d updates expected mean %d, got %d", n, want, r.MeanDurationSeconds)
		}
	}
}

func TestUpdateCookingStatsReplayIsExact(t *testing.T) {
	durations := []int{301, 17, 4000, 59, 0, 1234}
	a, b := &Recipe{}, &Recipe{}
	for _, d := range durations {
		UpdateCookingStats(a, d)
	}
	for _, d := range durations {
		UpdateCookingStats(b, d)
	}
	if a.TimesCooked != b.TimesCooked || a.MeanDurationSeconds != b.MeanDurationSeconds {
		t.Fatalf("replay diverged: %d/%d vs %d/%d", a.TimesCooked, a.MeanDurationSeconds, b.TimesCooked, b.MeanDurationSeconds)
	}
}

func TestUpdateCookingStatsResetsMeanWhenNeverCooked(t *testing.T) {
	r := &Recipe{TimesCooked: 0, MeanDurationSeconds: 999}
	UpdateCookingStats(r, 10)
	if r.MeanDurationSeconds != 10 {
		t.Fatalf("expected stale mean to be ignored, got %d", r.MeanDurationSeconds)
	}
}

func TestMeanDuration(t *testing.T) {
	r := &Recipe{}
	if r.MeanDuration() != 0 {
		t.Fatalf("expected 0 for uncooked recipe, got %s", r.MeanDuration())
	}
	r.TimesCooked, r.MeanDurationSeconds = 3, 80
	if r.MeanDuration() != 80*time.Second {
		t.Fatalf("expected 80s, got %s", r.MeanDuration())
	}
}
