package display

import (
	"fmt"
	"time"
)

// FormatClock formats a duration the way the live status shows it:
// m:ss, or h:mm:ss past an hour. Negative durations show as 0:00.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// RenderStatus renders the live-status bar for a running session.
func RenderStatus(name string, elapsed time.Duration, width int) string {
	content := " 🍳 " + labelStyle.Render(name) + sepStyle.Render("  │  ") + timerRunStyle.Render(FormatClock(elapsed)) + " "
	if width <= 0 {
		width = 40
	}
	return barBg.Width(width).Render(content)
}

// RenderEnded renders the final live-status text after a session ends.
func RenderEnded(finalText string) string {
	return timerDoneStyle.Render("  " + finalText)
}
