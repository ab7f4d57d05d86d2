// Package display renders the deck and the cooking status for the
// terminal with lipgloss.
//
// Nothing here owns state: [Printer] writes styled lines to any
// io.Writer, and the Render functions return strings.
package display

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	timerRunStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fdba74")).
			Bold(true)

	timerDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fb923c"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	// Card frame, orange like the frying pan on the lock screen.
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#fb923c")).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fdba74")).
			Bold(true)

	// Mint for step numbers.
	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	// Light zinc for instructions.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Dimmed zinc for hints and metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Coral for alarms and errors.
	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))
)

// Printer writes styled lines. Safe for concurrent use so the ticking
// goroutine and the command goroutine can share one.
type Printer struct {
	mu      sync.Mutex
	out     io.Writer
	partial bool // the last write was an Overwrite with no newline
}

// NewPrinter creates a printer. If out is nil, os.Stdout is used.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Println prints a raw line.
func (p *Printer) Println(a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.partial {
		fmt.Fprintln(p.out)
		p.partial = false
	}
	fmt.Fprintln(p.out, a...)
}

// Printf prints a formatted line.
func (p *Printer) Printf(format string, a ...any) {
	p.Println(fmt.Sprintf(format, a...))
}

// PrintChat prints a conversational line.
func (p *Printer) PrintChat(text string) {
	p.Println(chatStyle.Render("  " + text))
}

// PrintStep prints a header line.
func (p *Printer) PrintStep(text string) {
	p.Println(stepStyle.Render("  " + text))
}

// PrintInstruction prints primary text.
func (p *Printer) PrintInstruction(text string) {
	p.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (p *Printer) PrintHint(text string) {
	p.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an urgent/error line.
func (p *Printer) PrintUrgent(text string) {
	p.Println(urgentOutputStyle.Render("  " + text))
}

// Overwrite redraws the current terminal line.
func (p *Printer) Overwrite(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.out, "\r\033[K"+line)
	p.partial = true
}
