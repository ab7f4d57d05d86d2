package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/selfmenu/internal/domain"
)

// RenderCard renders both faces of a recipe card side by side: the front
// with name, statistics and ingredients, the back with the steps.
func RenderCard(r *domain.Recipe) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, RenderFront(r), " ", RenderBack(r))
}

// RenderFront renders the card front.
func RenderFront(r *domain.Recipe) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Name))
	b.WriteByte('\n')
	b.WriteString(secondaryStyle.Render(Stats(r)))
	b.WriteString("\n\n")

	if len(r.Ingredients) == 0 {
		b.WriteString(secondaryStyle.Render("no ingredients yet"))
	}
	for i, in := range r.Ingredients {
		if i > 0 {
			b.WriteByte('\n')
		}
		line := "• " + in.Name
		if in.Count != "" {
			line += "  " + in.Count
		}
		b.WriteString(primaryStyle.Render(line))
		if in.Comment != "" {
			b.WriteString(secondaryStyle.Render("  (" + in.Comment + ")"))
		}
	}
	return cardStyle.Render(b.String())
}

// RenderBack renders the card back.
func RenderBack(r *domain.Recipe) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Steps"))
	b.WriteString("\n\n")

	if len(r.Steps) == 0 {
		b.WriteString(secondaryStyle.Render("no steps yet"))
	}
	for i, st := range r.Steps {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(stepStyle.Render(fmt.Sprintf("%d.", i+1)))
		b.WriteString(" ")
		b.WriteString(primaryStyle.Render(st.Instruction))
		if st.HasAlarm() {
			b.WriteString(labelStyle.Render("  ⏲ " + FormatClock(st.Alarm)))
		}
	}
	return cardStyle.Render(b.String())
}

// Stats summarises a recipe's cooking history.
func Stats(r *domain.Recipe) string {
	switch r.TimesCooked {
	case 0:
		return "never cooked"
	case 1:
		return "cooked once · " + FormatClock(r.MeanDuration())
	default:
		return fmt.Sprintf("cooked %d times · avg %s", r.TimesCooked, FormatClock(r.MeanDuration()))
	}
}

// RenderList renders the deck as numbered lines.
func RenderList(recipes []domain.Recipe) string {
	if len(recipes) == 0 {
		return secondaryStyle.Render("  The deck is empty. Run 'selfmenu seed' to add the demo cards.")
	}
	lines := make([]string, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		lines = append(lines,
			stepStyle.Render(fmt.Sprintf("  [%d] ", i+1))+
				primaryStyle.Render(r.Name)+
				secondaryStyle.Render("  "+Stats(r)))
	}
	return strings.Join(lines, "\n")
}
