package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/chapterquiz/internal/ui/theme"
)

// StepBar renders the chapter progress indicators: one step per question,
// all filled once the chapter is completed.
type StepBar struct {
	Steps     []Verdict
	Completed bool
}

// View renders the step bar with an "n/m correct" suffix.
func (p StepBar) View() string {
	var b strings.Builder
	correct := 0
	for i, v := range p.Steps {
		if i > 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("─"))
		}
		var style lipgloss.Style
		switch {
		case p.Completed:
			style = theme.ProgressFilled
		case v == VerdictCorrect:
			style = lipgloss.NewStyle().Background(theme.Success)
		case v == VerdictIncorrect:
			style = lipgloss.NewStyle().Background(theme.Error)
		default:
			style = theme.ProgressEmpty
		}
		if v == VerdictCorrect {
			correct++
		}
		b.WriteString(style.Render(fmt.Sprintf(" %d ", i+1)))
	}

	suffix := fmt.Sprintf("  %d/%d correct", correct, len(p.Steps))
	if p.Completed {
		suffix = "  completed"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix))
	return b.String()
}
