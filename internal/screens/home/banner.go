package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/chapterquiz/internal/ui/theme"
)

const titleFull = `┏━╸╻ ╻┏━┓┏━┓╺┳╸┏━╸┏━┓┏━┓╻ ╻╻╺━┓
┃  ┣━┫┣━┫┣━┛ ┃ ┣╸ ┣┳┛┃┓┃┃ ┃┃┏━┛
┗━╸╹ ╹╹ ╹╹   ╹ ┗━╸╹┗╸┗┻┛┗━┛╹┗━╸`

const titleCompact = "chapterquiz"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	text := titleFull
	if compact {
		text = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(text)
}

// renderStats renders journal totals in a bordered box matching content width.
func renderStats(st stats, cw int) string {
	strong := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	line := fmt.Sprintf("%s %s   %s %s   %s %s",
		strong.Render(fmt.Sprint(st.questions)), dim.Render("questions tried"),
		strong.Render(fmt.Sprint(st.solved)), dim.Render("solved"),
		strong.Render(fmt.Sprint(st.attempts)), dim.Render("attempts"),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Align(lipgloss.Center).
		Render(line)
}
