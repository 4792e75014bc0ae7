package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/chapterquiz/internal/ui/theme"
)

// RenderNotice renders a blocking notice box that must be acknowledged.
func RenderNotice(text string, width int) string {
	body := lipgloss.NewStyle().
		Width(min(width-12, 60)).
		Align(lipgloss.Center).
		Render(text)
	dismiss := theme.Hint.Render("Enter or Esc to dismiss")
	box := theme.Notice.Render(body + "\n\n" + lipgloss.PlaceHorizontal(lipgloss.Width(body), lipgloss.Center, dismiss))
	return Center(box, width)
}

// RenderToast renders a transient one-line toast.
func RenderToast(text string, width int) string {
	return Center(theme.Toast.Render(text), width)
}
