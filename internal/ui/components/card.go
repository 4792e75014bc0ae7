package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/chapterquiz/internal/ui/theme"
)

// ContentWidth returns the inner width shared by every question card so
// cards line up regardless of terminal width.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 76 {
		w = 76
	}
	if w < 30 {
		w = 30
	}
	return w
}

// Card wraps content in a rounded border at the given content width. The
// focused card gets the accent border.
func Card(content string, cw int, focused bool) string {
	style := theme.Card
	if focused {
		style = theme.FocusedCard
	}
	return style.Width(cw).Render(content)
}

// Center places block horizontally centered in width.
func Center(block string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}
