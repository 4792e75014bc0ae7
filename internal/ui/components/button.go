package components

import (
	"github.com/abhisek/chapterquiz/internal/ui/theme"
)

// Button is a styled, display-only button. Key handling belongs to the
// screen that owns it.
type Button struct {
	Label   string
	Enabled bool
	Focused bool
}

// NewButton creates a new button.
func NewButton(label string, enabled bool) Button {
	return Button{Label: label, Enabled: enabled}
}

// View renders the button.
func (b Button) View() string {
	label := "[ " + b.Label + " ]"
	if b.Enabled && b.Focused {
		return theme.ButtonActive.Render(b.Label)
	}
	if b.Enabled {
		return theme.Body.Padding(0, 2).Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
