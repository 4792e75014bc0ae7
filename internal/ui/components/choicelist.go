package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/chapterquiz/internal/ui/theme"
)

var (
	correctMark   = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	incorrectMark = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
)

// ChoiceItem is one selectable option.
type ChoiceItem struct {
	ID    string
	Label string
}

// ChoiceList is a single-choice radio list. It only moves the cursor;
// committing a selection is up to the owning screen.
type ChoiceList struct {
	Items    []ChoiceItem
	Cursor   int
	Selected string // ID of the chosen item, "" when nothing is chosen
	Focused  bool
	Disabled bool
	Verdict  Verdict
}

// NewChoiceList creates a list with the cursor on the selected item, or on
// the first item when nothing is selected.
func NewChoiceList(items []ChoiceItem, selected string) ChoiceList {
	c := ChoiceList{Items: items, Selected: selected}
	for i, it := range items {
		if it.ID == selected {
			c.Cursor = i
		}
	}
	return c
}

// Update handles cursor movement. Returns true when the key was consumed.
func (c *ChoiceList) Update(msg tea.Msg) bool {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || c.Disabled {
		return false
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
		return true
	case "down", "j":
		if c.Cursor < len(c.Items)-1 {
			c.Cursor++
		}
		return true
	}
	return false
}

// Current returns the item under the cursor.
func (c ChoiceList) Current() (ChoiceItem, bool) {
	if c.Cursor < 0 || c.Cursor >= len(c.Items) {
		return ChoiceItem{}, false
	}
	return c.Items[c.Cursor], true
}

// View renders the options with radio markers.
func (c ChoiceList) View() string {
	var b strings.Builder
	for i, it := range c.Items {
		prefix := "  "
		if c.Focused && !c.Disabled && i == c.Cursor {
			prefix = "▸ "
		}
		radio := "( )"
		if it.ID == c.Selected {
			radio = "(•)"
		}
		label := it.Label
		if label == "" {
			label = it.ID
		}
		line := fmt.Sprintf("%s%s %s", prefix, radio, label)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.Disabled:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case c.Focused && i == c.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		if it.ID == c.Selected {
			b.WriteString(c.Verdict.mark())
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
