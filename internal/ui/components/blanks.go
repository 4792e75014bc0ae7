package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/chapterquiz/internal/ui/theme"
)

// BlankInputs wraps one bubbles/textinput per blank of a fill-in question.
type BlankInputs struct {
	inputs   []textinput.Model
	cursor   int
	focused  bool
	Disabled bool
	Verdict  Verdict
}

// NewBlankInputs creates n inputs prefilled from values.
func NewBlankInputs(n int, values []string) BlankInputs {
	b := BlankInputs{inputs: make([]textinput.Model, n)}
	for i := range b.inputs {
		ti := textinput.New()
		ti.Placeholder = fmt.Sprintf("blank %d", i+1)
		ti.Prompt = ""
		ti.CharLimit = 200
		ti.SetWidth(30)
		if i < len(values) {
			ti.SetValue(values[i])
		}
		b.inputs[i] = ti
	}
	return b
}

// Len returns the number of blanks.
func (b *BlankInputs) Len() int {
	return len(b.inputs)
}

// Cursor returns the index of the blank that receives typing.
func (b *BlankInputs) Cursor() int {
	return b.cursor
}

// Focus gives keyboard focus to the current blank.
func (b *BlankInputs) Focus() tea.Cmd {
	b.focused = true
	if b.Disabled || len(b.inputs) == 0 {
		return nil
	}
	return b.inputs[b.cursor].Focus()
}

// Blur removes keyboard focus from every blank.
func (b *BlankInputs) Blur() {
	b.focused = false
	for i := range b.inputs {
		b.inputs[i].Blur()
	}
}

// Move shifts the cursor by delta. It returns false, leaving the cursor
// alone, when that would leave the range.
func (b *BlankInputs) Move(delta int) (bool, tea.Cmd) {
	next := b.cursor + delta
	if next < 0 || next >= len(b.inputs) {
		return false, nil
	}
	b.inputs[b.cursor].Blur()
	b.cursor = next
	if !b.focused || b.Disabled {
		return true, nil
	}
	return true, b.inputs[b.cursor].Focus()
}

// Update forwards msg to the current blank.
func (b *BlankInputs) Update(msg tea.Msg) tea.Cmd {
	if b.Disabled || !b.focused || len(b.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	b.inputs[b.cursor], cmd = b.inputs[b.cursor].Update(msg)
	return cmd
}

// SetValue overwrites blank i.
func (b *BlankInputs) SetValue(i int, v string) {
	if i >= 0 && i < len(b.inputs) {
		b.inputs[i].SetValue(v)
	}
}

// Values returns the raw text of every blank in order.
func (b *BlankInputs) Values() []string {
	out := make([]string, len(b.inputs))
	for i, in := range b.inputs {
		out[i] = in.Value()
	}
	return out
}

// View renders one numbered line per blank.
func (b *BlankInputs) View() string {
	lines := make([]string, 0, len(b.inputs))
	for i, in := range b.inputs {
		num := fmt.Sprintf("%d.", i+1)
		numStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
		if b.focused && !b.Disabled && i == b.cursor {
			numStyle = theme.Selected
		}

		var field string
		if b.Disabled {
			v := in.Value()
			if v == "" {
				v = "—"
			}
			field = lipgloss.NewStyle().Foreground(theme.TextDim).Render(v)
		} else {
			field = in.View()
		}
		lines = append(lines, "  "+numStyle.Render(num)+" "+field+b.Verdict.mark())
	}
	return strings.Join(lines, "\n")
}
