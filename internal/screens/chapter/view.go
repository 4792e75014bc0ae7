package chapter

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/chapterquiz/internal/question"
	"github.com/abhisek/chapterquiz/internal/ui/components"
	"github.com/abhisek/chapterquiz/internal/ui/theme"
)

func (s *ChapterScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.coord == nil {
		return renderLoading(width)
	}
	if s.notice != "" {
		return "\n\n" + components.RenderNotice(s.notice, width)
	}

	cw := components.ContentWidth(width)

	var top strings.Builder
	top.WriteString(components.Center(s.renderProgress(cw), width))
	top.WriteString("\n")
	if s.toast != "" {
		top.WriteString(components.RenderToast(s.toast, width))
		top.WriteString("\n")
	}

	blocks := make([]string, 0, len(s.widgets)+1)
	for i := range s.widgets {
		blocks = append(blocks, components.Center(s.renderQuestion(i, cw), width))
	}
	blocks = append(blocks, components.Center(s.renderSubmitAll(), width))

	avail := height - lipgloss.Height(top.String())
	return top.String() + strings.Join(visibleBlocks(blocks, s.focus, avail), "\n")
}

// visibleBlocks drops leading blocks until the focused one fits in height.
func visibleBlocks(blocks []string, focus, height int) []string {
	if focus >= len(blocks) {
		focus = len(blocks) - 1
	}
	start := 0
	for start < focus {
		used := 0
		for _, b := range blocks[start : focus+1] {
			used += lipgloss.Height(b) + 1
		}
		if used <= height {
			break
		}
		start++
	}
	return blocks[start:]
}

func (s *ChapterScreen) renderProgress(cw int) string {
	page := s.coord.Page()
	steps := make([]components.Verdict, len(page.Questions))
	for i, c := range page.Questions {
		switch c.Status() {
		case question.StatusLocked:
			steps[i] = components.VerdictCorrect
		case question.StatusRetryable:
			steps[i] = components.VerdictIncorrect
		}
	}
	bar := components.StepBar{Steps: steps, Completed: page.Completed()}
	return lipgloss.NewStyle().Width(cw).Render(bar.View())
}

func (s *ChapterScreen) renderQuestion(i, cw int) string {
	c := s.coord.Page().Questions[i]
	q := c.Question()
	v := c.View()
	w := &s.widgets[i]
	focused := i == s.focus

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Question %d · %s", i+1, q.TypeLabel())))
	b.WriteString("\n")
	if q.Text != "" {
		b.WriteString(theme.Body.Bold(true).Width(cw - 2).Render(q.Text))
		b.WriteString("\n")
	}
	if q.Code != "" {
		b.WriteString(theme.Code.Render(q.Code))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if q.Kind == question.KindChoice {
		b.WriteString(w.choices.View())
	} else {
		b.WriteString(w.blanks.View())
	}
	b.WriteString("\n\n")

	submit := components.Button{Label: v.SubmitLabel, Enabled: v.SubmitEnabled, Focused: focused}
	line := submit.View()
	if v.HintVisible {
		hint := components.Button{Label: "Hint", Enabled: v.HintEnabled}
		line += "  " + hint.View()
	}
	b.WriteString(line)

	if v.HintText != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Width(cw - 2).Render("Hint: " + v.HintText))
	}
	if fb := renderFeedback(v.Feedback, cw-2); fb != "" {
		b.WriteString("\n\n")
		b.WriteString(fb)
	}

	return components.Card(b.String(), cw, focused)
}

func renderFeedback(fb question.Feedback, width int) string {
	if fb.Headline == "" {
		return ""
	}
	headline := theme.Incorrect
	if fb.Marker == question.MarkerSuccess {
		headline = theme.Correct
	}
	out := headline.Render(fb.Headline)
	for _, l := range fb.Lines() {
		out += "\n" + theme.Body.Width(width).Render(l)
	}
	return out
}

func (s *ChapterScreen) renderSubmitAll() string {
	page := s.coord.Page()
	label := "Submit all answers"
	if page.Completed() {
		label = "Chapter completed"
	}
	btn := components.Button{
		Label:   label,
		Enabled: !page.Completed(),
		Focused: s.focus == len(s.widgets),
	}
	return "\n" + btn.View()
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Loading chapter...")
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  %s\n\n  Press any key to go back.", errMsg))
}
