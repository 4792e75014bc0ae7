package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/chapterquiz/internal/router"
	"github.com/abhisek/chapterquiz/internal/screen"
	"github.com/abhisek/chapterquiz/internal/store"
	"github.com/abhisek/chapterquiz/internal/ui/layout"
	"github.com/abhisek/chapterquiz/internal/ui/theme"
)

const recentAttempts = 200

type historyLoadedMsg struct {
	Summaries   []store.QuestionSummary
	Attempts    map[string][]store.AttemptRecord // questionID → attempts, newest first
	Completions []store.CompletionRecord
	Err         error
}

// HistoryScreen displays journaled attempts per question and completions.
type HistoryScreen struct {
	eventRepo   store.EventRepo
	summaries   []store.QuestionSummary
	attempts    map[string][]store.AttemptRecord
	completions []store.CompletionRecord
	selected    int
	expanded    map[int]bool
	loaded      bool
	errMsg      string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		summaries, err := s.eventRepo.QuestionSummaries(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		completions, err := s.eventRepo.QueryCompletions(ctx, store.QueryOpts{Limit: 10})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Attempt details are optional; the summary list still works without them.
		byQuestion := make(map[string][]store.AttemptRecord)
		all, err := s.eventRepo.QueryAttempts(ctx, store.QueryOpts{Limit: recentAttempts})
		if err == nil {
			for _, a := range all {
				byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
			}
		}

		return historyLoadedMsg{Summaries: summaries, Attempts: byQuestion, Completions: completions}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Attempts"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.summaries = msg.Summaries
			s.attempts = msg.Attempts
			s.completions = msg.Completions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.summaries)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.summaries) == 0 && len(s.completions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing answered yet. Open a chapter to start.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Render("  Questions"))
	b.WriteString("\n")

	for i, q := range s.summaries {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s#%-6s %2d attempts  %2d correct  %2d incorrect  %2d failed  %d hints  last %s",
			prefix, q.QuestionID, q.Attempts, q.Correct, q.Incorrect, q.Failed, q.HintsShown,
			q.LastAt.Format("Jan 02 15:04"))

		style := lipgloss.NewStyle().Foreground(outcomeColor(q.LastOutcome))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAttempts(q.QuestionID))
		}
	}

	if len(s.completions) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Title.Render("  Chapter completions"))
		b.WriteString("\n")
		for _, c := range s.completions {
			b.WriteString(renderCompletion(c))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAttempts(questionID string) string {
	attempts := s.attempts[questionID]
	if len(attempts) == 0 {
		return theme.Hint.Render("      No attempt details") + "\n"
	}
	var b strings.Builder
	for _, a := range attempts {
		detail := a.Outcome
		if a.Failure != "" {
			detail += " (" + a.Failure + ")"
		}
		line := fmt.Sprintf("      %s  %-24s %s  %dms",
			a.Timestamp.Format("15:04:05"), a.Answer, detail, a.LatencyMs)
		b.WriteString(lipgloss.NewStyle().Foreground(outcomeColor(a.Outcome)).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCompletion(c store.CompletionRecord) string {
	var status string
	switch {
	case c.Error != "":
		status = "failed: " + c.Error
	case !c.Success:
		status = "rejected: " + c.Message
	case c.AlreadyCompleted:
		status = "already completed"
	default:
		status = fmt.Sprintf("+%d XP", c.ExperienceAdded)
		switch {
		case c.LevelUp && c.OldLevel > 0:
			status += fmt.Sprintf("  level %d → %d", c.OldLevel, c.NewLevel)
		case c.LevelUp:
			status += fmt.Sprintf("  level → %d", c.NewLevel)
		}
	}
	line := fmt.Sprintf("  %s  %s  %s", c.Timestamp.Format("Jan 02 15:04"), c.ChapterPath, status)

	col := theme.Success
	if c.Error != "" || !c.Success {
		col = theme.Error
	}
	return lipgloss.NewStyle().Foreground(col).Render(line)
}

func outcomeColor(outcome string) color.Color {
	switch outcome {
	case store.OutcomeCorrect:
		return theme.Success
	case store.OutcomeIncorrect:
		return theme.Accent
	case store.OutcomeFailed:
		return theme.Error
	default:
		return theme.Text
	}
}
