package home

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/chapterquiz/internal/router"
	"github.com/abhisek/chapterquiz/internal/screen"
	"github.com/abhisek/chapterquiz/internal/screens/history"
	"github.com/abhisek/chapterquiz/internal/store"
	"github.com/abhisek/chapterquiz/internal/ui/components"
	"github.com/abhisek/chapterquiz/internal/ui/layout"
	"github.com/abhisek/chapterquiz/internal/ui/theme"
)

// OpenFunc builds the screen for a chapter source.
type OpenFunc func(source string) screen.Screen

type stats struct {
	questions int
	solved    int
	attempts  int
}

type statsLoadedMsg struct {
	stats stats
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu      components.Menu
	prompt    textinput.Model
	prompting bool
	open      OpenFunc
	eventRepo store.EventRepo
	stats     stats
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.EscapeCapturer = (*HomeScreen)(nil)

// New creates a new HomeScreen. lastSource, when set, is offered as the
// first menu item. eventRepo may be nil when no journal is open.
func New(open OpenFunc, eventRepo store.EventRepo, lastSource string) *HomeScreen {
	h := &HomeScreen{open: open, eventRepo: eventRepo}

	h.prompt = textinput.New()
	h.prompt.Placeholder = "chapter ID, URL, .html or .yaml file"
	h.prompt.CharLimit = 512
	h.prompt.SetWidth(40)

	var items []components.MenuItem
	if lastSource != "" {
		items = append(items, components.MenuItem{
			Label:       "Continue chapter",
			Description: lastSource,
			Action:      func() tea.Cmd { return h.openCmd(lastSource) },
		})
	}
	items = append(items,
		components.MenuItem{Label: "Open chapter", Action: func() tea.Cmd {
			h.prompting = true
			return h.prompt.Focus()
		}},
		components.MenuItem{Label: "History", Disabled: eventRepo == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(eventRepo)}
			}
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) openCmd(source string) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: h.open(source)}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.eventRepo == nil {
		return nil
	}
	repo := h.eventRepo
	return func() tea.Msg {
		summaries, err := repo.QuestionSummaries(context.Background())
		if err != nil {
			return statsLoadedMsg{}
		}
		var st stats
		for _, s := range summaries {
			st.questions++
			st.attempts += s.Attempts
			if s.Solved() {
				st.solved++
			}
		}
		return statsLoadedMsg{stats: st}
	}
}

// CapturesEscape keeps Esc on the home screen while the prompt is open.
func (h *HomeScreen) CapturesEscape() bool {
	return h.prompting
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.prompting {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Open"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsLoadedMsg); ok {
		h.stats = m.stats
		return h, nil
	}

	if !h.prompting {
		var cmd tea.Cmd
		h.menu, cmd = h.menu.Update(msg)
		return h, cmd
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			h.prompting = false
			h.prompt.Blur()
			return h, nil
		case "enter":
			source := strings.TrimSpace(h.prompt.Value())
			if source == "" {
				return h, nil
			}
			h.prompting = false
			h.prompt.Blur()
			h.prompt.Reset()
			return h, h.openCmd(source)
		}
	}

	var cmd tea.Cmd
	h.prompt, cmd = h.prompt.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := height < 16 || layout.IsCompactWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStats(h.stats, cw),
		h.menu.View(),
	}
	if h.prompting {
		sections = append(sections, theme.Body.Render("Chapter: ")+h.prompt.View())
	}

	content := strings.Join(sections, "\n\n")
	return "\n" + components.Center(content, width)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
