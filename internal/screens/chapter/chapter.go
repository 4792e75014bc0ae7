package chapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	chap "github.com/abhisek/chapterquiz/internal/chapter"
	"github.com/abhisek/chapterquiz/internal/lessonapi"
	"github.com/abhisek/chapterquiz/internal/lessonpage"
	"github.com/abhisek/chapterquiz/internal/question"
	"github.com/abhisek/chapterquiz/internal/router"
	"github.com/abhisek/chapterquiz/internal/screen"
	"github.com/abhisek/chapterquiz/internal/ui/components"
	"github.com/abhisek/chapterquiz/internal/ui/layout"
)

// PageLoader loads a chapter page from a chapter ID, URL or file.
type PageLoader interface {
	Load(ctx context.Context, source string) (*lessonpage.Page, error)
}

// widget is the input surface of one question.
type widget struct {
	choices components.ChoiceList
	blanks  components.BlankInputs
}

// ChapterScreen implements screen.Screen for one chapter page.
type ChapterScreen struct {
	loader        PageLoader
	grader        lessonapi.Grader
	source        string
	toastDuration time.Duration

	coord   *chap.Coordinator
	widgets []widget
	focus   int // question index; len(widgets) is the submit-all control
	notice  string
	toast   string
	toastID int
	errMsg  string
}

var _ screen.Screen = (*ChapterScreen)(nil)
var _ screen.KeyHintProvider = (*ChapterScreen)(nil)
var _ screen.StatusProvider = (*ChapterScreen)(nil)
var _ screen.EscapeCapturer = (*ChapterScreen)(nil)

// New creates a ChapterScreen that loads source when initialised.
func New(loader PageLoader, grader lessonapi.Grader, source string, toastDuration time.Duration) *ChapterScreen {
	return &ChapterScreen{
		loader:        loader,
		grader:        grader,
		source:        source,
		toastDuration: toastDuration,
	}
}

func (s *ChapterScreen) Init() tea.Cmd {
	loader, source := s.loader, s.source
	return func() tea.Msg {
		page, err := loader.Load(context.Background(), source)
		return pageLoadedMsg{Page: page, Err: err}
	}
}

func (s *ChapterScreen) Title() string {
	if s.coord != nil && s.coord.Page().Title != "" {
		return s.coord.Page().Title
	}
	return "Chapter"
}

// Status reports chapter progress for the header.
func (s *ChapterScreen) Status() string {
	if s.coord == nil {
		return ""
	}
	if s.coord.Page().Completed() {
		return "completed"
	}
	p := s.coord.Evaluate()
	return fmt.Sprintf("%d/%d correct", p.Correct, p.Total)
}

// CapturesEscape keeps Esc on this screen while a notice is open.
func (s *ChapterScreen) CapturesEscape() bool {
	return s.notice != ""
}

func (s *ChapterScreen) KeyHints() []layout.KeyHint {
	if s.notice != "" {
		return []layout.KeyHint{{Key: "Enter/Esc", Description: "Dismiss"}}
	}
	if s.coord == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "Enter", Description: "Submit"},
	}
	if q := s.focused(); q != nil {
		if q.Question().Kind == question.KindChoice {
			hints = append(hints, layout.KeyHint{Key: "Space", Description: "Select"})
		}
		if q.View().HintEnabled {
			hints = append(hints, layout.KeyHint{Key: "Ctrl+T", Description: "Hint"})
		}
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+S", Description: "Submit all"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *ChapterScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		return s.handleLoaded(msg)

	case gradedMsg:
		return s.handleGraded(msg)

	case completedMsg:
		return s.handleCompleted(msg)

	case toastExpiredMsg:
		if msg.Seq == s.toastID {
			s.toast = ""
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Cursor blink and other input plumbing for the focused blank.
	if w := s.focusedWidget(); w != nil {
		return s, w.blanks.Update(msg)
	}
	return s, nil
}

func (s *ChapterScreen) handleLoaded(msg pageLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		var missing *lessonpage.MissingElementError
		if errors.As(msg.Err, &missing) {
			s.errMsg = "This page cannot be used as a quiz: " + missing.Error()
		} else {
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}

	page := chap.NewPage(msg.Page)
	s.coord = chap.NewCoordinator(page, s.grader)
	s.widgets = make([]widget, len(page.Questions))
	for i, c := range page.Questions {
		s.widgets[i] = newWidget(c)
		s.sync(i)
	}
	return s, s.setFocus(0)
}

func newWidget(c *question.Controller) widget {
	q := c.Question()
	v := c.View()
	if q.Kind == question.KindChoice {
		items := make([]components.ChoiceItem, len(q.Options))
		for i, o := range q.Options {
			items[i] = components.ChoiceItem{ID: o.ID, Label: o.Label}
		}
		return widget{choices: components.NewChoiceList(items, v.Selection)}
	}
	return widget{blanks: components.NewBlankInputs(q.BlankCount, v.Blanks)}
}

// sync pushes controller state into the widget of question i.
func (s *ChapterScreen) sync(i int) {
	c := s.coord.Page().Questions[i]
	v := c.View()
	w := &s.widgets[i]

	verdict := components.VerdictNone
	switch v.Status {
	case question.StatusLocked:
		verdict = components.VerdictCorrect
	case question.StatusRetryable:
		verdict = components.VerdictIncorrect
	}

	w.choices.Selected = v.Selection
	w.choices.Disabled = !v.InputsEnabled
	w.choices.Verdict = verdict

	wasDisabled := w.blanks.Disabled
	w.blanks.Disabled = !v.InputsEnabled
	w.blanks.Verdict = verdict
	if w.blanks.Disabled && !wasDisabled {
		w.blanks.Blur()
	}
}

func (s *ChapterScreen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	if s.coord == nil {
		return s, nil
	}
	for i, c := range s.coord.Page().Questions {
		if c.ID() != msg.QuestionID {
			continue
		}
		if c.Apply(msg.Result) {
			s.sync(i)
			if i == s.focus {
				return s, s.setFocus(i)
			}
		}
		break
	}
	return s, nil
}

func (s *ChapterScreen) handleCompleted(msg completedMsg) (screen.Screen, tea.Cmd) {
	out := s.coord.ApplyCompletion(msg.Result, msg.Err)
	if out.Blocking != "" {
		s.notice = out.Blocking
	}
	if out.Toast == "" {
		return s, nil
	}
	s.toast = out.Toast
	s.toastID++
	id := s.toastID
	return s, tea.Tick(s.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{Seq: id}
	})
}

func (s *ChapterScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Load error: any key goes back.
	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.coord == nil {
		return s, nil
	}

	// A blocking notice swallows keys until dismissed.
	if s.notice != "" {
		switch key {
		case "esc", "enter":
			s.notice = ""
		}
		return s, nil
	}

	switch key {
	case "tab":
		return s, s.setFocus((s.focus + 1) % (len(s.widgets) + 1))
	case "shift+tab":
		return s, s.setFocus((s.focus + len(s.widgets)) % (len(s.widgets) + 1))
	case "ctrl+s":
		return s, s.submitAll()
	case "ctrl+t":
		return s, s.revealHint()
	case "enter":
		if s.focus == len(s.widgets) {
			return s, s.submitAll()
		}
		return s, s.submitQuestion(s.focus)
	}

	c := s.focused()
	if c == nil {
		return s, nil
	}
	w := &s.widgets[s.focus]

	if c.Question().Kind == question.KindChoice {
		if w.choices.Update(msg) {
			return s, nil
		}
		switch {
		case key == "space" || key == " ":
			if it, ok := w.choices.Current(); ok {
				s.selectOption(c, it.ID)
			}
		case len(key) == 1 && key[0] >= '1' && key[0] <= '9':
			idx := int(key[0] - '1')
			if idx < len(w.choices.Items) {
				w.choices.Cursor = idx
				s.selectOption(c, w.choices.Items[idx].ID)
			}
		}
		return s, nil
	}

	switch key {
	case "up":
		_, cmd := w.blanks.Move(-1)
		return s, cmd
	case "down":
		_, cmd := w.blanks.Move(1)
		return s, cmd
	}
	if w.blanks.Disabled {
		return s, nil
	}
	cmd := w.blanks.Update(msg)
	current := c.State().Blanks
	for i, v := range w.blanks.Values() {
		if current[i] != v {
			_ = c.SetBlank(i, v)
		}
	}
	return s, cmd
}

func (s *ChapterScreen) selectOption(c *question.Controller, id string) {
	if err := c.Select(id); err != nil {
		return
	}
	s.sync(s.focus)
}

// submitQuestion validates question i and, if it passes, sends it for
// grading off the update loop.
func (s *ChapterScreen) submitQuestion(i int) tea.Cmd {
	c := s.coord.Page().Questions[i]
	ans, err := c.BeginSubmit()
	if err != nil {
		var ve *question.ValidationError
		if errors.As(err, &ve) {
			s.notice = ve.Error()
		}
		return nil
	}
	s.sync(i)

	grader, id := s.grader, c.ID()
	return func() tea.Msg {
		return gradedMsg{QuestionID: id, Result: grader.Submit(context.Background(), id, ans)}
	}
}

func (s *ChapterScreen) submitAll() tea.Cmd {
	d := s.coord.SubmitAll()
	switch d.Kind {
	case chap.DecisionBlocked:
		s.notice = d.Notice
		if d.Focus >= 0 {
			return s.setFocus(d.Focus)
		}
	case chap.DecisionComplete:
		coord := s.coord
		return func() tea.Msg {
			res, err := coord.Complete(context.Background())
			return completedMsg{Result: res, Err: err}
		}
	}
	return nil
}

func (s *ChapterScreen) revealHint() tea.Cmd {
	c := s.focused()
	if c == nil || !c.RequestHint() {
		return nil
	}
	rec, ok := s.grader.(lessonapi.HintRecorder)
	if !ok {
		return nil
	}
	id := c.ID()
	return func() tea.Msg {
		rec.RecordHint(context.Background(), id)
		return nil
	}
}

// setFocus moves focus to index i, blurring the previous widget.
func (s *ChapterScreen) setFocus(i int) tea.Cmd {
	if s.focus < len(s.widgets) {
		s.widgets[s.focus].choices.Focused = false
		s.widgets[s.focus].blanks.Blur()
	}
	s.focus = i
	if i >= len(s.widgets) {
		return nil
	}
	w := &s.widgets[i]
	if s.coord.Page().Questions[i].Question().Kind == question.KindChoice {
		w.choices.Focused = true
		return nil
	}
	return w.blanks.Focus()
}

func (s *ChapterScreen) focused() *question.Controller {
	if s.coord == nil || s.focus >= len(s.widgets) {
		return nil
	}
	return s.coord.Page().Questions[s.focus]
}

func (s *ChapterScreen) focusedWidget() *widget {
	c := s.focused()
	if c == nil || c.Question().Kind != question.KindFillBlank {
		return nil
	}
	return &s.widgets[s.focus]
}
