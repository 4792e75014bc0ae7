package chapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/abhisek/chapterquiz/internal/lessonapi"
	"github.com/abhisek/chapterquiz/internal/lessonapi/lessonapitest"
	"github.com/abhisek/chapterquiz/internal/lessonpage"
	"github.com/abhisek/chapterquiz/internal/question"
)

const featureChapter = "3"

// TestChapterFeatures executes the chapter scenarios via godog.
func TestChapterFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "chapter",
		ScenarioInitializer: InitializeChapterScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{"features"},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeChapterScenario wires step definitions for the chapter scenarios.
func InitializeChapterScenario(ctx *godog.ScenarioContext) {
	state := &chapterState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, state.reset()
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		state.close()
		return ctx, nil
	})

	ctx.Step(`^a chapter with a choice question "([^"]+)" with options "([^"]+)"$`, state.givenChoiceQuestion)
	ctx.Step(`^a chapter with a fill question "([^"]+)" with (\d+) blanks$`, state.givenFillQuestion)
	ctx.Step(`^the server grades question "([^"]+)" with:$`, state.givenGrade)
	ctx.Step(`^the server responds to question "([^"]+)" with status (\d+)$`, state.givenGradeStatus)
	ctx.Step(`^the server completes the chapter with:$`, state.givenCompletion)
	ctx.Step(`^question "([^"]+)" has been answered correctly$`, state.givenAnsweredCorrectly)
	ctx.Step(`^I select option "([^"]+)" for question "([^"]+)"$`, state.selectOption)
	ctx.Step(`^I fill blank (\d+) of question "([^"]+)" with "([^"]*)"$`, state.fillBlank)
	ctx.Step(`^I submit question "([^"]+)"$`, state.submitQuestion)
	ctx.Step(`^I submit all answers$`, state.submitAll)
	ctx.Step(`^the server received answer "([^"]+)" for question "([^"]+)"$`, state.serverReceivedAnswer)
	ctx.Step(`^question "([^"]+)" is (unanswered|retryable|locked)$`, state.questionStatusIs)
	ctx.Step(`^the feedback for question "([^"]+)" mentions "([^"]+)"$`, state.feedbackMentions)
	ctx.Step(`^the submit control for question "([^"]+)" is enabled with label "([^"]+)"$`, state.submitEnabledWithLabel)
	ctx.Step(`^I am told "([^"]+)"$`, state.toldNotice)
	ctx.Step(`^no request was sent$`, state.noRequestSent)
	ctx.Step(`^(\d+) requests? (?:was|were) sent$`, state.requestsSent)
	ctx.Step(`^focus moves to question "([^"]+)"$`, state.focusMovesTo)
	ctx.Step(`^the toast mentions "([^"]+)"$`, state.toastMentions)
	ctx.Step(`^the toast does not mention "([^"]+)"$`, state.toastDoesNotMention)
	ctx.Step(`^the progress indicators are completed$`, state.progressCompleted)
	ctx.Step(`^submit all is (enabled|disabled)$`, state.submitAllState)
}

// chapterState holds scenario state.
type chapterState struct {
	server    *lessonapitest.Server
	client    *lessonapi.Client
	questions []lessonpage.Entry
	coord     *Coordinator
	notice    string
	decision  Decision
	outcome   Outcome
}

func (s *chapterState) reset() error {
	s.close()
	s.server = lessonapitest.New()
	c, err := lessonapi.NewClient(s.server.URL, staticToken(lessonapitest.CSRFToken))
	if err != nil {
		return err
	}
	s.client = c
	s.questions = nil
	s.coord = nil
	s.notice = ""
	s.decision = Decision{}
	s.outcome = Outcome{}
	return nil
}

func (s *chapterState) close() {
	if s.server != nil {
		s.server.Close()
		s.server = nil
	}
}

// coordinator builds the page lazily so every question step runs first.
func (s *chapterState) coordinator() *Coordinator {
	if s.coord == nil {
		page := NewPage(&lessonpage.Page{
			ChapterID:     featureChapter,
			CompletePath:  lessonapi.CompletionPath(featureChapter),
			ProgressSteps: 3,
			Questions:     s.questions,
		})
		s.coord = NewCoordinator(page, s.client)
	}
	return s.coord
}

func (s *chapterState) controller(id string) (*question.Controller, error) {
	c := s.coordinator().Page().Question(id)
	if c == nil {
		return nil, fmt.Errorf("no question %q on the page", id)
	}
	return c, nil
}

func (s *chapterState) givenChoiceQuestion(id, options string) error {
	q := question.Question{ID: id, Kind: question.KindChoice}
	for _, o := range strings.Split(options, ",") {
		q.Options = append(q.Options, question.Option{ID: o, Label: o})
	}
	s.questions = append(s.questions, lessonpage.Entry{Question: q})
	return nil
}

func (s *chapterState) givenFillQuestion(id string, blanks int) error {
	q := question.Question{ID: id, Kind: question.KindFillBlank, BlankCount: blanks}
	s.questions = append(s.questions, lessonpage.Entry{Question: q})
	return nil
}

func (s *chapterState) givenGrade(id string, body *godog.DocString) error {
	s.server.Grade(id, http.StatusOK, body.Content)
	return nil
}

func (s *chapterState) givenGradeStatus(id string, status int) error {
	s.server.Grade(id, status, `{"error": "boom"}`)
	return nil
}

func (s *chapterState) givenCompletion(body *godog.DocString) error {
	s.server.Complete(featureChapter, http.StatusOK, body.Content)
	return nil
}

func (s *chapterState) givenAnsweredCorrectly(id string) error {
	c, err := s.controller(id)
	if err != nil {
		return err
	}
	if _, err := c.BeginSubmit(); err != nil {
		var ve *question.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		// Fill in whatever is needed to pass local validation.
		q := c.Question()
		if q.Kind == question.KindChoice {
			_ = c.Select(q.Options[0].ID)
		} else {
			for i := 0; i < q.BlankCount; i++ {
				_ = c.SetBlank(i, "x")
			}
		}
		if _, err := c.BeginSubmit(); err != nil {
			return err
		}
	}
	c.Apply(lessonapi.GradingResult{Kind: lessonapi.GradeCorrect})
	return nil
}

func (s *chapterState) selectOption(option, id string) error {
	c, err := s.controller(id)
	if err != nil {
		return err
	}
	return c.Select(option)
}

func (s *chapterState) fillBlank(pos int, id, value string) error {
	c, err := s.controller(id)
	if err != nil {
		return err
	}
	return c.SetBlank(pos-1, value)
}

func (s *chapterState) submitQuestion(id string) error {
	c, err := s.controller(id)
	if err != nil {
		return err
	}
	ans, err := c.BeginSubmit()
	if err != nil {
		var ve *question.ValidationError
		if errors.As(err, &ve) || errors.Is(err, question.ErrLocked) {
			s.notice = err.Error()
			return nil
		}
		return err
	}
	c.Apply(s.client.Submit(context.Background(), id, ans))
	return nil
}

func (s *chapterState) submitAll() error {
	coord := s.coordinator()
	s.decision = coord.SubmitAll()
	switch s.decision.Kind {
	case DecisionBlocked:
		s.notice = s.decision.Notice
	case DecisionComplete:
		s.outcome = coord.ApplyCompletion(coord.Complete(context.Background()))
		s.notice = s.outcome.Blocking
	}
	return nil
}

func (s *chapterState) serverReceivedAnswer(answer, id string) error {
	for _, r := range s.server.Requests() {
		if r.Path == lessonapi.SubmitPath(id) && r.Answer == answer {
			return nil
		}
	}
	return fmt.Errorf("no request for question %s with answer %q in %+v", id, answer, s.server.Requests())
}

func (s *chapterState) questionStatusIs(id, status string) error {
	c, err := s.controller(id)
	if err != nil {
		return err
	}
	if got := c.Status().String(); got != status {
		return fmt.Errorf("question %s is %s, want %s", id, got, status)
	}
	return nil
}

func (s *chapterState) feedbackMentions(id, text string) error {
	c, err := s.controller(id)
	if err != nil {
		return err
	}
	fb := c.Feedback()
	all := fb.Headline + "\n" + strings.Join(fb.Lines(), "\n")
	if !strings.Contains(all, text) {
		return fmt.Errorf("feedback %q does not mention %q", all, text)
	}
	return nil
}

func (s *chapterState) submitEnabledWithLabel(id, label string) error {
	c, err := s.controller(id)
	if err != nil {
		return err
	}
	v := c.View()
	if !v.SubmitEnabled || v.SubmitLabel != label {
		return fmt.Errorf("submit control enabled=%v label=%q", v.SubmitEnabled, v.SubmitLabel)
	}
	return nil
}

func (s *chapterState) toldNotice(text string) error {
	if s.notice != text {
		return fmt.Errorf("notice = %q, want %q", s.notice, text)
	}
	return nil
}

func (s *chapterState) noRequestSent() error {
	return s.requestsSent(0)
}

func (s *chapterState) requestsSent(n int) error {
	if got := len(s.server.Requests()); got != n {
		return fmt.Errorf("%d requests sent, want %d", got, n)
	}
	return nil
}

func (s *chapterState) focusMovesTo(id string) error {
	qs := s.coordinator().Page().Questions
	if s.decision.Focus < 0 || s.decision.Focus >= len(qs) {
		return fmt.Errorf("focus = %d", s.decision.Focus)
	}
	if got := qs[s.decision.Focus].ID(); got != id {
		return fmt.Errorf("focus on question %s, want %s", got, id)
	}
	return nil
}

func (s *chapterState) toastMentions(text string) error {
	if !strings.Contains(s.outcome.Toast, text) {
		return fmt.Errorf("toast %q does not mention %q", s.outcome.Toast, text)
	}
	return nil
}

func (s *chapterState) toastDoesNotMention(text string) error {
	if strings.Contains(s.outcome.Toast, text) {
		return fmt.Errorf("toast %q mentions %q", s.outcome.Toast, text)
	}
	return nil
}

func (s *chapterState) progressCompleted() error {
	if !s.coordinator().Page().Completed() {
		return errors.New("progress indicators not completed")
	}
	return nil
}

func (s *chapterState) submitAllState(state string) error {
	d := s.coordinator().SubmitAll()
	disabled := d.Kind == DecisionDisabled
	if (state == "disabled") != disabled {
		return fmt.Errorf("submit all decision = %+v, want %s", d, state)
	}
	return nil
}
