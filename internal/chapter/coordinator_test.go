package chapter

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/chapterquiz/internal/lessonapi"
	"github.com/abhisek/chapterquiz/internal/lessonpage"
	"github.com/abhisek/chapterquiz/internal/question"
)

type staticToken string

func (s staticToken) Token() (string, bool) { return string(s), s != "" }

// mockCompleter returns canned completion responses and counts calls.
type mockCompleter struct {
	res   lessonapi.CompletionResult
	err   error
	calls int
	path  string
}

func (m *mockCompleter) CompleteChapter(_ context.Context, path string) (lessonapi.CompletionResult, error) {
	m.calls++
	m.path = path
	return m.res, m.err
}

func threeQuestionPage() *Page {
	choice := func(id string) lessonpage.Entry {
		return lessonpage.Entry{Question: question.Question{
			ID: id, Kind: question.KindChoice, Options: []question.Option{{ID: "A"}, {ID: "B"}},
		}}
	}
	return NewPage(&lessonpage.Page{
		ChapterID:    "3",
		CompletePath: "/chapter/3/complete/",
		Questions:    []lessonpage.Entry{choice("1"), choice("2"), choice("3")},
	})
}

func answer(t *testing.T, c *question.Controller, kind lessonapi.GradeKind) {
	t.Helper()
	_ = c.Select("A")
	if _, err := c.BeginSubmit(); err != nil {
		t.Fatalf("begin submit %s: %v", c.ID(), err)
	}
	c.Apply(lessonapi.GradingResult{Kind: kind})
}

func TestEvaluate(t *testing.T) {
	page := threeQuestionPage()
	coord := NewCoordinator(page, &mockCompleter{})

	p := coord.Evaluate()
	if p.Total != 3 || p.Answered != 0 || p.AllAnswered || p.FirstUnanswered != 0 || p.FirstIncorrect != -1 {
		t.Errorf("empty progress = %+v", p)
	}

	answer(t, page.Questions[0], lessonapi.GradeCorrect)
	answer(t, page.Questions[1], lessonapi.GradeIncorrect)
	// Third question is in flight.
	_ = page.Questions[2].Select("B")
	_, _ = page.Questions[2].BeginSubmit()

	p = coord.Evaluate()
	if p.Answered != 2 || p.Correct != 1 {
		t.Errorf("counts = %+v", p)
	}
	if p.AllAnswered {
		t.Error("a submitting question must not count as answered")
	}
	if p.FirstUnanswered != 2 || p.FirstIncorrect != 1 {
		t.Errorf("first unanswered/incorrect = %d/%d", p.FirstUnanswered, p.FirstIncorrect)
	}
}

func TestEvaluate_ResubmissionStaysIncorrect(t *testing.T) {
	page := threeQuestionPage()
	completer := &mockCompleter{}
	coord := NewCoordinator(page, completer)

	answer(t, page.Questions[0], lessonapi.GradeCorrect)
	answer(t, page.Questions[1], lessonapi.GradeIncorrect)
	answer(t, page.Questions[2], lessonapi.GradeCorrect)
	_ = page.Questions[1].Select("B")
	if _, err := page.Questions[1].BeginSubmit(); err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	p := coord.Evaluate()
	if !p.AllAnswered || p.AllCorrect || p.FirstUnanswered != -1 || p.FirstIncorrect != 1 {
		t.Errorf("progress during resubmission = %+v", p)
	}

	d := coord.SubmitAll()
	if d.Kind != DecisionBlocked || d.Notice != NoticeAllCorrect || d.Focus != 1 {
		t.Errorf("submit-all during resubmission = %+v", d)
	}
	if completer.calls != 0 {
		t.Errorf("blocked submit-all sent %d requests", completer.calls)
	}
}

func TestSubmitAll_Decisions(t *testing.T) {
	page := threeQuestionPage()
	completer := &mockCompleter{}
	coord := NewCoordinator(page, completer)

	d := coord.SubmitAll()
	if d.Kind != DecisionBlocked || d.Notice != NoticeAnswerAll || d.Focus != 0 {
		t.Errorf("nothing answered = %+v", d)
	}

	answer(t, page.Questions[0], lessonapi.GradeCorrect)
	answer(t, page.Questions[1], lessonapi.GradeCorrect)
	answer(t, page.Questions[2], lessonapi.GradeIncorrect)
	d = coord.SubmitAll()
	if d.Kind != DecisionBlocked || d.Notice != NoticeAllCorrect || d.Focus != 2 {
		t.Errorf("one incorrect = %+v", d)
	}
	if completer.calls != 0 {
		t.Fatalf("blocked submit-all sent %d requests", completer.calls)
	}

	answer(t, page.Questions[2], lessonapi.GradeCorrect)
	d = coord.SubmitAll()
	if d.Kind != DecisionComplete {
		t.Fatalf("all correct = %+v", d)
	}
	if d = coord.SubmitAll(); d.Kind != DecisionPending {
		t.Errorf("second submit-all while in flight = %+v", d)
	}

	completer.res = lessonapi.CompletionResult{Success: true}
	res, err := coord.Complete(context.Background())
	if completer.path != "/chapter/3/complete/" {
		t.Errorf("completion path = %q", completer.path)
	}
	coord.ApplyCompletion(res, err)
	if d = coord.SubmitAll(); d.Kind != DecisionDisabled {
		t.Errorf("after completion = %+v", d)
	}
}

func TestApplyCompletion(t *testing.T) {
	tests := []struct {
		name          string
		res           lessonapi.CompletionResult
		err           error
		wantToast     string
		wantBlocking  string
		wantCompleted bool
	}{
		{
			name:          "level up",
			res:           lessonapi.CompletionResult{Success: true, ExperienceAdded: 50, LevelUp: true, OldLevel: 2, NewLevel: 3},
			wantToast:     "Chapter complete! +50 XP Level up! 2 → 3",
			wantCompleted: true,
		},
		{
			name:          "level up without old level",
			res:           lessonapi.CompletionResult{Success: true, ExperienceAdded: 10, LevelUp: true, NewLevel: 4},
			wantToast:     "Chapter complete! +10 XP Level up! → 4",
			wantCompleted: true,
		},
		{
			name:          "no experience",
			res:           lessonapi.CompletionResult{Success: true},
			wantToast:     "Chapter complete!",
			wantCompleted: true,
		},
		{
			name:          "already completed",
			res:           lessonapi.CompletionResult{Success: true, AlreadyCompleted: true, ExperienceAdded: 50, LevelUp: true, OldLevel: 1, NewLevel: 2},
			wantToast:     "This chapter is already completed.",
			wantCompleted: true,
		},
		{
			name:         "failure with message",
			res:          lessonapi.CompletionResult{Message: "Session not found"},
			wantBlocking: "Could not update completion: Session not found",
		},
		{
			name:         "failure without message",
			res:          lessonapi.CompletionResult{},
			wantBlocking: "Could not update completion: unknown error",
		},
		{
			name:         "http error",
			err:          &lessonapi.TransportError{StatusCode: 502, Status: "502 Bad Gateway"},
			wantBlocking: "Request failed: server responded 502 Bad Gateway",
		},
		{
			name:         "offline",
			err:          &lessonapi.TransportError{Err: errors.New("connection refused")},
			wantBlocking: "Request failed: check your network connection",
		},
		{
			name:         "timeout",
			err:          &lessonapi.TimeoutError{},
			wantBlocking: "Request failed: the server took too long to respond",
		},
		{
			name:         "malformed",
			err:          &lessonapi.ProtocolError{Err: errors.New("bad")},
			wantBlocking: "Request failed: unknown response format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := threeQuestionPage()
			for _, q := range page.Questions {
				answer(t, q, lessonapi.GradeCorrect)
			}
			coord := NewCoordinator(page, &mockCompleter{})
			coord.SubmitAll()

			out := coord.ApplyCompletion(tt.res, tt.err)
			if out.Toast != tt.wantToast || out.Blocking != tt.wantBlocking || out.Completed != tt.wantCompleted {
				t.Errorf("outcome = %+v", out)
			}
			if page.Completed() != tt.wantCompleted {
				t.Errorf("page completed = %v", page.Completed())
			}
			for _, q := range page.Questions {
				if q.Status() != question.StatusLocked {
					t.Errorf("question %s status changed to %v", q.ID(), q.Status())
				}
			}
		})
	}
}

func TestApplyCompletion_AlreadyCompletedNeverAddsExperience(t *testing.T) {
	page := threeQuestionPage()
	for _, q := range page.Questions {
		answer(t, q, lessonapi.GradeCorrect)
	}
	coord := NewCoordinator(page, &mockCompleter{})

	for i := 0; i < 3; i++ {
		coord.ApplyCompletion(lessonapi.CompletionResult{Success: true, AlreadyCompleted: true, ExperienceAdded: 10}, nil)
	}
	res, ok := coord.Result()
	if !ok {
		t.Fatal("expected a stored result")
	}
	if res.ExperienceAdded != 0 || res.LevelUp {
		t.Errorf("result = %+v, want no experience", res)
	}
}

func TestFailedCompletionCanBeRetried(t *testing.T) {
	page := threeQuestionPage()
	for _, q := range page.Questions {
		answer(t, q, lessonapi.GradeCorrect)
	}
	coord := NewCoordinator(page, &mockCompleter{})

	coord.SubmitAll()
	coord.ApplyCompletion(lessonapi.CompletionResult{}, &lessonapi.TimeoutError{})
	if _, ok := coord.Result(); ok {
		t.Error("failed completion must not store a result")
	}
	if d := coord.SubmitAll(); d.Kind != DecisionComplete {
		t.Errorf("retry decision = %+v", d)
	}
}

func TestNewPage_RestoresPreviousAnswers(t *testing.T) {
	page := NewPage(&lessonpage.Page{
		ChapterID: "3",
		Completed: true,
		Questions: []lessonpage.Entry{{
			Question: question.Question{ID: "1", Kind: question.KindFillBlank, BlankCount: 1},
			Previous: &question.Previous{Correct: true, Blanks: map[int]string{0: "x"}},
		}},
	})
	if !page.Completed() {
		t.Error("completed flag lost")
	}
	if q := page.Question("1"); q == nil || q.Status() != question.StatusLocked {
		t.Errorf("question 1 = %+v", q)
	}
	if page.Question("missing") != nil {
		t.Error("unknown id should return nil")
	}
}
