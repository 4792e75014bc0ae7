package lessonapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/abhisek/chapterquiz/internal/store"
)

// mockEventRepo captures appended events.
type mockEventRepo struct {
	store.EventRepo
	attempts    []store.AttemptEventData
	completions []store.CompletionEventData
	hints       []store.HintEventData
	err         error
}

func (m *mockEventRepo) AppendAttempt(_ context.Context, d store.AttemptEventData) error {
	m.attempts = append(m.attempts, d)
	return m.err
}

func (m *mockEventRepo) AppendCompletion(_ context.Context, d store.CompletionEventData) error {
	m.completions = append(m.completions, d)
	return m.err
}

func (m *mockEventRepo) AppendHint(_ context.Context, d store.HintEventData) error {
	m.hints = append(m.hints, d)
	return m.err
}

// stubGrader returns canned results.
type stubGrader struct {
	grade      GradingResult
	completion CompletionResult
	err        error
}

func (s *stubGrader) Submit(context.Context, string, Answer) GradingResult { return s.grade }

func (s *stubGrader) CompleteChapter(context.Context, string) (CompletionResult, error) {
	return s.completion, s.err
}

func TestJournal_Attempts(t *testing.T) {
	tests := []struct {
		name        string
		grade       GradingResult
		wantOutcome string
		wantFailure string
	}{
		{"correct", GradingResult{Kind: GradeCorrect}, store.OutcomeCorrect, ""},
		{"incorrect", GradingResult{Kind: GradeIncorrect}, store.OutcomeIncorrect, ""},
		{"timeout", Failed(&TimeoutError{}), store.OutcomeFailed, "timeout"},
		{"server message", Failed(&GradingError{Message: "closed"}), store.OutcomeFailed, "grading"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockEventRepo{}
			g := WithJournal(&stubGrader{grade: tt.grade}, repo, "visit-1")

			res := g.Submit(context.Background(), "42", FillAnswer(map[int]string{0: "x"}))
			if res.Kind != tt.grade.Kind {
				t.Fatalf("result kind changed: %v", res.Kind)
			}
			if len(repo.attempts) != 1 {
				t.Fatalf("attempts = %d, want 1", len(repo.attempts))
			}
			got := repo.attempts[0]
			if got.VisitID != "visit-1" || got.QuestionID != "42" || got.Answer != `{"0":"x"}` {
				t.Errorf("event = %+v", got)
			}
			if got.Outcome != tt.wantOutcome || got.Failure != tt.wantFailure {
				t.Errorf("outcome = %q/%q, want %q/%q", got.Outcome, got.Failure, tt.wantOutcome, tt.wantFailure)
			}
		})
	}
}

func TestJournal_Completion(t *testing.T) {
	repo := &mockEventRepo{}
	inner := &stubGrader{completion: CompletionResult{Success: true, ExperienceAdded: 50, LevelUp: true, OldLevel: 2, NewLevel: 3}}
	g := WithJournal(inner, repo, "v")

	res, err := g.CompleteChapter(context.Background(), "/chapter/3/complete/")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.ExperienceAdded != 50 {
		t.Errorf("result changed: %+v", res)
	}
	if len(repo.completions) != 1 {
		t.Fatalf("completions = %d", len(repo.completions))
	}
	c := repo.completions[0]
	if !c.Success || c.ChapterPath != "/chapter/3/complete/" || c.NewLevel != 3 {
		t.Errorf("event = %+v", c)
	}

	inner.err = &TransportError{StatusCode: 502, Status: "502 Bad Gateway"}
	inner.completion = CompletionResult{}
	if _, err := g.CompleteChapter(context.Background(), "/x/"); err == nil {
		t.Fatal("expected error to pass through")
	}
	if c := repo.completions[1]; c.Success || !strings.Contains(c.Error, "502") {
		t.Errorf("failed event = %+v", c)
	}
}

func TestWithJournal_WarningsWriter(t *testing.T) {
	repo := &mockEventRepo{err: errors.New("disk full")}
	var warn bytes.Buffer
	g := WithJournal(&stubGrader{grade: GradingResult{Kind: GradeIncorrect}}, repo, "v", WithWarnings(&warn))

	if res := g.Submit(context.Background(), "1", ChoiceAnswer("A")); res.Kind != GradeIncorrect {
		t.Fatalf("result = %v", res.Kind)
	}
	if !strings.Contains(warn.String(), "failed to journal attempt: disk full") {
		t.Errorf("warning output = %q", warn.String())
	}

	quiet := WithJournal(&stubGrader{}, repo, "v", WithWarnings(nil)).(*JournalGrader)
	if quiet.warn != io.Discard {
		t.Error("nil warnings writer should discard")
	}
}

func TestJournal_WarnsOnStoreFailure(t *testing.T) {
	repo := &mockEventRepo{err: errors.New("disk full")}
	var warn bytes.Buffer
	g := &JournalGrader{inner: &stubGrader{grade: GradingResult{Kind: GradeCorrect}}, eventRepo: repo, visitID: "v", warn: &warn}

	res := g.Submit(context.Background(), "1", ChoiceAnswer("A"))
	if res.Kind != GradeCorrect {
		t.Fatalf("journal failure must not change the result, got %v", res.Kind)
	}
	g.RecordHint(context.Background(), "1")

	out := warn.String()
	if !strings.Contains(out, "warning: failed to journal attempt: disk full") {
		t.Errorf("warning output = %q", out)
	}
	if !strings.Contains(out, "failed to journal hint") {
		t.Errorf("warning output = %q", out)
	}
	if len(repo.hints) != 1 || repo.hints[0].QuestionID != "1" {
		t.Errorf("hints = %+v", repo.hints)
	}
}
