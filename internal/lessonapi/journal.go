package lessonapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abhisek/chapterquiz/internal/store"
)

// JournalGrader is a decorator that records every grading and completion
// request as an event.
type JournalGrader struct {
	inner     Grader
	eventRepo store.EventRepo
	visitID   string
	warn      io.Writer
}

// JournalOption configures a JournalGrader.
type JournalOption func(*JournalGrader)

// WithWarnings sends journal failure warnings to w instead of stderr.
func WithWarnings(w io.Writer) JournalOption {
	return func(j *JournalGrader) { j.warn = w }
}

// WithJournal wraps a Grader with event journaling. visitID ties the events
// of one run together.
func WithJournal(g Grader, repo store.EventRepo, visitID string, opts ...JournalOption) Grader {
	j := &JournalGrader{inner: g, eventRepo: repo, visitID: visitID, warn: os.Stderr}
	for _, opt := range opts {
		opt(j)
	}
	if j.warn == nil {
		j.warn = io.Discard
	}
	return j
}

func (j *JournalGrader) Submit(ctx context.Context, questionID string, ans Answer) GradingResult {
	start := time.Now()
	res := j.inner.Submit(ctx, questionID, ans)

	data := store.AttemptEventData{
		VisitID:    j.visitID,
		QuestionID: questionID,
		Answer:     ans.Encode(),
		LatencyMs:  time.Since(start).Milliseconds(),
	}
	switch res.Kind {
	case GradeCorrect:
		data.Outcome = store.OutcomeCorrect
	case GradeIncorrect:
		data.Outcome = store.OutcomeIncorrect
	default:
		data.Outcome = store.OutcomeFailed
		data.Failure = FailureKind(res.Err)
		if res.Err != nil {
			data.Message = res.Err.Error()
		}
	}

	// Log the event but don't fail the request if logging fails.
	if err := j.eventRepo.AppendAttempt(context.WithoutCancel(ctx), data); err != nil {
		fmt.Fprintf(j.warn, "warning: failed to journal attempt: %v\n", err)
	}
	return res
}

func (j *JournalGrader) CompleteChapter(ctx context.Context, path string) (CompletionResult, error) {
	start := time.Now()
	res, err := j.inner.CompleteChapter(ctx, path)

	data := store.CompletionEventData{
		VisitID:          j.visitID,
		ChapterPath:      path,
		Success:          err == nil && res.Success,
		AlreadyCompleted: res.AlreadyCompleted,
		ExperienceAdded:  res.ExperienceAdded,
		LevelUp:          res.LevelUp,
		OldLevel:         res.OldLevel,
		NewLevel:         res.NewLevel,
		Message:          res.Message,
		LatencyMs:        time.Since(start).Milliseconds(),
	}
	if err != nil {
		data.Error = err.Error()
	}

	if logErr := j.eventRepo.AppendCompletion(context.WithoutCancel(ctx), data); logErr != nil {
		fmt.Fprintf(j.warn, "warning: failed to journal completion: %v\n", logErr)
	}
	return res, err
}

// HintRecorder is implemented by graders that journal revealed hints.
type HintRecorder interface {
	RecordHint(ctx context.Context, questionID string)
}

var _ HintRecorder = (*JournalGrader)(nil)

// RecordHint journals a revealed hint.
func (j *JournalGrader) RecordHint(ctx context.Context, questionID string) {
	err := j.eventRepo.AppendHint(ctx, store.HintEventData{VisitID: j.visitID, QuestionID: questionID})
	if err != nil {
		fmt.Fprintf(j.warn, "warning: failed to journal hint: %v\n", err)
	}
}

// FailureKind names the class of a grading failure.
func FailureKind(err error) string {
	var (
		gradingErr   *GradingError
		protocolErr  *ProtocolError
		transportErr *TransportError
		timeoutErr   *TimeoutError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &gradingErr):
		return "grading"
	case errors.As(err, &protocolErr):
		return "protocol"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &transportErr):
		return "transport"
	default:
		return "unknown"
	}
}
