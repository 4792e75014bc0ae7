package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit      int       // max results (0 = unlimited)
	After      int64     // sequence > After
	Before     int64     // sequence < Before
	From       time.Time // timestamp >= From
	To         time.Time // timestamp <= To
	QuestionID string    // attempts and hints only
}

// Attempt outcomes as journaled.
const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
	OutcomeFailed    = "failed"
)

// AttemptEventData captures one graded (or failed) answer submission.
type AttemptEventData struct {
	VisitID    string
	QuestionID string
	Answer     string // encoded wire value
	Outcome    string // OutcomeCorrect, OutcomeIncorrect or OutcomeFailed
	Failure    string // failure kind when Outcome is OutcomeFailed
	Message    string
	LatencyMs  int64
}

// AttemptRecord is a journaled attempt.
type AttemptRecord struct {
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// CompletionEventData captures one chapter completion request.
type CompletionEventData struct {
	VisitID          string
	ChapterPath      string
	Success          bool
	AlreadyCompleted bool
	ExperienceAdded  int
	LevelUp          bool
	OldLevel         int
	NewLevel         int
	Message          string
	Error            string
	LatencyMs        int64
}

// CompletionRecord is a journaled completion request.
type CompletionRecord struct {
	Sequence  int64
	Timestamp time.Time
	CompletionEventData
}

// HintEventData captures a hint being revealed.
type HintEventData struct {
	VisitID    string
	QuestionID string
}

// QuestionSummary aggregates the attempts made on one question.
type QuestionSummary struct {
	QuestionID  string
	Attempts    int
	Correct     int
	Incorrect   int
	Failed      int
	HintsShown  int
	LastOutcome string
	LastAt      time.Time
}

// Solved reports whether any attempt on the question was graded correct.
func (q QuestionSummary) Solved() bool {
	return q.Correct > 0
}

// EventRepo provides append and query access to the answer journal.
type EventRepo interface {
	// AppendAttempt records a submission and its outcome.
	AppendAttempt(ctx context.Context, data AttemptEventData) error

	// AppendCompletion records a chapter completion request.
	AppendCompletion(ctx context.Context, data CompletionEventData) error

	// AppendHint records a revealed hint.
	AppendHint(ctx context.Context, data HintEventData) error

	// QueryAttempts returns attempts newest first.
	QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error)

	// QueryCompletions returns completion requests newest first.
	QueryCompletions(ctx context.Context, opts QueryOpts) ([]CompletionRecord, error)

	// QuestionSummaries aggregates attempts and hints per question,
	// ordered by question ID.
	QuestionSummaries(ctx context.Context) ([]QuestionSummary, error)

	// Reset deletes all journaled events.
	Reset(ctx context.Context) error
}
