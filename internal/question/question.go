// Package question holds the per-question answer state machine.
package question

import (
	"errors"
	"fmt"
)

// Kind is the answer format of a question.
type Kind int

const (
	KindChoice Kind = iota
	KindFillBlank
)

func (k Kind) String() string {
	switch k {
	case KindChoice:
		return "choice"
	case KindFillBlank:
		return "fill"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Option is one selectable answer of a choice question.
type Option struct {
	ID    string
	Label string
}

// Question is the immutable description of one quiz question.
type Question struct {
	ID         string
	Kind       Kind
	Text       string
	Code       string
	Options    []Option // KindChoice only
	BlankCount int      // KindFillBlank only
	Hint       string   // pre-rendered hint content, may be empty
	HasHint    bool     // the page offers a hint control
}

// TypeLabel returns a human-readable question type.
func (q Question) TypeLabel() string {
	switch {
	case q.Kind == KindChoice:
		return "Single choice"
	case q.BlankCount > 1:
		return "Multiple blanks"
	default:
		return "Fill in the blank"
	}
}

// Validate checks the structural invariants of q.
func (q Question) Validate() error {
	if q.ID == "" {
		return errors.New("question has no ID")
	}
	switch q.Kind {
	case KindChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("question %s: choice question has no options", q.ID)
		}
		seen := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if o.ID == "" {
				return fmt.Errorf("question %s: option with empty ID", q.ID)
			}
			if seen[o.ID] {
				return fmt.Errorf("question %s: duplicate option %q", q.ID, o.ID)
			}
			seen[o.ID] = true
		}
	case KindFillBlank:
		if q.BlankCount < 1 {
			return fmt.Errorf("question %s: fill-in question has no blanks", q.ID)
		}
	default:
		return fmt.Errorf("question %s: unknown kind %v", q.ID, q.Kind)
	}
	return nil
}

func (q Question) hasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Status is the lifecycle state of an answer.
type Status int

const (
	StatusUnanswered Status = iota
	StatusSubmitting
	StatusLocked    // graded correct; terminal
	StatusRetryable // graded incorrect or failed
)

func (s Status) String() string {
	switch s {
	case StatusUnanswered:
		return "unanswered"
	case StatusSubmitting:
		return "submitting"
	case StatusLocked:
		return "locked"
	case StatusRetryable:
		return "retryable"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Answered reports whether the question has a graded outcome.
func (s Status) Answered() bool {
	return s == StatusLocked || s == StatusRetryable
}

// Correct reports whether the question was graded correct.
func (s Status) Correct() bool {
	return s == StatusLocked
}

// AnswerState is the learner's current answer and its status.
type AnswerState struct {
	Selection string
	Blanks    map[int]string
	Status    Status
}

// Previous is an earlier result rendered into the page.
type Previous struct {
	Correct   bool
	Selection string
	Blanks    map[int]string
}
