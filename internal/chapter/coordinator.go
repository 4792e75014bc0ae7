package chapter

import (
	"context"

	"github.com/abhisek/chapterquiz/internal/lessonapi"
	"github.com/abhisek/chapterquiz/internal/question"
)

// Completer issues chapter completion requests.
type Completer interface {
	CompleteChapter(ctx context.Context, path string) (lessonapi.CompletionResult, error)
}

// Progress is the aggregate answer state of a page.
type Progress struct {
	Total           int
	Answered        int
	Correct         int
	AllAnswered     bool
	AllCorrect      bool
	FirstUnanswered int // question index, -1 if none
	FirstIncorrect  int // question index, -1 if none
}

// DecisionKind is the outcome of a submit-all request.
type DecisionKind int

const (
	// DecisionBlocked: a notice is shown and no request is sent.
	DecisionBlocked DecisionKind = iota
	// DecisionComplete: the caller must send the completion request.
	DecisionComplete
	// DecisionDisabled: the chapter is already completed.
	DecisionDisabled
	// DecisionPending: a completion request is already in flight.
	DecisionPending
)

// Decision tells the caller what a submit-all request does.
type Decision struct {
	Kind   DecisionKind
	Notice string
	Focus  int // question index to bring into view, -1 if none
}

// Outcome is how a completion response changes the page.
type Outcome struct {
	Toast     string // transient message, auto-dismissed
	Blocking  string // notice that needs acknowledging
	Completed bool
}

// Coordinator decides when the chapter may be completed and applies the
// completion response. Like the controllers it reads, it is used from a
// single goroutine.
type Coordinator struct {
	page      *Page
	completer Completer
	inFlight  bool
	result    *lessonapi.CompletionResult
}

// NewCoordinator creates a coordinator for page.
func NewCoordinator(page *Page, completer Completer) *Coordinator {
	return &Coordinator{page: page, completer: completer}
}

// Page returns the coordinated page.
func (c *Coordinator) Page() *Page {
	return c.page
}

// Evaluate derives progress from the controller statuses. A question that
// is submitting keeps the verdict its feedback shows: a resubmission still
// counts as answered and incorrect, a first submission as unanswered.
func (c *Coordinator) Evaluate() Progress {
	p := Progress{Total: len(c.page.Questions), FirstUnanswered: -1, FirstIncorrect: -1}
	for i, q := range c.page.Questions {
		answered, correct := verdict(q)
		if !answered {
			if p.FirstUnanswered < 0 {
				p.FirstUnanswered = i
			}
			continue
		}
		p.Answered++
		if correct {
			p.Correct++
		} else if p.FirstIncorrect < 0 {
			p.FirstIncorrect = i
		}
	}
	p.AllAnswered = p.Answered == p.Total
	p.AllCorrect = p.Correct == p.Total
	return p
}

func verdict(q *question.Controller) (answered, correct bool) {
	st := q.Status()
	if st != question.StatusSubmitting {
		return st.Answered(), st.Correct()
	}
	switch q.Feedback().Marker {
	case question.MarkerFailure:
		return true, false
	case question.MarkerSuccess:
		return true, true
	}
	return false, false
}

// SubmitAll decides whether the chapter can be completed now. A
// DecisionComplete marks the completion request in flight until
// ApplyCompletion is called.
func (c *Coordinator) SubmitAll() Decision {
	if c.page.Completed() {
		return Decision{Kind: DecisionDisabled, Focus: -1}
	}
	if c.inFlight {
		return Decision{Kind: DecisionPending, Focus: -1}
	}

	prog := c.Evaluate()
	switch {
	case !prog.AllAnswered:
		return Decision{Kind: DecisionBlocked, Notice: NoticeAnswerAll, Focus: prog.FirstUnanswered}
	case !prog.AllCorrect:
		return Decision{Kind: DecisionBlocked, Notice: NoticeAllCorrect, Focus: prog.FirstIncorrect}
	}

	c.inFlight = true
	return Decision{Kind: DecisionComplete, Focus: -1}
}

// Complete sends the completion request. It does not touch page state;
// pass the result to ApplyCompletion.
func (c *Coordinator) Complete(ctx context.Context) (lessonapi.CompletionResult, error) {
	return c.completer.CompleteChapter(ctx, c.page.CompletePath)
}

// ApplyCompletion folds a completion response into the page. Failures
// leave the page unchanged so submit-all can be retried.
func (c *Coordinator) ApplyCompletion(res lessonapi.CompletionResult, err error) Outcome {
	c.inFlight = false

	switch {
	case err != nil:
		return Outcome{Blocking: RequestFailure(err)}
	case !res.Success:
		return Outcome{Blocking: CompletionFailure(res.Message)}
	}

	var toast string
	if res.AlreadyCompleted {
		res.ExperienceAdded = 0
		res.LevelUp = false
		res.OldLevel, res.NewLevel = 0, 0
		toast = NoticeAlreadyCompleted
	} else {
		toast = CompletionToast(res)
	}

	c.result = &res
	c.page.MarkCompleted()
	return Outcome{Toast: toast, Completed: true}
}

// Result returns the last successful completion response.
func (c *Coordinator) Result() (lessonapi.CompletionResult, bool) {
	if c.result == nil {
		return lessonapi.CompletionResult{}, false
	}
	return *c.result, true
}
