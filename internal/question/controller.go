package question

import (
	"sort"
	"strings"

	"github.com/abhisek/chapterquiz/internal/lessonapi"
)

// HintPlaceholder is shown in the hint surface when the page carried no
// hint text of its own.
const HintPlaceholder = "Loading hint..."

// Controller owns the answer state of one question. All methods must be
// called from a single goroutine.
type Controller struct {
	q        Question
	state    AnswerState
	feedback Feedback
	hint     hintState
}

type hintState int

const (
	hintAvailable hintState = iota
	hintShown
)

// NewController creates a controller in the Unanswered state.
func NewController(q Question) *Controller {
	c := &Controller{q: q}
	if q.Kind == KindFillBlank {
		c.state.Blanks = make(map[int]string, q.BlankCount)
	}
	return c
}

// ID returns the question ID.
func (c *Controller) ID() string {
	return c.q.ID
}

// Question returns the question description.
func (c *Controller) Question() Question {
	return c.q
}

// Status returns the current status.
func (c *Controller) Status() Status {
	return c.state.Status
}

// State returns a copy of the answer state.
func (c *Controller) State() AnswerState {
	s := c.state
	if c.state.Blanks != nil {
		s.Blanks = make(map[int]string, len(c.state.Blanks))
		for i, v := range c.state.Blanks {
			s.Blanks[i] = v
		}
	}
	return s
}

// Feedback returns the current result surface content.
func (c *Controller) Feedback() Feedback {
	return c.feedback
}

func (c *Controller) editable() error {
	switch c.state.Status {
	case StatusLocked:
		return ErrLocked
	case StatusSubmitting:
		return ErrSubmitting
	}
	return nil
}

// Select picks the option with the given ID.
func (c *Controller) Select(optionID string) error {
	if err := c.editable(); err != nil {
		return err
	}
	if c.q.Kind != KindChoice || !c.q.hasOption(optionID) {
		return ErrUnknownOption
	}
	c.state.Selection = optionID
	return nil
}

// SetBlank stores the raw value typed into blank i (zero-based).
func (c *Controller) SetBlank(i int, value string) error {
	if err := c.editable(); err != nil {
		return err
	}
	if c.q.Kind != KindFillBlank || i < 0 || i >= c.q.BlankCount {
		return ErrBlankOutOfRange
	}
	c.state.Blanks[i] = value
	return nil
}

// BeginSubmit validates the current answer and moves to Submitting. On a
// *ValidationError the status is unchanged and nothing must be sent.
func (c *Controller) BeginSubmit() (lessonapi.Answer, error) {
	if err := c.editable(); err != nil {
		return lessonapi.Answer{}, err
	}

	var ans lessonapi.Answer
	switch c.q.Kind {
	case KindChoice:
		if c.state.Selection == "" {
			return lessonapi.Answer{}, &ValidationError{Reason: "Please select an answer"}
		}
		ans = lessonapi.ChoiceAnswer(c.state.Selection)
	case KindFillBlank:
		values := make(map[int]string, c.q.BlankCount)
		var missing []int
		for i := 0; i < c.q.BlankCount; i++ {
			v := strings.TrimSpace(c.state.Blanks[i])
			if v == "" {
				missing = append(missing, i+1)
				continue
			}
			values[i] = v
		}
		if len(missing) > 0 {
			sort.Ints(missing)
			return lessonapi.Answer{}, &ValidationError{Missing: missing}
		}
		ans = lessonapi.FillAnswer(values)
	}

	c.state.Status = StatusSubmitting
	return ans, nil
}

// Apply records the grading result of the in-flight submission. It returns
// false and changes nothing unless the question is Submitting.
func (c *Controller) Apply(res lessonapi.GradingResult) bool {
	if c.state.Status != StatusSubmitting {
		return false
	}
	if res.Kind == lessonapi.GradeCorrect {
		c.state.Status = StatusLocked
	} else {
		c.state.Status = StatusRetryable
	}
	c.feedback = FeedbackFor(res)
	return true
}

// RequestHint reveals the hint surface. It reports whether anything
// changed.
func (c *Controller) RequestHint() bool {
	if !c.q.HasHint || c.hint == hintShown || c.state.Status == StatusLocked {
		return false
	}
	c.hint = hintShown
	return true
}

// Restore seeds the controller from a result already rendered into the
// page. Only an Unanswered controller is restored.
func (c *Controller) Restore(p Previous) {
	if c.state.Status != StatusUnanswered {
		return
	}
	switch c.q.Kind {
	case KindChoice:
		if c.q.hasOption(p.Selection) {
			c.state.Selection = p.Selection
		}
	case KindFillBlank:
		for i, v := range p.Blanks {
			if i >= 0 && i < c.q.BlankCount {
				c.state.Blanks[i] = v
			}
		}
	}
	if p.Correct {
		c.state.Status = StatusLocked
		c.feedback = Feedback{Marker: MarkerSuccess, Headline: "Correct! Great job!"}
	} else {
		c.state.Status = StatusRetryable
		c.feedback = Feedback{Marker: MarkerFailure, Headline: "Not quite, try again!"}
	}
}

// View is a render-ready projection of the controller.
type View struct {
	Status        Status
	InputsEnabled bool
	SubmitEnabled bool
	SubmitLabel   string
	Feedback      Feedback
	HintVisible   bool // the hint control is shown
	HintEnabled   bool
	HintText      string // hint surface content, empty while hidden
	Selection     string
	Blanks        []string // indexed by blank
}

// View projects the current state for rendering.
func (c *Controller) View() View {
	v := View{
		Status:    c.state.Status,
		Feedback:  c.feedback,
		Selection: c.state.Selection,
	}

	switch c.state.Status {
	case StatusUnanswered:
		v.InputsEnabled = true
		v.SubmitLabel = "Submit"
		v.SubmitEnabled = c.q.Kind == KindFillBlank || c.state.Selection != ""
	case StatusSubmitting:
		v.SubmitLabel = "Submitting..."
	case StatusLocked:
		v.SubmitLabel = "Answered"
	case StatusRetryable:
		v.InputsEnabled = true
		v.SubmitLabel = "Resubmit"
		v.SubmitEnabled = true
	}

	if c.q.HasHint && c.state.Status != StatusLocked {
		v.HintVisible = true
		v.HintEnabled = c.hint == hintAvailable
	}
	if c.hint == hintShown && c.state.Status != StatusLocked {
		v.HintText = c.q.Hint
		if v.HintText == "" {
			v.HintText = HintPlaceholder
		}
	}

	if c.q.Kind == KindFillBlank {
		v.Blanks = make([]string, c.q.BlankCount)
		for i := range v.Blanks {
			v.Blanks[i] = c.state.Blanks[i]
		}
	}
	return v
}
