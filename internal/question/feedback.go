package question

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/chapterquiz/internal/lessonapi"
)

// Marker classifies a feedback surface.
type Marker int

const (
	MarkerNone Marker = iota
	MarkerSuccess
	MarkerFailure
)

// Feedback is what the result surface of a question shows.
type Feedback struct {
	Marker         Marker
	Headline       string
	Hint           string
	Explanation    string
	CorrectAnswers []string
}

// Lines returns the body lines below the headline.
func (f Feedback) Lines() []string {
	var lines []string
	if f.Hint != "" {
		lines = append(lines, "Hint: "+f.Hint)
	}
	if f.Explanation != "" {
		lines = append(lines, "Explanation: "+f.Explanation)
	}
	if len(f.CorrectAnswers) > 0 {
		lines = append(lines, "Correct answer: "+strings.Join(f.CorrectAnswers, ", "))
	}
	return lines
}

// FeedbackFor renders a grading result.
func FeedbackFor(res lessonapi.GradingResult) Feedback {
	switch res.Kind {
	case lessonapi.GradeCorrect:
		return Feedback{
			Marker:      MarkerSuccess,
			Headline:    "Correct! Great job!",
			Explanation: res.Explanation,
		}
	case lessonapi.GradeIncorrect:
		return Feedback{
			Marker:         MarkerFailure,
			Headline:       "Not quite, try again!",
			Hint:           res.Hint,
			Explanation:    res.Explanation,
			CorrectAnswers: res.CorrectAnswers,
		}
	default:
		return Feedback{Marker: MarkerFailure, Headline: FailureMessage(res.Err)}
	}
}

// FailureMessage names the class of a grading failure for the learner.
func FailureMessage(err error) string {
	var (
		gradingErr   *lessonapi.GradingError
		protocolErr  *lessonapi.ProtocolError
		transportErr *lessonapi.TransportError
		timeoutErr   *lessonapi.TimeoutError
	)
	switch {
	case errors.As(err, &gradingErr):
		return "Error: " + gradingErr.Message
	case errors.As(err, &protocolErr):
		return "Unknown response format"
	case errors.As(err, &timeoutErr):
		return "The server took too long to respond"
	case errors.As(err, &transportErr):
		if transportErr.StatusCode != 0 {
			return fmt.Sprintf("Submission failed (HTTP %d), please try again", transportErr.StatusCode)
		}
		return "Submission failed, check your network connection"
	default:
		return "Submission failed, check your network connection"
	}
}
