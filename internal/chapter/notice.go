package chapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/chapterquiz/internal/lessonapi"
)

// Notice texts.
const (
	NoticeAnswerAll        = "Please answer every question first."
	NoticeAllCorrect       = "Make sure every question is answered correctly."
	NoticeAlreadyCompleted = "This chapter is already completed."
)

// CompletionToast renders the success toast for a first completion.
func CompletionToast(res lessonapi.CompletionResult) string {
	var b strings.Builder
	b.WriteString("Chapter complete!")
	if res.ExperienceAdded > 0 {
		fmt.Fprintf(&b, " +%d XP", res.ExperienceAdded)
	}
	switch {
	case res.LevelUp && res.OldLevel > 0:
		fmt.Fprintf(&b, " Level up! %d → %d", res.OldLevel, res.NewLevel)
	case res.LevelUp:
		fmt.Fprintf(&b, " Level up! → %d", res.NewLevel)
	}
	return b.String()
}

// CompletionFailure renders the blocking notice for success=false.
func CompletionFailure(message string) string {
	if message == "" {
		message = "unknown error"
	}
	return "Could not update completion: " + message
}

// RequestFailure renders the blocking notice for a completion request that
// produced no usable response.
func RequestFailure(err error) string {
	return "Request failed: " + failureReason(err)
}

func failureReason(err error) string {
	var (
		protocolErr  *lessonapi.ProtocolError
		transportErr *lessonapi.TransportError
		timeoutErr   *lessonapi.TimeoutError
	)
	switch {
	case errors.As(err, &timeoutErr):
		return "the server took too long to respond"
	case errors.As(err, &protocolErr):
		return "unknown response format"
	case errors.As(err, &transportErr):
		if transportErr.Status != "" {
			return "server responded " + transportErr.Status
		}
		if transportErr.StatusCode != 0 {
			return fmt.Sprintf("server responded HTTP %d", transportErr.StatusCode)
		}
		return "check your network connection"
	case err != nil:
		return err.Error()
	default:
		return "unknown error"
	}
}
