package question

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrLocked          = errors.New("question already answered correctly")
	ErrSubmitting      = errors.New("submission in progress")
	ErrUnknownOption   = errors.New("unknown option")
	ErrBlankOutOfRange = errors.New("blank index out of range")
)

// ValidationError rejects a submission before it reaches the network.
type ValidationError struct {
	Missing []int // 1-based blank positions, ascending
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	switch len(e.Missing) {
	case 0:
		return "Please complete your answer"
	case 1:
		return "Please fill in blank " + strconv.Itoa(e.Missing[0])
	default:
		parts := make([]string, len(e.Missing))
		for i, n := range e.Missing {
			parts[i] = strconv.Itoa(n)
		}
		return "Please fill in blanks " + strings.Join(parts, ", ")
	}
}
