package components

// Verdict is the grading mark drawn next to an answer widget.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

func (v Verdict) mark() string {
	switch v {
	case VerdictCorrect:
		return " " + correctMark
	case VerdictIncorrect:
		return " " + incorrectMark
	}
	return ""
}
