package lessonapi

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Answer is a validated learner answer ready for the wire.
type Answer struct {
	choice string
	blanks map[int]string
}

// ChoiceAnswer builds the answer for a single-choice question.
func ChoiceAnswer(optionID string) Answer {
	return Answer{choice: optionID}
}

// FillAnswer builds the answer for a fill-in question. Keys are zero-based
// blank indices.
func FillAnswer(blanks map[int]string) Answer {
	cp := make(map[int]string, len(blanks))
	for i, v := range blanks {
		cp[i] = v
	}
	return Answer{blanks: cp}
}

// IsFill reports whether the answer carries blank values.
func (a Answer) IsFill() bool {
	return a.blanks != nil
}

// Choice returns the selected option ID of a choice answer.
func (a Answer) Choice() string {
	return a.choice
}

// Blanks returns the blank indices in ascending order with their values.
func (a Answer) Blanks() ([]int, []string) {
	idx := make([]int, 0, len(a.blanks))
	for i := range a.blanks {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	vals := make([]string, len(idx))
	for n, i := range idx {
		vals[n] = a.blanks[i]
	}
	return idx, vals
}

// Encode returns the value sent in the "answer" form field: the raw option
// ID for a choice, or a JSON object keyed by the blank index as a string.
func (a Answer) Encode() string {
	if !a.IsFill() {
		return a.choice
	}
	obj := make(map[string]string, len(a.blanks))
	for i, v := range a.blanks {
		obj[strconv.Itoa(i)] = v
	}
	// encoding/json sorts map keys, so the output is stable.
	b, _ := json.Marshal(obj)
	return string(b)
}
