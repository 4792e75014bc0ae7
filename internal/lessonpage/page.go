// Package lessonpage reads chapter pages: the questions they embed, the
// answers already given and where chapter completion is reported.
package lessonpage

import (
	"fmt"

	"github.com/abhisek/chapterquiz/internal/question"
)

// Page is a parsed chapter.
type Page struct {
	ChapterID     string
	Title         string
	CompletePath  string // path or URL of the completion endpoint
	ProgressSteps int
	Completed     bool // submit-all already disabled by the server
	Questions     []Entry
}

// Entry is one question and the result the page already shows for it.
type Entry struct {
	Question question.Question
	Previous *question.Previous
}

// MissingElementError reports a page that does not satisfy the markup
// contract. It is fatal: such a page cannot be driven.
type MissingElementError struct {
	QuestionID string // empty for page-level elements
	Element    string
}

func (e *MissingElementError) Error() string {
	if e.QuestionID == "" {
		return fmt.Sprintf("page is missing %s", e.Element)
	}
	return fmt.Sprintf("question %s is missing %s", e.QuestionID, e.Element)
}

// Validate checks page-level invariants and every question.
func (p *Page) Validate() error {
	if p.ChapterID == "" {
		return &MissingElementError{Element: "chapter id"}
	}
	if p.CompletePath == "" {
		return &MissingElementError{Element: "completion URL"}
	}
	seen := make(map[string]bool, len(p.Questions))
	for _, e := range p.Questions {
		if err := e.Question.Validate(); err != nil {
			return err
		}
		if seen[e.Question.ID] {
			return fmt.Errorf("duplicate question %s", e.Question.ID)
		}
		seen[e.Question.ID] = true
	}
	return nil
}
