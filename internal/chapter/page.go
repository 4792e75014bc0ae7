// Package chapter coordinates the questions of one chapter page and its
// completion.
package chapter

import (
	"github.com/abhisek/chapterquiz/internal/lessonpage"
	"github.com/abhisek/chapterquiz/internal/question"
)

// Page is the live state of a loaded chapter.
type Page struct {
	ChapterID     string
	Title         string
	CompletePath  string
	ProgressSteps int
	Questions     []*question.Controller

	completed bool
}

// NewPage builds controllers for every question, restoring answers the
// page already shows.
func NewPage(lp *lessonpage.Page) *Page {
	p := &Page{
		ChapterID:     lp.ChapterID,
		Title:         lp.Title,
		CompletePath:  lp.CompletePath,
		ProgressSteps: lp.ProgressSteps,
		completed:     lp.Completed,
	}
	for _, e := range lp.Questions {
		c := question.NewController(e.Question)
		if e.Previous != nil {
			c.Restore(*e.Previous)
		}
		p.Questions = append(p.Questions, c)
	}
	return p
}

// Completed reports whether the progress indicators show the chapter as
// done and the submit-all control is permanently disabled.
func (p *Page) Completed() bool {
	return p.completed
}

// MarkCompleted marks the progress indicators completed and disables
// submit-all for good.
func (p *Page) MarkCompleted() {
	p.completed = true
}

// Question returns the controller for id, or nil.
func (p *Page) Question(id string) *question.Controller {
	for _, c := range p.Questions {
		if c.ID() == id {
			return c
		}
	}
	return nil
}
