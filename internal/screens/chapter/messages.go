package chapter

import (
	"github.com/abhisek/chapterquiz/internal/lessonapi"
	"github.com/abhisek/chapterquiz/internal/lessonpage"
)

// pageLoadedMsg is sent when the chapter page has been fetched and parsed.
type pageLoadedMsg struct {
	Page *lessonpage.Page
	Err  error
}

// gradedMsg carries the grading result for one question.
type gradedMsg struct {
	QuestionID string
	Result     lessonapi.GradingResult
}

// completedMsg carries the chapter completion response.
type completedMsg struct {
	Result lessonapi.CompletionResult
	Err    error
}

// toastExpiredMsg hides the toast it was scheduled for. Seq guards against
// hiding a newer toast.
type toastExpiredMsg struct {
	Seq int
}
