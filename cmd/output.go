package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/chapterquiz/internal/question"
	"github.com/abhisek/chapterquiz/internal/ui/theme"
)

// printer writes command output, styled when the writer is a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, styled: isTerminal(w)}
}

func (p *printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p *printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) Println(args ...any) {
	fmt.Fprintln(p.w, args...)
}

// Heading prints a section rule.
func (p *printer) Heading(format string, args ...any) {
	p.Println(p.render(theme.Title, "── "+fmt.Sprintf(format, args...)+" ──"))
}

// Success prints a green line.
func (p *printer) Success(text string) {
	p.Println(p.render(theme.Correct, "✓ "+text))
}

// Failure prints a red line.
func (p *printer) Failure(text string) {
	p.Println(p.render(theme.Incorrect, "✗ "+text))
}

// Dim prints secondary text.
func (p *printer) Dim(text string) {
	p.Println(p.render(theme.Hint, text))
}

// Feedback prints the result surface of a question.
func (p *printer) Feedback(fb question.Feedback) {
	if fb.Headline == "" {
		return
	}
	if fb.Marker == question.MarkerSuccess {
		p.Success(fb.Headline)
	} else {
		p.Failure(fb.Headline)
	}
	for _, l := range fb.Lines() {
		p.Println("  " + l)
	}
}

// Question prints a question with its numbered options.
func (p *printer) Question(i, n int, q question.Question) {
	p.Heading("Question %d/%d · %s", i, n, q.TypeLabel())
	if q.Text != "" {
		p.Println(q.Text)
	}
	if q.Code != "" {
		p.Println(p.render(theme.Code, q.Code))
	}
	for j, o := range q.Options {
		p.Printf("  %d) %s\n", j+1, o.Label)
	}
}
