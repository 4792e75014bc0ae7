package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	chap "github.com/abhisek/chapterquiz/internal/chapter"
	"github.com/abhisek/chapterquiz/internal/lessonapi"
	"github.com/abhisek/chapterquiz/internal/question"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <chapter>",
	Short: "Answer a chapter line by line on stdin",
	Long: `Walk through every open question of a chapter, reading answers from
stdin. Choice questions take the option number or ID; fill-in questions
ask for each blank in turn. Enter "?" to reveal a hint and an empty line
to skip. The chapter is completed once every question is correct.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer d.Close()
		return runQuiz(cmd.Context(), d, args[0], cmd.InOrStdin(), newPrinter(cmd.OutOrStdout()))
	},
}

// errInputClosed ends the quiz early.
var errInputClosed = errors.New("input closed")

// errSkip moves on to the next question.
var errSkip = errors.New("skipped")

// quiz is one line-based run through a chapter.
type quiz struct {
	ctx     context.Context
	grader  lessonapi.Grader
	coord   *chap.Coordinator
	scanner *bufio.Scanner
	out     *printer
}

func runQuiz(ctx context.Context, d *deps, source string, in io.Reader, out *printer) error {
	lp, err := d.loader.Load(ctx, source)
	if err != nil {
		return err
	}
	page := chap.NewPage(lp)
	q := &quiz{
		ctx:     ctx,
		grader:  d.grader,
		coord:   chap.NewCoordinator(page, d.grader),
		scanner: bufio.NewScanner(in),
		out:     out,
	}

	title := page.Title
	if title == "" {
		title = "Chapter " + page.ChapterID
	}
	out.Printf("%s (%d questions)\n\n", title, len(page.Questions))

	for i, c := range page.Questions {
		if c.Status() == question.StatusLocked {
			continue
		}
		out.Question(i+1, len(page.Questions), c.Question())
		if err := q.ask(c); errors.Is(err, errInputClosed) {
			out.Dim("\n(input closed)")
			break
		} else if err != nil && !errors.Is(err, errSkip) {
			return err
		}
		out.Println()
	}

	p := q.coord.Evaluate()
	out.Heading("Summary: %d/%d correct", p.Correct, p.Total)
	return completeChapter(ctx, q.coord, out)
}

// ask reads answers for c until it is graded correct or skipped.
func (q *quiz) ask(c *question.Controller) error {
	for {
		if err := q.fill(c); err != nil {
			return err
		}
		ans, err := c.BeginSubmit()
		if err != nil {
			var ve *question.ValidationError
			if errors.As(err, &ve) {
				q.out.Failure(ve.Error())
				continue
			}
			return err
		}
		c.Apply(q.grader.Submit(q.ctx, c.ID(), ans))
		q.out.Feedback(c.Feedback())
		if c.Status() == question.StatusLocked {
			return nil
		}
		q.out.Dim("Try again, or press Enter to skip.")
	}
}

// fill reads one complete answer into c.
func (q *quiz) fill(c *question.Controller) error {
	qq := c.Question()
	if qq.Kind == question.KindChoice {
		for {
			line, err := q.prompt(c, "\nYour answer: ")
			if err != nil {
				return err
			}
			id, ok := optionFor(qq, line)
			if !ok {
				q.out.Failure(fmt.Sprintf("Unknown option %q", line))
				continue
			}
			return c.Select(id)
		}
	}

	for i := 0; i < qq.BlankCount; i++ {
		label := "\nYour answer: "
		if qq.BlankCount > 1 {
			label = fmt.Sprintf("Blank %d: ", i+1)
		}
		line, err := q.prompt(c, label)
		if err != nil {
			return err
		}
		if err := c.SetBlank(i, line); err != nil {
			return err
		}
	}
	return nil
}

// prompt reads a non-hint line. "?" reveals the hint and asks again.
func (q *quiz) prompt(c *question.Controller, label string) (string, error) {
	for {
		q.out.Printf("%s", label)
		if !q.scanner.Scan() {
			if err := q.scanner.Err(); err != nil {
				return "", err
			}
			return "", errInputClosed
		}
		line := strings.TrimSpace(q.scanner.Text())
		switch line {
		case "":
			q.out.Dim("(skipped)")
			return "", errSkip
		case "?":
			q.revealHint(c)
			continue
		}
		return line, nil
	}
}

func (q *quiz) revealHint(c *question.Controller) {
	if !c.RequestHint() {
		q.out.Dim("No hint available.")
		return
	}
	if rec, ok := q.grader.(lessonapi.HintRecorder); ok {
		rec.RecordHint(q.ctx, c.ID())
	}
	q.out.Dim("Hint: " + c.View().HintText)
}

// optionFor resolves a 1-based option number or an option ID.
func optionFor(q question.Question, input string) (string, bool) {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1].ID, true
	}
	for _, o := range q.Options {
		if o.ID == input || strings.EqualFold(o.Label, input) {
			return o.ID, true
		}
	}
	return "", false
}

// completeChapter runs the submit-all decision and, if it allows, the
// completion request.
func completeChapter(ctx context.Context, coord *chap.Coordinator, out *printer) error {
	d := coord.SubmitAll()
	switch d.Kind {
	case chap.DecisionDisabled:
		out.Dim(chap.NoticeAlreadyCompleted)
		return nil
	case chap.DecisionBlocked:
		out.Dim(d.Notice)
		return nil
	case chap.DecisionPending:
		return nil
	}

	res, err := coord.Complete(ctx)
	o := coord.ApplyCompletion(res, err)
	if o.Blocking != "" {
		out.Failure(o.Blocking)
		return fmt.Errorf("chapter not completed")
	}
	out.Success(o.Toast)
	return nil
}
