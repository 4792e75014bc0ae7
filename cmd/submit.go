package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/chapterquiz/internal/lessonapi"
	"github.com/abhisek/chapterquiz/internal/question"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit one answer and print the feedback",
	Long: `Send one answer to the grading endpoint.

  chapterquiz submit --question 42 --choice 101
  chapterquiz submit --question 7 --blank 0=print --blank 1=x

With --chapter the page is loaded first, so the question is checked
against the page and the anti-forgery cookie it sets is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		questionID, _ := cmd.Flags().GetString("question")
		choice, _ := cmd.Flags().GetString("choice")
		blanks, _ := cmd.Flags().GetStringArray("blank")
		source, _ := cmd.Flags().GetString("chapter")

		d, err := buildDeps(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer d.Close()

		return runSubmit(cmd.Context(), d, submitRequest{
			QuestionID: questionID,
			Choice:     choice,
			Blanks:     blanks,
			Source:     source,
		}, newPrinter(cmd.OutOrStdout()))
	},
}

func init() {
	submitCmd.Flags().String("question", "", "Question ID (required)")
	submitCmd.Flags().String("choice", "", "Option ID for a choice question")
	submitCmd.Flags().StringArray("blank", nil, `Blank value as "index=value", repeatable`)
	submitCmd.Flags().String("chapter", "", "Chapter to load the question from")
	_ = submitCmd.MarkFlagRequired("question")
	submitCmd.MarkFlagsMutuallyExclusive("choice", "blank")
	submitCmd.MarkFlagsOneRequired("choice", "blank")
}

type submitRequest struct {
	QuestionID string
	Choice     string
	Blanks     []string
	Source     string
}

func runSubmit(ctx context.Context, d *deps, req submitRequest, out *printer) error {
	values, err := parseBlanks(req.Blanks)
	if err != nil {
		return err
	}

	q, err := resolveQuestion(ctx, d, req, values)
	if err != nil {
		return err
	}

	c := question.NewController(q)
	if q.Kind == question.KindChoice {
		if err := c.Select(req.Choice); err != nil {
			return fmt.Errorf("option %q: %w", req.Choice, err)
		}
	} else {
		for i, v := range values {
			if err := c.SetBlank(i, v); err != nil {
				return fmt.Errorf("blank %d: %w", i, err)
			}
		}
	}

	ans, err := c.BeginSubmit()
	if err != nil {
		return err
	}
	res := d.grader.Submit(ctx, c.ID(), ans)
	c.Apply(res)
	out.Feedback(c.Feedback())
	if res.Kind == lessonapi.GradeFailed {
		return fmt.Errorf("question %s: %w", c.ID(), res.Err)
	}
	return nil
}

// resolveQuestion finds the question on the chapter page, or describes it
// from the flags alone when no chapter is given.
func resolveQuestion(ctx context.Context, d *deps, req submitRequest, blanks map[int]string) (question.Question, error) {
	if req.Source == "" {
		q := question.Question{ID: req.QuestionID}
		if req.Choice != "" {
			q.Kind = question.KindChoice
			q.Options = []question.Option{{ID: req.Choice}}
			return q, nil
		}
		q.Kind = question.KindFillBlank
		for i := range blanks {
			if i+1 > q.BlankCount {
				q.BlankCount = i + 1
			}
		}
		return q, nil
	}

	page, err := d.loader.Load(ctx, req.Source)
	if err != nil {
		return question.Question{}, err
	}
	for _, e := range page.Questions {
		if e.Question.ID != req.QuestionID {
			continue
		}
		if e.Question.Kind == question.KindChoice && req.Choice == "" {
			return question.Question{}, fmt.Errorf("question %s is a choice question; use --choice", req.QuestionID)
		}
		if e.Question.Kind == question.KindFillBlank && req.Choice != "" {
			return question.Question{}, fmt.Errorf("question %s is a fill-in question; use --blank", req.QuestionID)
		}
		return e.Question, nil
	}
	return question.Question{}, fmt.Errorf("chapter %s has no question %s", page.ChapterID, req.QuestionID)
}

// parseBlanks decodes "index=value" pairs.
func parseBlanks(pairs []string) (map[int]string, error) {
	out := make(map[int]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --blank %q: expected index=value", p)
		}
		i, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || i < 0 {
			return nil, fmt.Errorf("invalid --blank %q: index must be a non-negative integer", p)
		}
		if _, dup := out[i]; dup {
			return nil, fmt.Errorf("blank %d given twice", i)
		}
		out[i] = v
	}
	return out, nil
}
