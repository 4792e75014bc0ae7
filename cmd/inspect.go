package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/chapterquiz/internal/lessonpage"
	"github.com/abhisek/chapterquiz/internal/question"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <chapter>",
	Short: "Show the questions a chapter page exposes",
	Long: `Load a chapter and print its questions, the answers it already shows
and where completion is reported. A page that breaks the markup contract
is reported with the element that is missing.

--yaml prints the page as a manifest that can be edited and replayed with
"chapterquiz play file.yaml".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, _ := cmd.Flags().GetBool("yaml")

		d, err := buildDeps(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer d.Close()

		return runInspect(cmd.Context(), d.loader, args[0], asYAML, newPrinter(cmd.OutOrStdout()))
	},
}

func init() {
	inspectCmd.Flags().Bool("yaml", false, "Print the page as a YAML manifest")
}

func runInspect(ctx context.Context, loader *lessonpage.Loader, source string, asYAML bool, out *printer) error {
	page, err := loader.Load(ctx, source)
	if err != nil {
		var missing *lessonpage.MissingElementError
		if errors.As(err, &missing) {
			out.Failure("This page cannot be used as a quiz: " + missing.Error())
		}
		return err
	}

	if asYAML {
		return lessonpage.ManifestFor(page).Encode(out.w)
	}

	out.Printf("Chapter:   %s\n", page.ChapterID)
	out.Printf("Title:     %s\n", page.Title)
	out.Printf("Complete:  %s\n", page.CompletePath)
	if page.ProgressSteps > 0 {
		out.Printf("Progress:  %d steps\n", page.ProgressSteps)
	}
	out.Printf("Completed: %v\n\n", page.Completed)

	for i, e := range page.Questions {
		q := e.Question
		out.Heading("%d. Question %s · %s", i+1, q.ID, q.TypeLabel())
		if q.Text != "" {
			out.Println(q.Text)
		}
		for _, o := range q.Options {
			out.Printf("  [%s] %s\n", o.ID, o.Label)
		}
		if q.Kind == question.KindFillBlank {
			out.Printf("  %d blank(s)\n", q.BlankCount)
		}
		if q.HasHint {
			out.Dim("  hint available")
		}
		if e.Previous != nil {
			out.Printf("  previous answer: %s\n", previousSummary(q, *e.Previous))
		}
		out.Println()
	}
	return nil
}

func previousSummary(q question.Question, p question.Previous) string {
	verdict := "incorrect"
	if p.Correct {
		verdict = "correct"
	}
	if q.Kind == question.KindChoice {
		return fmt.Sprintf("%s (%s)", verdict, p.Selection)
	}
	vals := make([]string, q.BlankCount)
	for i := range vals {
		vals[i] = p.Blanks[i]
	}
	return fmt.Sprintf("%s %q", verdict, vals)
}
