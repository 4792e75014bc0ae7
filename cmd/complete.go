package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	chap "github.com/abhisek/chapterquiz/internal/chapter"
)

var completeCmd = &cobra.Command{
	Use:   "complete <chapter>",
	Short: "Report a chapter as completed",
	Long: `Load the chapter and, if every question on it is answered correctly,
send the completion request. --force skips the local check and lets the
server decide.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		d, err := buildDeps(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer d.Close()

		return runComplete(cmd.Context(), d, args[0], force, newPrinter(cmd.OutOrStdout()))
	},
}

func init() {
	completeCmd.Flags().Bool("force", false, "Send the request even if questions are open")
}

func runComplete(ctx context.Context, d *deps, source string, force bool, out *printer) error {
	lp, err := d.loader.Load(ctx, source)
	if err != nil {
		return err
	}
	page := chap.NewPage(lp)
	coord := chap.NewCoordinator(page, d.grader)

	if !force {
		dec := coord.SubmitAll()
		switch dec.Kind {
		case chap.DecisionDisabled:
			out.Dim(chap.NoticeAlreadyCompleted)
			return nil
		case chap.DecisionBlocked:
			out.Failure(dec.Notice)
			for _, c := range page.Questions {
				if !c.Status().Correct() {
					out.Printf("  question %s: %s\n", c.ID(), c.Status())
				}
			}
			return fmt.Errorf("chapter %s not completed", page.ChapterID)
		}
	}

	res, err := coord.Complete(ctx)
	o := coord.ApplyCompletion(res, err)
	if o.Blocking != "" {
		out.Failure(o.Blocking)
		return fmt.Errorf("chapter %s not completed", page.ChapterID)
	}
	out.Success(o.Toast)
	return nil
}
