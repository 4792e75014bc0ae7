package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/chapterquiz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show journaled attempts and completions",
	Long: `Summarise the local answer journal: attempts per question, recent
completion requests and, with --attempts, the individual submissions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		showAttempts, _ := cmd.Flags().GetBool("attempts")
		questionID, _ := cmd.Flags().GetString("question")
		limit, _ := cmd.Flags().GetInt("limit")

		return runHistory(cmd.Context(), st.EventRepo(), historyOptions{
			Attempts:   showAttempts || questionID != "",
			QuestionID: questionID,
			Limit:      limit,
		}, newPrinter(cmd.OutOrStdout()))
	},
}

func init() {
	historyCmd.Flags().Bool("attempts", false, "List individual attempts")
	historyCmd.Flags().String("question", "", "Only show attempts on this question")
	historyCmd.Flags().Int("limit", 20, "Max attempts and completions to list")
}

type historyOptions struct {
	Attempts   bool
	QuestionID string
	Limit      int
}

func runHistory(ctx context.Context, repo store.EventRepo, opts historyOptions, out *printer) error {
	summaries, err := repo.QuestionSummaries(ctx)
	if err != nil {
		return fmt.Errorf("query summaries: %w", err)
	}
	if len(summaries) == 0 {
		out.Println("No attempts journaled yet.")
	} else {
		out.Printf("%-12s %8s %8s %10s %7s %6s  %s\n", "QUESTION", "ATTEMPTS", "CORRECT", "INCORRECT", "FAILED", "HINTS", "LAST")
		out.Println(strings.Repeat("─", 74))
		for _, s := range summaries {
			if opts.QuestionID != "" && s.QuestionID != opts.QuestionID {
				continue
			}
			out.Printf("%-12s %8d %8d %10d %7d %6d  %s %s\n",
				s.QuestionID, s.Attempts, s.Correct, s.Incorrect, s.Failed, s.HintsShown,
				s.LastOutcome, formatTime(s.LastAt))
		}
	}

	if opts.Attempts {
		attempts, err := repo.QueryAttempts(ctx, store.QueryOpts{Limit: opts.Limit, QuestionID: opts.QuestionID})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		out.Println()
		out.Heading("Attempts")
		if len(attempts) == 0 {
			out.Println("No attempts found.")
		}
		for _, a := range attempts {
			detail := a.Outcome
			if a.Failure != "" {
				detail += " (" + a.Failure + ")"
			}
			out.Printf("#%-5d %s  question %-8s %-22s %5dms  %s\n",
				a.Sequence, formatTime(a.Timestamp), a.QuestionID, detail, a.LatencyMs, a.Answer)
		}
	}

	completions, err := repo.QueryCompletions(ctx, store.QueryOpts{Limit: opts.Limit})
	if err != nil {
		return fmt.Errorf("query completions: %w", err)
	}
	if len(completions) == 0 {
		return nil
	}
	out.Println()
	out.Heading("Completions")
	for _, c := range completions {
		out.Printf("#%-5d %s  %-28s %s\n", c.Sequence, formatTime(c.Timestamp), c.ChapterPath, completionSummary(c.CompletionEventData))
	}
	return nil
}

func completionSummary(c store.CompletionEventData) string {
	switch {
	case c.Error != "":
		return "failed: " + c.Error
	case !c.Success:
		msg := c.Message
		if msg == "" {
			msg = "unknown error"
		}
		return "rejected: " + msg
	case c.AlreadyCompleted:
		return "already completed"
	case c.LevelUp && c.OldLevel > 0:
		return fmt.Sprintf("completed +%d XP, level %d → %d", c.ExperienceAdded, c.OldLevel, c.NewLevel)
	case c.LevelUp:
		return fmt.Sprintf("completed +%d XP, level → %d", c.ExperienceAdded, c.NewLevel)
	default:
		return fmt.Sprintf("completed +%d XP", c.ExperienceAdded)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
