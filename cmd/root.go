package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chapterquiz",
	Short: "Answer chapter quizzes from the terminal",
	Long: `chapterquiz talks to a lesson site's grading and chapter-completion
endpoints: answer questions, see feedback and hints, and complete chapters
from the terminal. Every request is journaled to a local SQLite database.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("base-url", "", "Lesson site origin (overrides CHAPTERQUIZ_BASE_URL)")
	pf.String("cookie", "", `Cookies to send, "name=value; name2=value2" (overrides CHAPTERQUIZ_SESSION)`)
	pf.Duration("timeout", 0, "Per-request timeout (overrides CHAPTERQUIZ_TIMEOUT)")
	pf.String("db", "", "Path to journal database file (overrides CHAPTERQUIZ_DB)")
	pf.Bool("no-journal", false, "Do not record attempts in the local journal")
	pf.String("debug", "", "Write debug logs to this file")
	rootCmd.Flags().String("ui", "auto", "UI mode: auto, tui or plain")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// durationFlag returns a persistent duration flag, or zero when unset.
func durationFlag(cmd *cobra.Command, name string) time.Duration {
	d, _ := cmd.Flags().GetDuration(name)
	return d
}
