package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/chapterquiz/internal/app"
	"github.com/abhisek/chapterquiz/internal/screen"
	"github.com/abhisek/chapterquiz/internal/screens/chapter"
	"github.com/abhisek/chapterquiz/internal/screens/home"
)

var playCmd = &cobra.Command{
	Use:   "play [chapter]",
	Short: "Answer a chapter in the full-screen UI",
	Long: `Open the quiz UI. The chapter is a chapter ID, a page URL, a saved
.html page or a .yaml manifest. Without one, the home screen asks for it.

When stdout is not a terminal the line-based quiz runs instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var source string
		if len(args) == 1 {
			source = args[0]
		}
		return runApp(cmd, source)
	},
}

func init() {
	playCmd.Flags().String("ui", "auto", "UI mode: auto, tui or plain")
}

// runApp starts the quiz UI on source, or on the home screen when source
// is empty.
func runApp(cmd *cobra.Command, source string) error {
	closeLog, err := setupDebugLog(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	mode, _ := cmd.Flags().GetString("ui")
	decision, err := resolveUIMode(mode, os.Stdout)
	if err != nil {
		return err
	}
	if decision.warning != "" {
		fmt.Fprintln(os.Stderr, decision.warning)
	}

	warn := io.Writer(os.Stderr)
	if decision.useTUI {
		debugPath, _ := cmd.Flags().GetString("debug")
		warn = tuiWarnings(debugPath)
	}
	d, err := buildDeps(cmd, warn)
	if err != nil {
		return err
	}
	defer d.Close()

	if !decision.useTUI {
		if source == "" {
			return fmt.Errorf("a chapter is required without a terminal")
		}
		return runQuiz(cmd.Context(), d, source, os.Stdin, newPrinter(os.Stdout))
	}

	open := func(src string) screen.Screen {
		return chapter.New(d.loader, d.grader, src, d.cfg.ToastDuration)
	}
	homeScreen := home.New(open, d.eventRepo(), source)
	if source == "" {
		return app.Run(cmd.Context(), homeScreen)
	}
	return app.Run(cmd.Context(), homeScreen, open(source))
}
