package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/chapterquiz/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the local answer journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			if !isTerminal(os.Stdout) {
				return fmt.Errorf("refusing to reset without --yes")
			}
			if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete every journaled attempt and completion?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		return runReset(cmd.Context(), st.EventRepo(), cmd.OutOrStdout())
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func runReset(ctx context.Context, repo store.EventRepo, w io.Writer) error {
	if err := repo.Reset(ctx); err != nil {
		return fmt.Errorf("reset journal: %w", err)
	}
	fmt.Fprintln(w, "Journal cleared.")
	return nil
}

func confirm(in io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
