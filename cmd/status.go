package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/regraft/regraft/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Report any git operation in progress in a repository",
	Long: `Status inspects the repository's on-disk operation state and reports
whether a merge, rebase, cherry-pick, revert, or patch application is in
progress, without starting the TUI. For a rebase it also prints the step
position.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	return printStatus(cmd.OutOrStdout(), engine.NewCLI(abs))
}

// printStatus writes the in-progress report. Split out so tests can inject an
// engine with a mock executor.
func printStatus(w io.Writer, eng *engine.CLI) error {
	ctx := context.Background()

	kind, ok := eng.InProgress(ctx)
	if !ok {
		fmt.Fprintln(w, "no operation in progress")
		return nil
	}

	fmt.Fprintf(w, "%s in progress\n", kind)

	if kind == engine.InProgressRebase || kind == engine.InProgressMailbox {
		if p, err := eng.RebaseProgress(ctx); err == nil {
			fmt.Fprintf(w, "  step %d of %d\n", p.Current, p.Total)
			if p.StoppedAt != "" {
				fmt.Fprintf(w, "  stopped at %s\n", shortOID(p.StoppedAt))
			}
		}
	}
	return nil
}

func shortOID(oid string) string {
	if len(oid) > 7 {
		return oid[:7]
	}
	return oid
}
