package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/regraft/regraft/internal/app"
	"github.com/regraft/regraft/internal/clipboard"
	"github.com/regraft/regraft/internal/config"
	"github.com/regraft/regraft/internal/logger"
)

var (
	debugMode             bool
	quietMode             bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "regraft",
	Short: "TUI for history-rewriting git operations",
	Long: `Regraft is a terminal client for the git operations that rewrite history:
merge, rebase, cherry-pick, revert, and mailbox patch application. It keeps a
single operation session per repository, walks you through conflicts and
interactive-rebase stops, and refreshes the repository view as the operation
progresses.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
}

func initLogging() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("regraft %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("regraft %s\n", version)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Clipboard is optional; copying from dialogs degrades gracefully
	if err := clipboard.Init(); err != nil {
		logger.Warn("Clipboard unavailable: %v", err)
	}

	defer logger.Close()

	m := app.New(cfg, version)
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
