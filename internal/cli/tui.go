package cli

import (
	"github.com/spf13/cobra"

	"github.com/myjellybean/jellybean/internal/app"
	"github.com/myjellybean/jellybean/internal/clipboard"
	"github.com/myjellybean/jellybean/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive analyzer (default)",
	Long: `Open the terminal UI: paste a message, set the context toggles, and
review the result, the shareable report, and the safety playbook.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	store := openStore()
	return tui.Run(tui.Options{
		Controller: app.NewController(store, appLog),
		Analyzer:   newAnalyzer(),
		Copy:       clipboard.Copy,
		Timeout:    cfg.Provider.Timeout,
	})
}
