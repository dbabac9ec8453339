// Package cli implements the jellybean command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/myjellybean/jellybean/internal/analysis"
	"github.com/myjellybean/jellybean/internal/config"
	"github.com/myjellybean/jellybean/internal/history"
	"github.com/myjellybean/jellybean/internal/logger"
	"github.com/myjellybean/jellybean/internal/provider"
)

// Exit codes. Risk codes come from analyze; exitFailure covers everything
// that went wrong before a result existed.
const (
	exitOK         = 0
	exitMediumRisk = 1
	exitHighRisk   = 2
	exitFailure    = 3
)

var (
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logOut io.Closer

	appLog = logger.Nop()

	// replaced in tests
	newProvider = provider.New
)

var rootCmd = &cobra.Command{
	Use:   "jellybean",
	Short: "Bite-sized clarity for high-pressure messages",
	Long: `MyJellyBean analyzes a suspicious message you received and tells you how
risky it looks, what to do next, and how to reply safely.

Run without a subcommand to open the interactive analyzer.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/jellybean/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error, disabled)")

	rootCmd.AddCommand(tuiCmd, analyzeCmd, historyCmd, samplesCmd, serveCmd, versionCmd)
}

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return exitFailure
}

// setup loads configuration and the logger. The TUI logs to a file so log
// lines do not draw over the screen.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	lc := logger.DefaultConfig()
	lc.Level = cfg.Log.Level
	lc.Format = cfg.Log.Format

	if !cmd.HasParent() || cmd.Name() == "tui" {
		f, err := logger.OpenFile(cfg.Log.File)
		if err != nil {
			lc.Level = "disabled"
		} else {
			lc.Out = f
			lc.Format = "json"
			logOut = f
		}
	}
	appLog = logger.New(lc)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if logOut != nil {
		err := logOut.Close()
		logOut = nil
		return err
	}
	return nil
}

// openStore loads the history store named in the config.
func openStore() *history.Store {
	s := history.NewStore(cfg.History.Path, appLog)
	s.Load()
	return s
}

// newAnalyzer builds the analysis client for the configured provider. An
// unknown provider name surfaces as a configuration error on first use.
func newAnalyzer() *analysis.Client {
	credential := cfg.Provider.Credential()
	p, err := newProvider(cfg.Provider.Name, provider.Options{
		APIKey:  credential,
		Model:   cfg.Provider.Model,
		BaseURL: cfg.Provider.BaseURL,
		Timeout: cfg.Provider.Timeout,
	})
	if err != nil {
		appLog.Error().Err(err).Msg("provider setup failed")
		p = nil
	}
	return analysis.NewClient(p, credential, appLog)
}
