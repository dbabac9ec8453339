package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/myjellybean/jellybean/internal/analysis"
	"github.com/myjellybean/jellybean/internal/app"
	"github.com/myjellybean/jellybean/internal/highlight"
	"github.com/myjellybean/jellybean/internal/model"
	"github.com/myjellybean/jellybean/internal/report"
	"github.com/myjellybean/jellybean/internal/signals"
)

const maxStdinBytes = 1 << 20

var analyzeCmd = &cobra.Command{
	Use:   "analyze [message|-]",
	Short: "Analyze one message and print the result (non-interactive)",
	Long: `Analyze a suspicious message and print the assessment. Reads the
message from stdin when the argument is "-" or missing.

Exit codes:
  0 - low risk
  1 - medium risk (score 30-69)
  2 - high risk (score 70 or more)
  3 - the analysis could not be completed`,
	Example: `  jellybean analyze "Hey it's mom, send me a gift card" --platform SMS --money
  pbpaste | jellybean analyze - --detect-signals --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

// signalFlags maps each context toggle to its flag name.
var signalFlags = []struct {
	key  string
	flag string
}{
	{"asked_for_money", "money"},
	{"asked_to_move_off_platform", "off-platform"},
	{"asked_for_otp", "otp"},
	{"threatened_me", "threat"},
	{"asking_for_meetup", "meetup"},
	{"sexual_content", "sexual"},
}

func init() {
	analyzeCmd.Flags().StringP("platform", "p", "", "where the message arrived (SMS, Instagram, Discord, Email, ...)")
	analyzeCmd.Flags().StringP("relationship", "r", "", "who sent it (friend, coworker, unknown, ...)")
	for _, sf := range signalFlags {
		analyzeCmd.Flags().Bool(sf.flag, false, signalLabel(sf.key))
	}
	analyzeCmd.Flags().Bool("detect-signals", false, "tick context flags suggested by the message text")
	analyzeCmd.Flags().Bool("save", false, "save the result to local history")
	analyzeCmd.Flags().StringP("format", "f", "text", "output format: text, json, report")
}

func signalLabel(key string) string {
	for _, f := range model.SignalFields {
		if f.Key == key {
			return f.Label
		}
	}
	return key
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "json", "report":
	default:
		return fmt.Errorf("unknown format %q (want text, json or report)", format)
	}

	message, err := readMessage(cmd, args)
	if err != nil {
		return err
	}

	form, err := formFromFlags(cmd, message)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if cfg.Provider.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Provider.Timeout)
		defer cancel()
	}

	ctrl := app.NewController(openStore(), appLog)
	result, err := ctrl.Analyze(ctx, newAnalyzer(), form)
	if err != nil {
		return errors.New(analysis.UserMessage(err))
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = writeJSONResult(out, result)
	case "report":
		_, err = fmt.Fprintln(out, report.Format(*result))
	default:
		writeText(out, result)
	}
	if err != nil {
		return err
	}

	if code := riskExitCode(result.RiskScore); code != exitOK {
		return &exitError{code: code}
	}
	return nil
}

// readMessage takes the message from the argument, or stdin for "-" or none.
func readMessage(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxStdinBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading message from stdin: %w", err)
	}
	if len(data) > maxStdinBytes {
		return "", fmt.Errorf("message on stdin exceeds %d bytes", maxStdinBytes)
	}
	return string(data), nil
}

func formFromFlags(cmd *cobra.Command, message string) (app.Form, error) {
	form := app.Form{Message: message}
	form.Platform, _ = cmd.Flags().GetString("platform")
	form.Relationship, _ = cmd.Flags().GetString("relationship")
	form.SaveToHistory, _ = cmd.Flags().GetBool("save")

	for _, sf := range signalFlags {
		on, err := cmd.Flags().GetBool(sf.flag)
		if err != nil {
			return form, err
		}
		*form.Signals.Flag(sf.key) = on
	}

	if detect, _ := cmd.Flags().GetBool("detect-signals"); detect {
		form.Signals = form.Signals.Merge(signals.Suggest(message))
	}
	return form, nil
}

func riskExitCode(score int) int {
	switch model.BandFor(score) {
	case model.RiskHigh:
		return exitHighRisk
	case model.RiskMedium:
		return exitMediumRisk
	default:
		return exitOK
	}
}

func writeJSONResult(w io.Writer, r *model.AnalysisResult) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	out := string(data)
	if isTerminal(w) {
		out = highlight.JSON(out)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	danger = color.New(color.FgHiWhite, color.BgRed, color.Bold).SprintFunc()
)

var bandColors = map[model.RiskBand]*color.Color{
	model.RiskLow:    color.New(color.FgGreen, color.Bold),
	model.RiskMedium: color.New(color.FgYellow, color.Bold),
	model.RiskHigh:   color.New(color.FgRed, color.Bold),
}

// writeText prints a result the way the results view lays it out.
func writeText(w io.Writer, r *model.AnalysisResult) {
	if r.HighRisk() {
		fmt.Fprintln(w, danger(" IMMEDIATE DANGER "), model.EmergencyNotice)
		fmt.Fprintln(w)
	}

	band := r.Band()
	fmt.Fprintf(w, "%s  %s  %s\n",
		bold(strings.ToUpper(r.Category.Label())),
		bandColors[band].Sprintf("risk %d/100 (%s)", r.RiskScore, band),
		gray(fmt.Sprintf("confidence %d%%", int(r.Confidence*100+0.5))),
	)

	section := func(title string) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, cyan(title))
	}

	section("Why it matters")
	fmt.Fprintf(w, "  %s\n", r.WhyItMatters)

	section("Top signals")
	for _, s := range r.TopSignals {
		fmt.Fprintf(w, "  • %s\n", s)
	}

	section("Do this now")
	for i, s := range r.DoThisNow {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s)
	}

	section("Safer reply")
	fmt.Fprintf(w, "  %q\n", r.SaferReply)

	section("AI limitations")
	fmt.Fprintf(w, "  %s\n", gray(r.Limitations))
}
