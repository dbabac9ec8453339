package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/myjellybean/jellybean/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show or clear saved analyses",
	Long: `Work with the local history. Only results analyzed with "save to
history" are kept, newest first, up to 10 entries.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved analyses, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show N",
	Short: "Show saved analysis N (1 is the newest)",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved analyses",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyShowCmd.Flags().Bool("report", false, "print the shareable report instead of the full result")
	historyShowCmd.Flags().StringP("format", "f", "text", "output format: text, json")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	entries := openStore().Entries()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No saved analyses.")
		return nil
	}

	for i, r := range entries {
		band := r.Band()
		fmt.Fprintf(out, "%2d. %s  %s  %s\n",
			i+1,
			bandColors[band].Sprintf("%3d %-6s", r.RiskScore, band),
			bold(r.Category.Label()),
			gray(oneLine(r.ReportSummary.WhatHappened, 60)),
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid entry number %q", args[0])
	}

	entries := openStore().Entries()
	if n < 1 || n > len(entries) {
		return fmt.Errorf("no entry %d (history has %d)", n, len(entries))
	}
	r := entries[n-1]

	out := cmd.OutOrStdout()
	if asReport, _ := cmd.Flags().GetBool("report"); asReport {
		_, err := fmt.Fprintln(out, report.Format(r))
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		return writeJSONResult(out, &r)
	}
	writeText(out, &r)
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store := openStore()
	n := store.Len()
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d saved analyses.\n", n)
	return nil
}

// oneLine collapses whitespace and cuts s to n runes.
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
