package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/myjellybean/jellybean/internal/samples"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List the built-in demo messages",
	Long: `List the demo messages. Feed one to analyze with, for example:

  jellybean samples --id 1 --message-only | jellybean analyze - --platform SMS --money`,
	Args: cobra.NoArgs,
	RunE: runSamples,
}

func init() {
	samplesCmd.Flags().Int("id", 0, "show only the sample with this id")
	samplesCmd.Flags().Bool("message-only", false, "print only the message text (requires --id)")
	samplesCmd.Flags().Bool("json", false, "print as JSON")
}

func runSamples(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	list := samples.All()

	if id, _ := cmd.Flags().GetInt("id"); id != 0 {
		s, ok := samples.Get(id)
		if !ok {
			return fmt.Errorf("no sample with id %d", id)
		}
		if only, _ := cmd.Flags().GetBool("message-only"); only {
			_, err := fmt.Fprintln(out, s.Message)
			return err
		}
		list = []samples.Sample{s}
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	for _, s := range list {
		fmt.Fprintf(out, "%d. %s  %s\n", s.ID, bold(s.Label), gray(fmt.Sprintf("(%s, %s)", s.Platform, s.Relationship)))
		fmt.Fprintf(out, "   %s\n", s.Message)
		if active := s.Signals().Active(); len(active) > 0 {
			fmt.Fprintf(out, "   %s\n", gray("context: "+strings.Join(active, ", ")))
		}
	}
	return nil
}
