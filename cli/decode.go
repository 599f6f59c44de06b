package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/synqronlabs/spfsuite/fixture"
)

var decodeCmd = &cobra.Command{
	Use:   "decode FILE",
	Short: "Summarize a suite written by compile -o",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	b, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	sections, err := fixture.UnmarshalSuite(b)
	if err != nil {
		return wrapFile(args[0], err)
	}
	for _, s := range sections {
		printSummary(cmd.OutOrStdout(), args[0], s)
	}
	return nil
}
