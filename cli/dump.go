package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [file...]",
	Short: "Print the zone data of each section in master-file format",
	RunE:  runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, logger, err := settings(cmd)
	if err != nil {
		return err
	}
	names, err := inputNames(args)
	if err != nil {
		return err
	}
	files, err := compileAll(cmd, cfg, logger, names)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, sections := range files {
		for _, s := range sections {
			fmt.Fprintf(out, "; %s section %s %q\n", displayName(names[i]), s.ID, s.Description)
			if s.Zone == nil {
				fmt.Fprintln(out, "; no zone data")
				continue
			}
			if _, err := s.Zone.WriteTo(out); err != nil {
				return err
			}
		}
	}
	return nil
}
