package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events [file]",
	Short: "Print the parse events of a fixture file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, _, err := settings(cmd)
	if err != nil {
		return err
	}
	name := stdinName
	if len(args) == 1 {
		name = args[0]
	}

	src, closeFn, err := openSource(cmd, cfg, name)
	if err != nil {
		return wrapFile(name, err)
	}
	defer closeFn()

	out := cmd.OutOrStdout()
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return wrapFile(name, err)
		}
		fmt.Fprintf(out, "%-8s %s\n", ev.Position(), ev)
	}
}
