package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/synqronlabs/spfsuite/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()

	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "spfsuite: %v\n", err)
		os.Exit(1)
	}
}
