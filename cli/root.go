// Package cli implements the spfsuite command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/synqronlabs/spfsuite/config"
	"github.com/synqronlabs/spfsuite/event"
)

// stdinName stands for standard input in file arguments.
const stdinName = "-"

var (
	configPath  string
	inputFormat string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "spfsuite",
	Short: "Compile SPF test-suite fixtures",
	Long: `Reads SPF test-suite documents (YAML or JSON) and compiles each one into
a section of tests plus the DNS zone data they are evaluated against.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&inputFormat, "format", "", "input format: auto, yaml or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

// Execute runs the command named by the process arguments.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// settings resolves the configuration file and flag overrides and builds
// the logger, which writes to the command's error stream.
func settings(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, nil, err
		}
	}
	if inputFormat != "" {
		cfg.Input.Format = inputFormat
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openSource opens the named file, or standard input for "-", as an event
// source. The returned function closes the file.
func openSource(cmd *cobra.Command, cfg *config.Config, name string) (event.Source, func() error, error) {
	var (
		r       io.Reader = cmd.InOrStdin()
		closeFn           = func() error { return nil }
	)
	if name != stdinName {
		f, err := os.Open(name)
		if err != nil {
			return nil, nil, err
		}
		r, closeFn = f, f.Close
	}

	src, err := event.NewSource(r, event.FormatFromPath(cfg.Input.Format, name))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return src, closeFn, nil
}

// inputNames returns the file arguments, defaulting to standard input.
func inputNames(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{stdinName}, nil
	}
	seen := false
	for _, name := range args {
		if name != stdinName {
			continue
		}
		if seen {
			return nil, errors.New("standard input named more than once")
		}
		seen = true
	}
	return args, nil
}

func displayName(name string) string {
	if name == stdinName {
		return "<stdin>"
	}
	return name
}

func wrapFile(name string, err error) error {
	return fmt.Errorf("%s: %w", displayName(name), err)
}
