package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/synqronlabs/spfsuite/config"
	"github.com/synqronlabs/spfsuite/fixture"
)

var compileOutput string

var compileCmd = &cobra.Command{
	Use:   "compile [file...]",
	Short: "Compile fixture files and summarize their sections",
	Long: `Compiles every fixture file, reading standard input when no file or "-"
is given. Files are compiled concurrently; one summary line is printed per
section in argument order. With -o the compiled sections of all files are
written as a MessagePack suite. Nothing is written if any file fails.`,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "write the compiled suite to `FILE`")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
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

	var all []*fixture.Section
	out := cmd.OutOrStdout()
	for i, sections := range files {
		for _, s := range sections {
			printSummary(out, displayName(names[i]), s)
		}
		all = append(all, sections...)
	}

	if compileOutput != "" {
		b, err := fixture.MarshalSuite(all)
		if err != nil {
			return fmt.Errorf("encoding suite: %w", err)
		}
		if err := os.WriteFile(compileOutput, b, 0o644); err != nil {
			return err
		}
	}

	color.New(color.FgGreen).Fprintf(out, "compiled %d sections from %d files\n", len(all), len(names))
	return nil
}

// compileAll compiles each named input on its own goroutine. Results are
// returned in argument order; the first failure cancels the rest.
func compileAll(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, names []string) ([][]*fixture.Section, error) {
	results := make([][]*fixture.Section, len(names))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sections, err := compileFile(cmd, cfg, logger, name)
			if err != nil {
				return wrapFile(name, err)
			}
			results[i] = sections
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func compileFile(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, name string) ([]*fixture.Section, error) {
	src, closeFn, err := openSource(cmd, cfg, name)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return fixture.Compile(src, fixture.Options{
		Logger: logger.With(slog.String("file", displayName(name))),
		Zone:   cfg.ZoneConfig(),
	})
}

func printSummary(w io.Writer, file string, s *fixture.Section) {
	description := s.Description
	if description == "" {
		description = "-"
	}
	fmt.Fprintf(w, "%s %s %q tests=%d records=%d\n",
		file, s.ID, description, len(s.Tests), s.RecordCount())
}
