// Package cli implements the testplan command line.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

var formats = []string{FormatText, FormatJSON}

// RootOptions holds the global flags.
type RootOptions struct {
	Format  string
	NoColor bool
	Verbose bool
}

// NewRootCmd returns the testplan command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "testplan",
		Short: "Resolve TestNG test-class execution plans from Java sources",
		Long: `testplan parses TestNG test classes from Java sources and resolves, for
every class of a suite test, the test and lifecycle methods it runs and the
instances they are bound to.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(formats, opts.Format) {
				return fmt.Errorf("invalid --format %q: must be one of %v", opts.Format, formats)
			}
			return nil
		},
	}
	cmd.SetVersionTemplate(`{{printf "testplan version %s\n" .Version}}`)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Format, "format", FormatText, "output format (text, json)")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log per-method classification decisions")

	cmd.AddCommand(newPlanCmd(opts))
	cmd.AddCommand(newClassesCmd(opts))
	return cmd
}

// logger writes diagnostics to the command's error stream.
func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
