package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/disaster-etl/internal/pipeline"
)

// RootOptions holds global flags and test overrides.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to pipeline.UUIDv7Generator.
	RunIDs pipeline.RunIDGenerator

	// Logger allows overriding the logger (for testing).
	// If nil, a text handler on the command's stderr is used.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// usageText is printed when the argument count is wrong.
const usageText = "Please provide the filepaths of the messages and categories " +
	"datasets as the first and second argument respectively, as " +
	"well as the filepath of the database to save the cleaned data " +
	"to as the third argument. \n\nExample: process-data " +
	"disaster_messages.csv disaster_categories.csv " +
	"DisasterResponse.db"

// NewRootCommand creates the process-data command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process-data <messages_path> <categories_path> <database_path>",
		Short: "Clean disaster messages into a SQLite table",
		Long: `Load the messages and categories CSV files, merge them on id, decode the
packed categories column into one integer column per label, drop rows whose
"related" label is 2 and exact duplicate rows, and write the result to the
disaster_msg table of a SQLite database, replacing any previous table.

Example:
  process-data disaster_messages.csv disaster_categories.csv DisasterResponse.db`,
		Args:          exactPaths(opts),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintf(cmd.OutOrStdout(), "Error [%s]: %s\n", ErrCodeUsage, msg)
				return NewExitError(ExitUsage, msg)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts, args[0], args[1], args[2])
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		_ = usageFormatter(cmd, opts).Error(ErrCodeUsage, err.Error(), nil)
		return WrapExitError(ExitUsage, "invalid flag", err)
	})

	return cmd
}

// exactPaths requires exactly three positional arguments. On mismatch the
// usage text goes to stdout, wrapped in an error response in JSON mode,
// and no database is touched.
func exactPaths(opts *RootOptions) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 3 {
			return nil
		}
		if f := usageFormatter(cmd, opts); f.Format == "json" {
			_ = f.Error(ErrCodeUsage, usageText, nil)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), usageText)
		}
		return NewExitError(ExitUsage, fmt.Sprintf("expected 3 arguments, got %d", len(args)))
	}
}

// usageFormatter returns a stdout formatter for failures raised before the
// run starts. An unrecognized format falls back to text.
func usageFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	format := opts.Format
	if !isValidFormat(format) {
		format = "text"
	}
	return &OutputFormatter{Format: format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
