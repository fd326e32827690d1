// Command process-data merges the disaster messages and categories CSV files
// and writes the cleaned result to a SQLite database.
//
// Usage:
//
//	process-data <messages_path> <categories_path> <database_path>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/disaster-etl/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// ExitErrors have already been reported by the command
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
