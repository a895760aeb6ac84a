// =============================================================================
// Timetable - Catalogue Commands
// =============================================================================
//
// This file defines the commands that write the catalogue.
//
// COMMAND USAGE:
//   timetable build  [--dry-run]
//   timetable venues [--dry-run] [--offline]
//   timetable run    [--dry-run] [--offline]
//
// Each command prints a run summary to stdout when it finishes. Progress is
// logged to stderr.
//
// =============================================================================

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/itxprashant/IITD-timetable-generator/internal/pipeline"
	"github.com/itxprashant/IITD-timetable-generator/pkg/utils"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the catalogue from the course export",
	Long: `Reads the course export (CSV or XLSX) and replaces the catalogue with one
record per data row. The room chart is not read; venues already present in
the catalogue are kept for courses that are still offered.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, (*pipeline.Pipeline).Build)
	},
}

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "Fill in lecture venues from the room allotment chart",
	Long: `Downloads the room allotment chart (unless --offline), extracts the venue of
every course code it mentions and merges the venues into the catalogue on
disk. The catalogue is rewritten only when a venue changed.

If the chart can be neither downloaded nor found locally, the command logs a
warning and leaves the catalogue untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, (*pipeline.Pipeline).SyncVenues)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the catalogue and sync venues in one pass",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, (*pipeline.Pipeline).Run)
	},
}

func init() {
	for _, c := range []*cobra.Command{buildCmd, venuesCmd, runCmd} {
		addPipelineFlags(c)
		rootCmd.AddCommand(c)
	}
}

// runCommand executes one pipeline command and prints its summary.
func runCommand(cmd *cobra.Command, command func(*pipeline.Pipeline, context.Context) (*pipeline.Result, error)) error {
	result, err := command(newPipeline(), cmd.Context())
	if err != nil {
		return err
	}
	return utils.FormatSummary(cmd.OutOrStdout(), result.Summary())
}
