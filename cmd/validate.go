// =============================================================================
// Timetable - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the catalogue on
// disk without changing it.
//
// COMMAND USAGE:
//   timetable validate [--strict] [--log validation.log]
//
// EXIT STATUS:
//   Non-zero when any ERROR finding is reported, or any finding at all with
//   --strict.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itxprashant/IITD-timetable-generator/internal/catalogio"
	"github.com/itxprashant/IITD-timetable-generator/internal/validation"
)

var (
	strict      bool
	validateLog string
	disabled    []string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalogue for anomalies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := catalogio.ReadFile(cfg.CatalogFile)
		if err != nil {
			return err
		}

		v := validation.NewValidatorWithOptions(validation.ValidationOptions{
			TreatWarningsAsErrors: strict,
			DisabledRules:         disabled,
		})
		result := v.ValidateAll(records)

		logger.Info("validated catalogue",
			zap.String("file", cfg.CatalogFile),
			zap.Int("records", result.RecordsValidated),
			zap.Int("errors", result.ErrorCount),
			zap.Int("warnings", result.WarningCount),
		)
		fmt.Fprintln(cmd.OutOrStdout(), validation.FormatErrors(result.Errors))

		if validateLog != "" {
			if err := validation.WriteErrorLog(result.Errors, validateLog); err != nil {
				return err
			}
		}

		if !result.IsValid {
			return errors.New("catalogue failed validation")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&strict, "strict", false,
		"Treat warnings as errors")
	validateCmd.Flags().StringVar(&validateLog, "log", "",
		"Also write the findings to this file")
	validateCmd.Flags().StringSliceVar(&disabled, "disable", nil,
		"Rules to skip (e.g. code_shape,duplicate_code)")
	rootCmd.AddCommand(validateCmd)
}
