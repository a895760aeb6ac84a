package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itxprashant/IITD-timetable-generator/internal/xmlwriter"
	"github.com/itxprashant/IITD-timetable-generator/pkg/utils"
)

var xsdOutput string

// xsdCmd prints the XML Schema of the catalogue XML export.
var xsdCmd = &cobra.Command{
	Use:         "xsd",
	Short:       "Print the XML Schema for the XML export",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := xmlwriter.GenerateXSD(xmlwriter.DefaultGenerateOptions())
		if err != nil {
			return err
		}
		if xsdOutput != "" {
			return utils.WriteFileAtomic(xsdOutput, data, 0o644)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	xsdCmd.Flags().StringVarP(&xsdOutput, "output", "o", "", "Write the schema to this file")
	rootCmd.AddCommand(xsdCmd)
}
