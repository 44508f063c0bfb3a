package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fortuna/dugout/internal/registry"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Writes the registry source as a JSON dataset to stdout.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}
		return registry.Encode(cmd.OutOrStdout(), reg.Records())
	},
}
