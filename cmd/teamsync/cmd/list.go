package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fortuna/dugout/internal/registry"
)

func init() {
	listCmd.Flags().StringP("provider", "p", "", "add a column with this provider's team ids")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints every team with its aliases.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("provider")
		provider := registry.Provider(name)
		if name != "" && !registry.IsKnownProvider(provider) {
			return fmt.Errorf("unknown provider %q", name)
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		header := table.Row{"Code", "Full name", "Aliases"}
		if name != "" {
			header = append(header, name)
		}
		t.AppendHeader(header)

		for _, rec := range reg.Records() {
			row := table.Row{rec.Code, rec.FullName, strings.Join(rec.Aliases, ", ")}
			if name != "" {
				row = append(row, rec.ProviderIDs[provider])
			}
			t.AppendRow(row)
		}
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d teams", reg.Len())})
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
