package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fortuna/dugout/internal/registry"
)

func init() {
	checkCmd.Flags().Bool("strict", false, "fail when any team lacks a provider id")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validates the registry source and reports provider id gaps.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}
		strict, _ := cmd.Flags().GetBool("strict")

		aliases := 0
		gaps := table.NewWriter()
		gaps.SetOutputMirror(cmd.OutOrStdout())
		gaps.AppendHeader(table.Row{"Code", "Missing provider ids"})
		missing := 0
		for _, rec := range reg.Records() {
			aliases += len(rec.Aliases)
			var absent []string
			for _, p := range registry.KnownProviders {
				if _, ok := rec.ProviderIDs[p]; !ok {
					absent = append(absent, string(p))
				}
			}
			if len(absent) > 0 {
				missing++
				gaps.AppendRow(table.Row{rec.Code, strings.Join(absent, ", ")})
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ok: %d teams, %d aliases\n", reg.Len(), aliases)
		if missing == 0 {
			return nil
		}
		gaps.SetStyle(table.StyleRounded)
		gaps.Render()
		if strict {
			return fmt.Errorf("%d teams have provider id gaps", missing)
		}
		return nil
	},
}
