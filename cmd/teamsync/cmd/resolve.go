package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fortuna/dugout/internal/pipeline"
	"github.com/fortuna/dugout/internal/registry"
)

func init() {
	urlCmd.Flags().StringP("provider", "p", string(registry.ProviderScoreboard), "provider namespace")
	urlCmd.Flags().StringP("template", "t", "", "URL template containing "+pipeline.Placeholder)
	urlCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(urlCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <team>",
	Short: "Resolves a code or alias to its canonical team.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}
		p := pipeline.New(reg, nil, pipeline.Options{})
		team, err := p.ResolveTeam(strings.Join(args, " "))
		if err != nil {
			return replyError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", team.Code, team.FullName)
		return nil
	},
}

var urlCmd = &cobra.Command{
	Use:   "url <team>",
	Short: "Prints the provider URL a command would fetch for a team.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}
		provider, _ := cmd.Flags().GetString("provider")
		template, _ := cmd.Flags().GetString("template")

		p := pipeline.New(reg, nil, pipeline.Options{})
		req, err := p.Resolve(strings.Join(args, " "), registry.Provider(provider), template)
		if err != nil {
			return replyError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), req.URL)
		return nil
	},
}

// replyError surfaces the same text a chat user would see.
func replyError(err error) error {
	if reply := pipeline.Reply(err); reply != pipeline.GenericReply {
		return errors.New(reply)
	}
	return err
}
