package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fortuna/dugout/internal/commands"
	"github.com/fortuna/dugout/internal/config"
	"github.com/fortuna/dugout/internal/fetch"
	"github.com/fortuna/dugout/internal/pipeline"
)

func init() {
	runCmd.Flags().Bool("irc", false, "keep IRC formatting codes in the output")
	runCmd.Flags().String("base-url", "", "send every request to this scheme://host instead (for local mirrors)")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <command> [args...]",
	Short: "Dispatches one chat command against the live providers and prints the reply.",
	Long: "Dispatches one chat command against the live providers and prints the reply.\n" +
		"Fetch timeout and provider API keys come from the environment (or .env).",
	Example: "  teamsync run mlbteam red sox\n" +
		"  teamsync run -- mlbroster --40man nyy",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		reg, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}

		irc, _ := cmd.Flags().GetBool("irc")
		baseURL, _ := cmd.Flags().GetString("base-url")

		p := pipeline.New(reg, fetch.NewHTTPFetcher(cfg.FetchTimeout), pipeline.Options{
			LogOutboundURLs: cfg.LogOutboundURLs || verbose,
			APIKeys:         cfg.ProviderAPIKeys,
		})
		var opts []commands.Option
		if baseURL != "" {
			opts = append(opts, commands.WithEndpoints(commands.DefaultEndpoints().WithBaseURL(baseURL)))
		}
		d := commands.NewDispatcher(p, opts...)

		ctx := commands.WithSource(cmd.Context(), "cli")
		res := d.Dispatch(ctx, args[0], strings.Join(args[1:], " "))

		lines := res.Lines
		if !irc {
			lines = res.Plain()
		}
		for _, l := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		if res.Err != nil {
			return errors.New("command failed")
		}
		return nil
	},
}
