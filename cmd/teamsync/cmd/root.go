// Package cmd is the teamsync CLI: it validates, seeds, inspects and
// exercises the team registry without running the service.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/fortuna/dugout/internal/registry"
	"github.com/fortuna/dugout/internal/store/repository"
)

var (
	source  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:          "teamsync",
	Short:        "teamsync manages the MLB team registry used by dugout.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&source, "data", os.Getenv("REGISTRY_DATA_PATH"),
		"registry source: JSON dataset path or postgres:// DSN (default: embedded dataset)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openRegistry loads --data. The database, if any, is closed before return.
func openRegistry(ctx context.Context) (*registry.Registry, error) {
	reg, db, err := repository.OpenRegistry(ctx, source)
	if db != nil {
		db.Close()
	}
	return reg, err
}
