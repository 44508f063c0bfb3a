package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fortuna/dugout/internal/registry"
	"github.com/fortuna/dugout/internal/store"
	"github.com/fortuna/dugout/internal/store/repository"
)

func init() {
	seedCmd.Flags().String("dsn", os.Getenv("DATABASE_URL"), "target postgres:// DSN")
	seedCmd.Flags().String("from", "", "JSON dataset to seed from (default: embedded dataset)")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Validates a dataset and upserts it into Postgres.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, _ := cmd.Flags().GetString("dsn")
		from, _ := cmd.Flags().GetString("from")
		if !store.IsDSN(dsn) {
			return errors.New("--dsn must be a postgres:// DSN")
		}

		reg, err := registry.Load(from)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := store.NewDatabase(ctx, dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.RunMigrations(ctx); err != nil {
			return err
		}

		repo := repository.NewTeamRepository(db)
		if err := repo.Upsert(ctx, reg.Records()); err != nil {
			return err
		}
		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d teams (%d stored)\n", reg.Len(), n)
		return nil
	},
}
