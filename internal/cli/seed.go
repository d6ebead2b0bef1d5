package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"monollogs/internal/config"
	"monollogs/internal/fixtures"
	"monollogs/internal/storage"
)

func newSeedCmd() *cobra.Command {
	var driver, dsn string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in console fixtures into a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg := config.Default()
			cfg.Databases = map[string]config.DatabaseConfig{driver: {DSN: dsn}}

			db, err := storage.Open(driver, cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			ctx := cmd.Context()
			if err := storage.Migrate(ctx, db, driver); err != nil {
				return err
			}
			set := fixtures.Default()
			if err := storage.Seed(ctx, db, set); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d sessions and %d todos into %s\n", len(set.Sessions), len(set.Todos), driver)
			return nil
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "sqlite3", "database driver (sqlite3 or mysql)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "data source name")
	_ = cmd.MarkFlagRequired("dsn")
	return cmd
}
