package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rpgroster/config"
	"rpgroster/repository"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the player table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, _, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.Database.Driver == config.DriverMemory {
				return fmt.Errorf("the %s driver has no schema to migrate", config.DriverMemory)
			}

			db, err := config.InitDB(cfg.Database, log)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer func() { _ = sqlDB.Close() }()

			if err := repository.NewGormStore(db).Migrate(cmd.Context()); err != nil {
				return err
			}
			log.Info("player table migrated", zap.String("driver", cfg.Database.Driver))
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
}
