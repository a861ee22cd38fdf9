package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/college-table/pkg/database"
	"github.com/d60-Lab/college-table/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.InitDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info("migration finished", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}
