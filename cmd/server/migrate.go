package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"issue-tracker/internal/config"
	"issue-tracker/internal/database"
	"issue-tracker/internal/logger"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stdout)

			db, err := database.Init(cfg.DBDSN)
			if err != nil {
				return err
			}
			defer func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()

			if err := database.Migrate(db); err != nil {
				return err
			}
			logger.Get().Info("migration completed")
			return nil
		},
	}
}
