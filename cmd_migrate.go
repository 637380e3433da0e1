package main

import (
	"calligraphy-cms/config"
	"calligraphy-cms/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Install extensions, auto-migrate models and apply SQL migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadEnvFor("DB_URL")
		if _, err := setupLogger(cfg); err != nil {
			return err
		}
		db, err := database.InitDB(cfg.DBURL, false)
		if err != nil {
			return err
		}
		return database.Migrate(db)
	},
}
