package commands

import (
	"skyjobs/database"
	"skyjobs/internal/app"
	"skyjobs/internal/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Flush()

		db, err := app.OpenDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		return database.AutoMigrate(db)
	},
}
