package cli

import (
	"fmt"

	"github.com/axellelanca/itrules/cmd"
	"github.com/axellelanca/itrules/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// MigrateCmd creates or updates the reference backend tables.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `Connects to the configured SQLite database and runs GORM automatic
migrations for the violation_records and download_logs tables.`,
	Run: func(c *cobra.Command, args []string) {
		db, err := repository.Open(cmd.Cfg.Database.Name)
		if err != nil {
			logrus.WithError(err).Fatal("failed to open database")
		}

		sqlDB, err := db.DB()
		if err != nil {
			logrus.WithError(err).Fatal("failed to get underlying SQL database")
		}
		defer sqlDB.Close()

		if err := repository.Migrate(db); err != nil {
			logrus.WithError(err).Fatal("migration failed")
		}

		fmt.Println("Database migrations executed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
