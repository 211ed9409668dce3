package app

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yukikurage/group-task-api/internal/database"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := database.Open(cfg)
		if err != nil {
			return errors.Wrap(err, "open database")
		}

		sqlDB, err := db.DB()
		if err != nil {
			return errors.Wrap(err, "get sql.DB")
		}
		defer sqlDB.Close()

		return database.Migrate(db)
	},
}
