package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"coursefit-backend/internal/bootstrap"
	"coursefit-backend/internal/shared/storage/db"
)

var errNoDatabase = errors.New("a database is required: set DATABASE_URL or --database-url")

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			if cfg.DatabaseURL == "" {
				return errNoDatabase
			}
			sqlDB, dialect, err := bootstrap.OpenDatabase(cmd.Context(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			names, err := db.MigrationNames(dialect)
			if err != nil {
				return err
			}
			cmd.Printf("applied %d migrations (%s)\n", len(names), dialect)
			return nil
		},
	}
}
