// Package cli implements the coursefit command tree.
package cli

import (
	"github.com/spf13/cobra"

	"coursefit-backend/internal/shared/config"
)

// version is set via -ldflags at build time.
var version = "(devel)"

// NewRootCmd builds the coursefit command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "coursefit",
		Short:         "Mathematics course recommendation service",
		Long:          "coursefit scores the course-fit questionnaire, serves the API and manages stored results.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("database-url", "", "Database URL (overrides DATABASE_URL)")
	root.PersistentFlags().String("catalog", "", "Question catalog YAML (overrides CATALOG_FILE)")
	root.PersistentFlags().String("weights", "", "Weight tables YAML (overrides WEIGHTS_FILE)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newScoreCmd(),
		newCatalogCmd(),
		newStaffCmd(),
		newExportCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads the environment and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("database-url"); v != "" {
		cfg.DatabaseURL = v
	}
	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.CatalogFile = v
	}
	if v, _ := cmd.Flags().GetString("weights"); v != "" {
		cfg.WeightsFile = v
	}
	return cfg
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("coursefit", version)
		},
	}
}
