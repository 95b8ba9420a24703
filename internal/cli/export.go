package cli

import (
	"github.com/spf13/cobra"

	"coursefit-backend/internal/bootstrap"
	"coursefit-backend/internal/submissions"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a results export into the object store",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawFormat, _ := cmd.Flags().GetString("format")
			format, err := submissions.ParseFormat(rawFormat)
			if err != nil {
				return err
			}
			teacher, _ := cmd.Flags().GetString("teacher")

			cfg := loadConfig(cmd)
			if cfg.DatabaseURL == "" {
				return errNoDatabase
			}
			app, err := bootstrap.Build(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			key, exp, err := app.SubmissionsService.Archive(cmd.Context(), submissions.Scope{Teacher: teacher}, format, "")
			if err != nil {
				return err
			}
			cmd.Printf("wrote %d rows to %s\n", exp.Rows, key)
			return nil
		},
	}
	cmd.Flags().String("format", "csv", "csv or xlsx")
	cmd.Flags().String("teacher", "", "Only export results naming this roster label")
	return cmd
}
