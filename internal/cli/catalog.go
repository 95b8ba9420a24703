package cli

import (
	"github.com/spf13/cobra"

	"coursefit-backend/internal/bootstrap"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the question catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the catalog and weight tables describe the same questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, _, err := bootstrap.LoadQuestionnaire(loadConfig(cmd))
			if err != nil {
				return err
			}
			cmd.Printf("catalog %s ok: %d sections, %d questions, %d teachers\n",
				cat.Version, len(cat.Sections), cat.QuestionCount(), len(cat.Teachers))
			return nil
		},
	})
	return cmd
}
