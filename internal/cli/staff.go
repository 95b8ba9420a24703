package cli

import (
	"github.com/spf13/cobra"

	"coursefit-backend/internal/bootstrap"
	"coursefit-backend/internal/staff"
)

func newStaffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage dashboard accounts",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			if cfg.DatabaseURL == "" {
				return errNoDatabase
			}
			app, err := bootstrap.Build(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			role, _ := cmd.Flags().GetString("role")
			teacher, _ := cmd.Flags().GetString("teacher")
			password, _ := cmd.Flags().GetString("password")

			member, err := app.StaffService.Create(cmd.Context(), staff.CreateInput{
				Email:    email,
				Name:     name,
				Role:     staff.Role(role),
				Teacher:  teacher,
				Password: password,
			})
			if err != nil {
				return err
			}
			cmd.Printf("created %s %s (%s)\n", member.Role, member.Email, member.ID)
			return nil
		},
	}
	add.Flags().String("email", "", "Login email")
	add.Flags().String("name", "", "Display name")
	add.Flags().String("role", string(staff.RoleTeacher), "admin or teacher")
	add.Flags().String("teacher", "", "Roster label whose results a teacher account sees")
	add.Flags().String("password", "", "Password (omit for a Google-only account)")
	_ = add.MarkFlagRequired("email")
	_ = add.MarkFlagRequired("name")

	cmd.AddCommand(add)
	return cmd
}
