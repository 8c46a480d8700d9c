package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rseventos/shiftboard/pkg/core/model"
	"github.com/rseventos/shiftboard/pkg/core/services"
)

// ProfileCmd creates the profile command
func ProfileCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your email or phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var update services.ProfileUpdate
			if cmd.Flags().Changed("email") {
				email, _ := cmd.Flags().GetString("email")
				update.Email = &email
			}
			if cmd.Flags().Changed("phone") {
				phone, _ := cmd.Flags().GetString("phone")
				update.Phone = &phone
			}
			if update.Email == nil && update.Phone == nil {
				return fmt.Errorf("nothing to update, pass --email and/or --phone")
			}

			session, err := services.UpdateProfile(app.Ctx, app.Database, app.Logger, app.Session, update)
			if err != nil {
				return err
			}
			app.Session = session
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Profile updated")
			return nil
		},
	}

	cmd.Flags().String("email", "", "New email")
	cmd.Flags().String("phone", "", "New phone number")
	return cmd
}

// StatusCmd creates the status command
func StatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <online|inactive|offline>",
		Short: "Set your presence status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := services.SetStatus(app.Ctx, app.Database, app.Logger, app.Session, model.UserStatus(args[0]))
			if err != nil {
				return err
			}
			app.Session = session
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Status set to %s\n", session.User.Status)
			return nil
		},
	}
}

// ThemeCmd creates the theme command
func ThemeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [dark|light]",
		Short: "Show or change the colour theme preference",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := app.Prefs.SetTheme(app.Ctx, args[0]); err != nil {
					return err
				}
			}
			theme, err := app.Prefs.Theme(app.Ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", theme)
			return nil
		},
	}
}
