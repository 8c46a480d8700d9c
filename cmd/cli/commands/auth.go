package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rseventos/shiftboard/pkg/core/model"
	"github.com/rseventos/shiftboard/pkg/core/services"
)

// LoginCmd creates the login command
func LoginCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [email] [password]",
		Short: "Log in (falls back to remembered credentials)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			remember, _ := cmd.Flags().GetBool("remember")

			var email, password string
			if len(args) == 2 {
				email, password = args[0], args[1]
			} else {
				creds, err := app.Prefs.RememberedCredentials(app.Ctx)
				if err != nil {
					return err
				}
				if creds == nil {
					return errors.New("no remembered credentials, pass email and password")
				}
				email, password = creds.Email, creds.Password
				if len(args) == 1 {
					email = args[0]
				}
				remember = true
			}

			session, err := services.Login(app.Ctx, app.Database, app.Prefs, app.Logger, email, password, remember)
			if err != nil {
				return err
			}
			app.Session = session

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Welcome, %s (%s)\n\n", session.User.Name, session.User.Role)
			app.refreshSummary()
			return nil
		},
	}

	cmd.Flags().Bool("remember", false, "Remember these credentials on this machine")
	return cmd
}

// LogoutCmd creates the logout command
func LogoutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.Logout(app.Ctx, app.Database, app.Logger); err != nil {
				return err
			}
			app.Session = nil
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
			return nil
		},
	}
}

// SignupCmd creates the signup command
func SignupCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup <name> <email> <password>",
		Short: "Create an account (team lead unless --admin is given)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			passcode, _ := cmd.Flags().GetString("admin")
			remember, _ := cmd.Flags().GetBool("remember")

			input := services.SignupInput{
				Name:       args[0],
				Email:      args[1],
				Password:   args[2],
				Role:       model.RoleLead,
				RememberMe: remember,
			}
			if cmd.Flags().Changed("admin") {
				input.Role = model.RoleAdmin
				input.Passcode = passcode
			}

			session, err := services.Signup(app.Ctx, app.Database, app.Prefs, app.Cfg.AdminPasscode, app.Logger, input, app.now())
			if err != nil {
				return err
			}
			app.Session = session

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Account created. Welcome, %s (%s)\n\n", session.User.Name, session.User.Role)
			app.refreshSummary()
			return nil
		},
	}

	cmd.Flags().String("admin", "", "Admin passcode; requests an administrator account")
	cmd.Flags().Bool("remember", false, "Remember these credentials on this machine")
	return cmd
}

// ResetPasswordCmd creates the resetPassword command
func ResetPasswordCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resetPassword <email> <new_password>",
		Short: "Set a new password for an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.ResetPassword(app.Ctx, app.Database, app.Logger, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Password updated, you can log in now")
			return nil
		},
	}
}

// WhoamiCmd creates the whoami command
func WhoamiCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			u := app.Session.User
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%s <%s>\n", u.Name, u.Email)
			fmt.Fprintf(out, "Role:   %s\n", u.Role)
			if u.Status != "" {
				fmt.Fprintf(out, "Status: %s\n", u.Status)
			}
			if u.Phone != "" {
				fmt.Fprintf(out, "Phone:  %s\n", u.Phone)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
