package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rseventos/shiftboard/pkg/core/services"
)

// AddContactCmd creates the addContact command
func AddContactCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addContact <name> <number>",
		Short: "Add a phone directory entry (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			contact, err := services.AddContact(app.Ctx, app.Database, app.Logger, app.Session, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added contact %s (%s)\n", contact.Name, contact.ID)
			return nil
		},
	}
}

// DeleteContactCmd creates the deleteContact command
func DeleteContactCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteContact <contact_id>",
		Short: "Remove a phone directory entry (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteContact(app.Ctx, app.Database, app.Logger, app.Session, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Contact removed")
			return nil
		},
	}
}

// ListContactsCmd creates the listContacts command
func ListContactsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listContacts",
		Short: "List the phone directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := services.ListContacts(app.Ctx, app.Database, app.Session)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d contacts:\n\n", len(contacts))
			for _, c := range contacts {
				fmt.Fprintf(out, "- %s  %s  (%s)\n", c.Name, c.Number, c.ID)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// DialCmd creates the dial command
func DialCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dial <contact_id>",
		Short: "Print the WhatsApp link for a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := services.DialURL(app.Ctx, app.Database, app.Session, args[0], app.Cfg.DefaultCountryCode)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}
