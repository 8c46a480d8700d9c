package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rseventos/shiftboard/pkg/core/model"
	"github.com/rseventos/shiftboard/pkg/core/services"
)

// InboxCmd creates the inbox command
func InboxCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inbox",
		Short: "Show your notifications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inbox, err := services.ListNotifications(app.Ctx, app.Database, app.Session)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%d notifications, %d unread\n\n", len(inbox.Notifications), inbox.Unread)
			loc := app.Cfg.Location()
			for _, n := range inbox.Notifications {
				marker := " "
				if !n.Read {
					marker = "●"
				}
				fmt.Fprintf(out, "%s %s  %s  (%s)\n", marker, n.CreatedAt.In(loc).Format("02/01 15:04"), n.Title, n.ID)
				for _, line := range strings.Split(n.Message, "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// MarkReadCmd creates the markRead command
func MarkReadCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "markRead [notification_id]...",
		Short: "Mark notifications as read (all when no id is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := services.MarkNotificationsRead(app.Ctx, app.Database, app.Logger, app.Session, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Marked %d notifications as read\n", n)
			return nil
		},
	}
}

// ClearNotificationsCmd creates the clearNotifications command
func ClearNotificationsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clearNotifications [notification_id]...",
		Short: "Delete notifications (all when no id is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := services.DeleteNotifications(app.Ctx, app.Database, app.Logger, app.Session, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d notifications\n", n)
			return nil
		},
	}
}

func namesOrNone(people []model.Person) string {
	if len(people) == 0 {
		return "None"
	}
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
