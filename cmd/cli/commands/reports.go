package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rseventos/shiftboard/pkg/core/services"
)

// StatsCmd creates the stats command
func StatsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show assignment counts per team (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := services.TeamStats(app.Ctx, app.Database, app.Session)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%-30s %s\n", "TEAM", "ASSIGNMENTS")
			for _, s := range stats {
				fmt.Fprintf(out, "%-30s %d\n", s.Name, s.Assignments)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show shift edits and deletions, newest first (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := services.History(app.Ctx, app.Database, app.Session)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No changes recorded.")
				return nil
			}
			loc := app.Cfg.Location()
			fmt.Fprintln(out)
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %-20s %s\n", e.EditedAt.In(loc).Format("02/01/2006 15:04"), e.EditorName, e.Description)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// ExportReportCmd creates the exportReport command
func ExportReportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "exportReport",
		Short: "Generate the monthly closing PDF (admin, on the export day)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := services.ExportMonthlyReport(app.Ctx, app.Database, app.Reports, app.Cfg, app.Logger, app.Session, app.now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Monthly report written to %s\n\n", path)
			return nil
		},
	}
}
