package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rseventos/shiftboard/pkg/core/rota"
	"github.com/rseventos/shiftboard/pkg/core/services"
)

// PublishShiftCmd creates the publishShift command
func PublishShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publishShift <team_id> <person_id>...",
		Short: "Publish a shift, or edit one with --edit",
		Long: `Publish a shift for a team and mark who is present.

The shift times come from --start/--end or from a configured --preset.
--repeat takes an RRULE (for example "FREQ=WEEKLY;BYDAY=SA;COUNT=4") and
publishes one shift per occurrence starting at --date; a preset with an
rrule repeats the same way unless --once or --edit is given.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			date, _ := flags.GetString("date")
			start, _ := flags.GetString("start")
			end, _ := flags.GetString("end")
			notes, _ := flags.GetString("notes")
			editing, _ := flags.GetString("edit")
			presetName, _ := flags.GetString("preset")
			rule, _ := flags.GetString("repeat")
			once, _ := flags.GetBool("once")

			if date == "" {
				date = app.today()
			}

			if presetName != "" {
				preset, ok := app.Cfg.Preset(presetName)
				if !ok {
					return fmt.Errorf("unknown shift preset: %s", presetName)
				}
				if !flags.Changed("start") {
					start = preset.Start
				}
				if !flags.Changed("end") {
					end = preset.End
				}
				// an edit replaces one shift, so the preset only supplies times
				if rule == "" && !once && editing == "" {
					rule = preset.RRule
				}
			}

			input := services.ShiftInput{
				Date:      date,
				Start:     start,
				End:       end,
				TeamID:    args[0],
				PersonIDs: args[1:],
				Notes:     notes,
				EditingID: editing,
			}

			out := cmd.OutOrStdout()
			if rule != "" {
				results, err := services.PublishRecurringShift(app.Ctx, app.Database, app.Logger, app.Session, input, rule, app.now())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n✓ Published %d shifts:\n", len(results))
				for _, r := range results {
					fmt.Fprintf(out, "  %s  %s-%s  (%s)\n", r.Shift.Date, r.Shift.Start, r.Shift.End, r.Shift.ID)
					printDoubleBookings(out, r.DoubleBookings)
				}
				fmt.Fprintln(out)
				app.refreshSummary()
				return nil
			}

			result, err := services.PublishShift(app.Ctx, app.Database, app.Logger, app.Session, input, app.now())
			if err != nil {
				return err
			}
			verb := "updated"
			if result.Created {
				verb = "published"
			}
			fmt.Fprintf(out, "\n✓ Shift %s: %s %s-%s (%s)\n", verb, result.Shift.Date, result.Shift.Start, result.Shift.End, result.Shift.ID)
			printDoubleBookings(out, result.DoubleBookings)
			fmt.Fprintln(out)
			app.refreshSummary()
			return nil
		},
	}

	cmd.Flags().String("date", "", "Shift date YYYY-MM-DD (default today)")
	cmd.Flags().String("start", "08:00", "Start time HH:MM")
	cmd.Flags().String("end", "17:00", "End time HH:MM")
	cmd.Flags().String("notes", "", "Notes for the team")
	cmd.Flags().String("edit", "", "Id of the shift to replace")
	cmd.Flags().String("preset", "", "Name of a configured shift preset")
	cmd.Flags().String("repeat", "", "RRULE bounded by COUNT or UNTIL")
	cmd.Flags().Bool("once", false, "Ignore the preset's rrule and publish a single shift")
	return cmd
}

func printDoubleBookings(out io.Writer, bookings []rota.DoubleBooking) {
	for _, b := range bookings {
		slots := make([]string, 0, len(b.Shifts))
		for _, s := range b.Shifts {
			slots = append(slots, fmt.Sprintf("%s-%s", s.Start, s.End))
		}
		fmt.Fprintf(out, "  ⚠️  %s already works %s that day\n", b.PersonID, strings.Join(slots, ", "))
	}
}

// DeleteShiftCmd creates the deleteShift command
func DeleteShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteShift <shift_id>",
		Short: "Delete a shift and its assignments (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteShift(app.Ctx, app.Database, app.Logger, app.Session, args[0], app.now()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Shift deleted")
			app.refreshSummary()
			return nil
		},
	}
}

// ListShiftsCmd creates the listShifts command
func ListShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listShifts",
		Short: "List published shifts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter services.ShiftFilter
			filter.Date, _ = cmd.Flags().GetString("date")
			filter.TeamID, _ = cmd.Flags().GetString("team")
			filter.PersonID, _ = cmd.Flags().GetString("person")

			views, err := services.ListShifts(app.Ctx, app.Database, app.Session, filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No shifts found.")
				return nil
			}
			fmt.Fprintf(out, "\nFound %d shifts:\n\n", len(views))
			for _, v := range views {
				writeShift(out, v)
			}
			return nil
		},
	}

	cmd.Flags().String("date", "", "Only shifts on this date (YYYY-MM-DD)")
	cmd.Flags().String("team", "", "Only shifts of this team id")
	cmd.Flags().String("person", "", "Only shifts this collaborator works")
	return cmd
}

func writeShift(out io.Writer, v services.ShiftView) {
	fmt.Fprintf(out, "%s  %s-%s  %s  (%s)\n", v.Date, v.Start, v.End, v.TeamName, v.ID)
	names := make([]string, len(v.People))
	for i, p := range v.People {
		names[i] = p.Name
	}
	fmt.Fprintf(out, "  Present: %s\n", strings.Join(names, ", "))
	if v.CreatorName != "" {
		fmt.Fprintf(out, "  Published by %s at %s\n", v.CreatorName, v.PublishedAt.Format("02/01/2006 15:04"))
	}
	if v.Notes != "" {
		fmt.Fprintf(out, "  Notes: %s\n", v.Notes)
	}
	fmt.Fprintln(out)
}

// PendingCmd creates the pending command
func PendingCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pending [date]",
		Short: "List active collaborators without a shift (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := app.today()
			if len(args) > 0 {
				date = args[0]
			}

			pending, err := services.Pending(app.Ctx, app.Database, app.Session, date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nPending on %s:\n", date)
			fmt.Fprintf(out, "• FIXED WITHOUT SHIFT (%d): %s\n", len(pending.Fixed), namesOrNone(pending.Fixed))
			fmt.Fprintf(out, "• DAY-RATE WITHOUT SHIFT (%d): %s\n\n", len(pending.DayRate), namesOrNone(pending.DayRate))
			return nil
		},
	}
}
