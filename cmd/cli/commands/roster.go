package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rseventos/shiftboard/pkg/core/model"
	"github.com/rseventos/shiftboard/pkg/core/services"
)

// AddPersonCmd creates the addPerson command
func AddPersonCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addPerson <name>",
		Short: "Add a collaborator (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			personType, _ := cmd.Flags().GetString("type")
			teamID, _ := cmd.Flags().GetString("team")

			person, err := services.AddPerson(app.Ctx, app.Database, app.Logger, app.Session, args[0], model.PersonType(personType))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s (%s) with id %s\n", person.Name, person.Type, person.ID)
			if teamID != "" {
				if err := services.AssignPersonTeam(app.Ctx, app.Database, app.Logger, app.Session, person.ID, teamID); err != nil {
					return fmt.Errorf("collaborator added but not assigned to a team: %w", err)
				}
			}
			app.refreshSummary()
			return nil
		},
	}

	cmd.Flags().String("type", string(model.PersonFixed), "Contract type: fixed or day_rate")
	cmd.Flags().String("team", "", "Team the collaborator belongs to")
	return cmd
}

// AssignTeamCmd creates the assignTeam command
func AssignTeamCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignTeam <person_id> [team_id]",
		Short: "Set or clear the team of a collaborator, or of a user with --user",
		Long: `Set the team a collaborator belongs to, or clear it when no team is given.

With --user the id is a user id instead (admin only). A lead who is a member
of a team can see and edit all of its shifts.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			asUser, _ := cmd.Flags().GetBool("user")
			teamID := ""
			if len(args) == 2 {
				teamID = args[1]
			}

			var err error
			if asUser {
				err = services.AssignUserTeam(app.Ctx, app.Database, app.Logger, app.Session, args[0], teamID)
			} else {
				err = services.AssignPersonTeam(app.Ctx, app.Database, app.Logger, app.Session, args[0], teamID)
			}
			if err != nil {
				return err
			}

			if teamID == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s no longer belongs to a team\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s now belongs to team %s\n", args[0], teamID)
			}
			return nil
		},
	}

	cmd.Flags().Bool("user", false, "Treat the id as a user id")
	return cmd
}

// DeletePersonCmd creates the deletePerson command
func DeletePersonCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deletePerson <person_id>",
		Short: "Remove a collaborator and their assignments (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeletePerson(app.Ctx, app.Database, app.Logger, app.Session, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Collaborator removed")
			app.refreshSummary()
			return nil
		},
	}
}

// SetActiveCmd creates the setActive command
func SetActiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setActive <person_id> <true|false>",
		Short: "Include or exclude a collaborator from the pending check (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var active bool
			switch args[1] {
			case "true", "yes", "on":
				active = true
			case "false", "no", "off":
				active = false
			default:
				return fmt.Errorf("active must be true or false, got: %s", args[1])
			}

			if err := services.SetPersonActive(app.Ctx, app.Database, app.Logger, app.Session, args[0], active); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Collaborator %s is now %s\n", args[0], activeLabel(active))
			app.refreshSummary()
			return nil
		},
	}
}

// ListPeopleCmd creates the listPeople command
func ListPeopleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listPeople",
		Short: "List all collaborators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			people, err := services.ListPeople(app.Ctx, app.Database, app.Session)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d collaborators:\n\n", len(people))
			for _, p := range people {
				fmt.Fprintf(out, "- %s (%s) - %s - %s", p.Name, p.ID, typeLabel(p.Type), activeLabel(p.Active))
				if p.TeamID != "" {
					fmt.Fprintf(out, " - team %s", p.TeamID)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// SaveTeamCmd creates the saveTeam command
func SaveTeamCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saveTeam <name>",
		Short: "Create a team led by you, or rename one with --id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")

			team, err := services.SaveTeam(app.Ctx, app.Database, app.Logger, app.Session, args[0], id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved team %s (%s)\n", team.Name, team.ID)
			return nil
		},
	}

	cmd.Flags().String("id", "", "Id of the team to rename")
	return cmd
}

// DeleteTeamCmd creates the deleteTeam command
func DeleteTeamCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteTeam <team_id>",
		Short: "Delete a team together with its shifts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteTeam(app.Ctx, app.Database, app.Logger, app.Session, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Team deleted")
			app.refreshSummary()
			return nil
		},
	}
}

// ListTeamsCmd creates the listTeams command
func ListTeamsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listTeams",
		Short: "List all teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := services.ListTeams(app.Ctx, app.Database, app.Session)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d teams:\n\n", len(teams))
			for _, t := range teams {
				lead := t.LeadName
				if lead == "" {
					lead = "no lead"
				}
				fmt.Fprintf(out, "- %s (%s) - led by %s\n", t.Name, t.ID, lead)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func typeLabel(t model.PersonType) string {
	if t == model.PersonDayRate {
		return "day rate"
	}
	return "fixed"
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
